package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PoolTable describes the pool's unclaimed table as read from the pool object.
type PoolTable struct {
	Type string
	ID   string
	Size int64
}

// DecodePoolObject extracts data.content.fields.unclaimed from a
// sui_getObject result. Every level must be present with the expected
// JSON type; size is a decimal string.
func DecodePoolObject(objectID string, data json.RawMessage) (*PoolTable, error) {
	fail := func(path, format string, args ...interface{}) (*PoolTable, error) {
		return nil, &SchemaError{ObjectID: objectID, Path: path, Reason: fmt.Sprintf(format, args...)}
	}

	if len(data) == 0 || string(data) == "null" {
		return fail("data", "missing")
	}

	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return fail("data", "decode: %v", err)
	}

	unclaimed, path, ok := descend(root, "data", "content", "fields", "unclaimed")
	if !ok {
		return fail(path, "missing or not an object")
	}

	typ, ok := unclaimed["type"].(string)
	if !ok {
		return fail(path+".type", "missing or not a string")
	}

	fields, path, ok := descend(unclaimed, path, "fields")
	if !ok {
		return fail(path, "missing or not an object")
	}

	id, idPath, ok := descend(fields, path, "id")
	if !ok {
		return fail(idPath, "missing or not an object")
	}
	tableID, ok := id["id"].(string)
	if !ok || tableID == "" {
		return fail(path+".id.id", "missing or not a string")
	}

	rawSize, ok := fields["size"].(string)
	if !ok {
		return fail(path+".size", "missing or not a string")
	}
	size, err := strconv.ParseInt(rawSize, 10, 64)
	if err != nil || size < 0 {
		return fail(path+".size", "invalid size %q", rawSize)
	}

	return &PoolTable{Type: typ, ID: tableID, Size: size}, nil
}

// descend follows keys through nested JSON objects and returns the last one
// along with the dotted path reached from base.
func descend(root interface{}, base string, keys ...string) (map[string]interface{}, string, bool) {
	path := base
	cur, ok := root.(map[string]interface{})
	if !ok {
		return nil, path, false
	}
	for _, k := range keys {
		path += "." + k
		next, ok := cur[k].(map[string]interface{})
		if !ok {
			return nil, path, false
		}
		cur = next
	}
	return cur, path, true
}
