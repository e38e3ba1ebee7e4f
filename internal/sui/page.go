package sui

import (
	"encoding/json"
	"fmt"
)

// Page is one decoded page of a cursor-paginated RPC method.
type Page[T any] struct {
	Data        []T
	HasNextPage bool
	NextCursor  *string
}

// PageSchemaError reports a page whose pagination metadata cannot be trusted.
type PageSchemaError struct {
	Method string
	Cursor *string // cursor the page was requested with
	Reason string
}

func (e *PageSchemaError) Error() string {
	cursor := "null"
	if e.Cursor != nil {
		cursor = *e.Cursor
	}
	return fmt.Sprintf("%s: malformed page (cursor %s): %s", e.Method, cursor, e.Reason)
}

type rawPage struct {
	Data        json.RawMessage `json:"data"`
	HasNextPage *bool           `json:"hasNextPage"`
	NextCursor  json.RawMessage `json:"nextCursor"`
}

// DecodePage decodes a paginated result. Missing or malformed data,
// hasNextPage or nextCursor fields yield a *PageSchemaError.
func DecodePage[T any](method string, cursor *string, result json.RawMessage) (*Page[T], error) {
	fail := func(format string, args ...interface{}) (*Page[T], error) {
		return nil, &PageSchemaError{Method: method, Cursor: cursor, Reason: fmt.Sprintf(format, args...)}
	}

	if len(result) == 0 || string(result) == "null" {
		return fail("result missing")
	}

	var raw rawPage
	if err := json.Unmarshal(result, &raw); err != nil {
		return fail("decode result: %v", err)
	}

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return fail("data missing")
	}
	var data []T
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return fail("decode data: %v", err)
	}

	if raw.HasNextPage == nil {
		return fail("hasNextPage missing")
	}

	var next *string
	if len(raw.NextCursor) > 0 && string(raw.NextCursor) != "null" {
		var s string
		if err := json.Unmarshal(raw.NextCursor, &s); err != nil {
			return fail("nextCursor is not a string")
		}
		next = &s
	}

	if *raw.HasNextPage && (next == nil || *next == "") {
		return fail("hasNextPage is true but nextCursor is empty")
	}

	return &Page[T]{
		Data:        data,
		HasNextPage: *raw.HasNextPage,
		NextCursor:  next,
	}, nil
}
