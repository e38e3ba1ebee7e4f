package sui

import (
	"encoding/json"
	"fmt"
)

// TransactionFilter selects transactions for suix_queryTransactionBlocks.
type TransactionFilter struct {
	ToAddress   string `json:"ToAddress,omitempty"`
	FromAddress string `json:"FromAddress,omitempty"`
}

// TransactionBlockResponseOptions selects which parts of a transaction the node returns.
type TransactionBlockResponseOptions struct {
	ShowInput          bool `json:"showInput"`
	ShowEffects        bool `json:"showEffects"`
	ShowEvents         bool `json:"showEvents"`
	ShowBalanceChanges bool `json:"showBalanceChanges"`
}

// TransactionBlockQuery is the first parameter of suix_queryTransactionBlocks.
type TransactionBlockQuery struct {
	Filter  TransactionFilter               `json:"filter"`
	Options TransactionBlockResponseOptions `json:"options"`
}

// ToAddressQuery builds the query used to list transfers received by address.
func ToAddressQuery(address string) TransactionBlockQuery {
	return TransactionBlockQuery{
		Filter: TransactionFilter{ToAddress: address},
		Options: TransactionBlockResponseOptions{
			ShowInput:          true,
			ShowEffects:        true,
			ShowEvents:         true,
			ShowBalanceChanges: true,
		},
	}
}

// TransactionBlock is a read-only view over one suix_queryTransactionBlocks item.
// Pointer and slice fields are nil when the node omitted them.
type TransactionBlock struct {
	Digest         string               `json:"digest"`
	Transaction    *TransactionEnvelope `json:"transaction"`
	Effects        *TransactionEffects  `json:"effects"`
	BalanceChanges []BalanceChange      `json:"balanceChanges"`
	TimestampMs    string               `json:"timestampMs"`
	Checkpoint     string               `json:"checkpoint"`
}

// TransactionEnvelope wraps the signed transaction data.
type TransactionEnvelope struct {
	Data *TransactionData `json:"data"`
}

// TransactionData holds the sender and the inner transaction kind.
type TransactionData struct {
	Sender      string           `json:"sender"`
	Transaction *TransactionKind `json:"transaction"`
}

// TransactionKind is the inner transaction. Inputs are kept raw so that
// unexpected shapes can be rejected by validation instead of failing decode.
type TransactionKind struct {
	Kind         string          `json:"kind"`
	Inputs       json.RawMessage `json:"inputs"`
	Transactions json.RawMessage `json:"transactions"`
}

// CallArg is one input of a programmable transaction.
type CallArg struct {
	Type      string          `json:"type"`
	ValueType string          `json:"valueType"`
	Value     json.RawMessage `json:"value"`
	ObjectID  string          `json:"objectId,omitempty"`
}

// CallArgs decodes the inputs as a list of call arguments.
func (k *TransactionKind) CallArgs() ([]CallArg, error) {
	if len(k.Inputs) == 0 || string(k.Inputs) == "null" {
		return nil, fmt.Errorf("inputs missing")
	}
	var args []CallArg
	if err := json.Unmarshal(k.Inputs, &args); err != nil {
		return nil, fmt.Errorf("decode inputs: %w", err)
	}
	return args, nil
}

// StringValue returns the value when it is a JSON string.
func (a CallArg) StringValue() (string, bool) {
	var s string
	if len(a.Value) == 0 || json.Unmarshal(a.Value, &s) != nil {
		return "", false
	}
	return s, true
}

// TransactionEffects is the subset of effects used by the ledger.
type TransactionEffects struct {
	Status  ExecutionStatus `json:"status"`
	GasUsed GasCostSummary  `json:"gasUsed"`
}

// ExecutionStatus reports whether a transaction succeeded.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// StatusSuccess is the execution status of a successful transaction.
const StatusSuccess = "success"

// GasCostSummary holds gas figures in MIST, encoded as decimal strings.
type GasCostSummary struct {
	ComputationCost         string `json:"computationCost"`
	StorageCost             string `json:"storageCost"`
	StorageRebate           string `json:"storageRebate"`
	NonRefundableStorageFee string `json:"nonRefundableStorageFee"`
}

// BalanceChange is a balance delta caused by a transaction.
type BalanceChange struct {
	Owner    Owner  `json:"owner"`
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"`
}

// Owner is an object or balance owner. The node encodes it either as the
// string "Immutable" or as a single-key object.
type Owner struct {
	AddressOwner string
	ObjectOwner  string
	Shared       bool
	Immutable    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Owner) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Owner{Immutable: s == "Immutable"}
		return nil
	}

	var raw struct {
		AddressOwner string          `json:"AddressOwner"`
		ObjectOwner  string          `json:"ObjectOwner"`
		Shared       json.RawMessage `json:"Shared"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode owner: %w", err)
	}
	*o = Owner{
		AddressOwner: raw.AddressOwner,
		ObjectOwner:  raw.ObjectOwner,
		Shared:       len(raw.Shared) > 0 && string(raw.Shared) != "null",
	}
	return nil
}

// ObjectDataOptions selects which parts of an object sui_getObject returns.
type ObjectDataOptions struct {
	ShowType                bool `json:"showType"`
	ShowOwner               bool `json:"showOwner"`
	ShowPreviousTransaction bool `json:"showPreviousTransaction"`
	ShowDisplay             bool `json:"showDisplay"`
	ShowContent             bool `json:"showContent"`
	ShowBcs                 bool `json:"showBcs"`
	ShowStorageRebate       bool `json:"showStorageRebate"`
}

// FullObjectOptions requests every part of an object.
func FullObjectOptions() ObjectDataOptions {
	return ObjectDataOptions{
		ShowType:                true,
		ShowOwner:               true,
		ShowPreviousTransaction: true,
		ShowDisplay:             true,
		ShowContent:             true,
		ShowBcs:                 true,
		ShowStorageRebate:       true,
	}
}

// ObjectResponse is the sui_getObject result. Data is kept raw; callers
// validate it against the schema they expect.
type ObjectResponse struct {
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

// DynamicFieldInfo is one item of suix_getDynamicFields.
type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	BcsName    string           `json:"bcsName"`
	Type       string           `json:"type"`
	ObjectType string           `json:"objectType"`
	ObjectID   string           `json:"objectId"`
	Digest     string           `json:"digest"`
}

// DynamicFieldName is the key of a dynamic field.
type DynamicFieldName struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}
