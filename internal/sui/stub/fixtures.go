package stub

import (
	"crypto/sha256"
	"encoding/json"
	"strconv"

	"github.com/mr-tron/base58"

	"sui-refund-ledger/internal/sui"
)

// Digest derives a well-formed base58 transaction digest from seed.
func Digest(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return base58.Encode(sum[:])
}

// Transfer describes a plain SUI transfer fixture.
// Zero values default to a successful transfer with no gas.
type Transfer struct {
	Seed            string
	Sender          string
	Target          string
	SenderDelta     string
	TargetDelta     string
	ComputationCost string
	StorageCost     string
	StorageRebate   string
	TimestampMs     int64
	Status          string
}

// Block builds the transaction block as the node would return it.
func (t Transfer) Block() *sui.TransactionBlock {
	status := t.Status
	if status == "" {
		status = sui.StatusSuccess
	}

	inputs, _ := json.Marshal([]map[string]string{
		{"type": "pure", "valueType": "u64", "value": trimSign(t.TargetDelta)},
		{"type": "pure", "valueType": "address", "value": t.Target},
	})
	commands, _ := json.Marshal([]map[string]interface{}{
		{"SplitCoins": []interface{}{"GasCoin", []map[string]int{{"Input": 0}}}},
		{"TransferObjects": []interface{}{[]map[string]int{{"Result": 0}}, map[string]int{"Input": 1}}},
	})

	return &sui.TransactionBlock{
		Digest: Digest(t.Seed),
		Transaction: &sui.TransactionEnvelope{
			Data: &sui.TransactionData{
				Sender: t.Sender,
				Transaction: &sui.TransactionKind{
					Kind:         "ProgrammableTransaction",
					Inputs:       inputs,
					Transactions: commands,
				},
			},
		},
		Effects: &sui.TransactionEffects{
			Status: sui.ExecutionStatus{Status: status},
			GasUsed: sui.GasCostSummary{
				ComputationCost:         orZero(t.ComputationCost),
				StorageCost:             orZero(t.StorageCost),
				StorageRebate:           orZero(t.StorageRebate),
				NonRefundableStorageFee: "0",
			},
		},
		BalanceChanges: []sui.BalanceChange{
			{Owner: sui.Owner{AddressOwner: t.Sender}, CoinType: "0x2::sui::SUI", Amount: t.SenderDelta},
			{Owner: sui.Owner{AddressOwner: t.Target}, CoinType: "0x2::sui::SUI", Amount: t.TargetDelta},
		},
		TimestampMs: strconv.FormatInt(t.TimestampMs, 10),
	}
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func trimSign(s string) string {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

// AddPool registers a refund pool whose unclaimed table holds addrs in a
// single dynamic-field page.
func (c *RPCClient) AddPool(poolID, tableID string, addrs ...string) {
	data, _ := json.Marshal(map[string]interface{}{
		"objectId": poolID,
		"content": map[string]interface{}{
			"dataType": "moveObject",
			"fields": map[string]interface{}{
				"unclaimed": map[string]interface{}{
					"type": "0x2::table::Table<address, u64>",
					"fields": map[string]interface{}{
						"id":   map[string]string{"id": tableID},
						"size": strconv.Itoa(len(addrs)),
					},
				},
			},
		},
	})
	c.Objects[poolID] = &sui.ObjectResponse{Data: data}

	infos := make([]sui.DynamicFieldInfo, len(addrs))
	for i, a := range addrs {
		name, _ := json.Marshal(a)
		infos[i] = sui.DynamicFieldInfo{Name: sui.DynamicFieldName{Type: "address", Value: name}}
	}
	c.AddDynamicFieldPage(tableID, "", &sui.Page[sui.DynamicFieldInfo]{Data: infos})
}
