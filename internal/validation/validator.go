// Package validation decides whether a fetched transaction is a clean SUI
// transfer to the collection address and, if so, how much it contributed.
package validation

import (
	"fmt"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/sui"
)

// ProgrammableTransactionKind is the only transaction kind accepted as a transfer.
const ProgrammableTransactionKind = "ProgrammableTransaction"

// digestLength is the decoded size of a transaction digest.
const digestLength = 32

// Reason names the validation stage that rejected a transaction.
type Reason string

// Rejection reasons, in the order the stages run.
const (
	ReasonFailedStatus          Reason = "failed_status"
	ReasonSenderIsTarget        Reason = "sender_is_target"
	ReasonUnsupportedShape      Reason = "unsupported_shape"
	ReasonTargetNotInInputs     Reason = "target_not_in_inputs"
	ReasonInvalidBalanceChanges Reason = "invalid_balance_changes"
)

// Reasons lists every rejection reason in stage order.
var Reasons = []Reason{
	ReasonFailedStatus,
	ReasonSenderIsTarget,
	ReasonUnsupportedShape,
	ReasonTargetNotInInputs,
	ReasonInvalidBalanceChanges,
}

// Outcome is the result of validating one transaction.
// Exactly one of Entry and Reason is set.
type Outcome struct {
	Entry  *domain.LedgerEntry
	Reason Reason
	Detail string
}

// Accepted reports whether the transaction produced a ledger entry.
func (o Outcome) Accepted() bool {
	return o.Entry != nil
}

func reject(reason Reason, format string, args ...interface{}) Outcome {
	return Outcome{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ContractError reports a field the RPC contract guarantees but the node
// did not provide. It is not recoverable for that transaction.
type ContractError struct {
	Digest string
	Field  string
	Err    error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transaction %s: contract violation on %s: %v", e.Digest, e.Field, e.Err)
	}
	return fmt.Sprintf("transaction %s: contract violation: %s missing", e.Digest, e.Field)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// Validator checks transactions sent to a single target address.
// It holds no state besides the target; Validate is deterministic.
type Validator struct {
	target domain.Address
}

// New creates a validator for transfers to target.
func New(target domain.Address) *Validator {
	return &Validator{target: target}
}

// Target returns the collection address.
func (v *Validator) Target() domain.Address {
	return v.target
}

// Validate runs the validation stages in order and stops at the first failure.
// A non-nil error is always a *ContractError.
func (v *Validator) Validate(tx *sui.TransactionBlock) (Outcome, error) {
	if err := checkContract(tx); err != nil {
		return Outcome{}, err
	}

	data := tx.Transaction.Data
	sender := domain.Address(data.Sender)

	timestampMs, err := strconv.ParseInt(tx.TimestampMs, 10, 64)
	if err != nil {
		return Outcome{}, &ContractError{Digest: tx.Digest, Field: "timestampMs", Err: err}
	}

	if !CheckSuccess(tx.Effects) {
		return reject(ReasonFailedStatus, "status %q", tx.Effects.Status.Status), nil
	}

	if sender == v.target {
		return reject(ReasonSenderIsTarget, "sender %s", sender), nil
	}

	args, detail, ok := CheckShape(data.Transaction)
	if !ok {
		return reject(ReasonUnsupportedShape, "%s", detail), nil
	}

	if !CheckAddressPresence(args, v.target) {
		return reject(ReasonTargetNotInInputs, "target %s not among address inputs", v.target), nil
	}

	gasFee, err := GasFee(tx.Effects.GasUsed)
	if err != nil {
		return Outcome{}, &ContractError{Digest: tx.Digest, Field: "effects.gasUsed", Err: err}
	}

	amount, detail, ok := CheckBalanceChanges(tx.BalanceChanges, sender, v.target, gasFee)
	if !ok {
		return reject(ReasonInvalidBalanceChanges, "%s", detail), nil
	}

	return Outcome{
		Entry: &domain.LedgerEntry{
			Sender:      sender,
			Digest:      domain.Digest(tx.Digest),
			Amount:      amount,
			TimestampMs: timestampMs,
		},
	}, nil
}

// checkContract verifies the fields every queried transaction must carry.
func checkContract(tx *sui.TransactionBlock) error {
	if tx == nil {
		return &ContractError{Field: "transaction block"}
	}
	if tx.Digest == "" {
		return &ContractError{Field: "digest"}
	}
	raw, err := base58.Decode(tx.Digest)
	if err != nil {
		return &ContractError{Digest: tx.Digest, Field: "digest", Err: err}
	}
	if len(raw) != digestLength {
		return &ContractError{Digest: tx.Digest, Field: "digest", Err: fmt.Errorf("decoded length %d, want %d", len(raw), digestLength)}
	}

	switch {
	case tx.Transaction == nil || tx.Transaction.Data == nil:
		return &ContractError{Digest: tx.Digest, Field: "transaction"}
	case tx.Transaction.Data.Sender == "":
		return &ContractError{Digest: tx.Digest, Field: "sender"}
	case tx.BalanceChanges == nil:
		return &ContractError{Digest: tx.Digest, Field: "balanceChanges"}
	case tx.Transaction.Data.Transaction == nil:
		return &ContractError{Digest: tx.Digest, Field: "inner transaction"}
	case tx.Effects == nil:
		return &ContractError{Digest: tx.Digest, Field: "effects"}
	case tx.TimestampMs == "":
		return &ContractError{Digest: tx.Digest, Field: "timestampMs"}
	}
	return nil
}

// CheckSuccess reports whether the effects carry a success status.
func CheckSuccess(effects *sui.TransactionEffects) bool {
	return effects != nil && effects.Status.Status == sui.StatusSuccess
}

// CheckShape accepts only a flat programmable transaction whose inputs are
// all pure u64 or address literals encoded as strings.
func CheckShape(kind *sui.TransactionKind) ([]sui.CallArg, string, bool) {
	if kind == nil {
		return nil, "inner transaction missing", false
	}
	if kind.Kind != ProgrammableTransactionKind {
		return nil, fmt.Sprintf("kind %q", kind.Kind), false
	}

	args, err := kind.CallArgs()
	if err != nil {
		return nil, err.Error(), false
	}

	for i, arg := range args {
		if arg.Type != "pure" {
			return nil, fmt.Sprintf("input %d has type %q", i, arg.Type), false
		}
		if arg.ValueType != "u64" && arg.ValueType != "address" {
			return nil, fmt.Sprintf("input %d has value type %q", i, arg.ValueType), false
		}
		if _, ok := arg.StringValue(); !ok {
			return nil, fmt.Sprintf("input %d value is not a string", i), false
		}
	}
	return args, "", true
}

// CheckAddressPresence reports whether target is one of the address inputs.
func CheckAddressPresence(args []sui.CallArg, target domain.Address) bool {
	for _, arg := range args {
		if arg.ValueType != "address" {
			continue
		}
		if v, ok := arg.StringValue(); ok && domain.Address(v) == target {
			return true
		}
	}
	return false
}

// GasFee computes computationCost + storageCost - storageRebate.
func GasFee(gas sui.GasCostSummary) (decimal.Decimal, error) {
	computation, err := domain.ParseAmount(gas.ComputationCost)
	if err != nil {
		return decimal.Zero, fmt.Errorf("computationCost: %w", err)
	}
	storage, err := domain.ParseAmount(gas.StorageCost)
	if err != nil {
		return decimal.Zero, fmt.Errorf("storageCost: %w", err)
	}
	rebate, err := domain.ParseAmount(gas.StorageRebate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("storageRebate: %w", err)
	}
	return computation.Add(storage).Sub(rebate), nil
}

// CheckBalanceChanges enforces the transfer invariant: exactly two SUI
// balance changes, a strictly negative one owned by sender and a strictly
// positive one owned by target, with |sender| - gasFee == |target|.
// It returns the contributed amount |sender| - gasFee.
func CheckBalanceChanges(
	changes []sui.BalanceChange,
	sender, target domain.Address,
	gasFee decimal.Decimal,
) (decimal.Decimal, string, bool) {
	if len(changes) != 2 {
		return decimal.Zero, fmt.Sprintf("%d balance changes, want 2", len(changes)), false
	}

	for i, c := range changes {
		if c.CoinType != domain.NativeCoinType {
			return decimal.Zero, fmt.Sprintf("balance change %d has coin type %q", i, c.CoinType), false
		}
	}

	senderChange := findOwner(changes, sender)
	targetChange := findOwner(changes, target)
	if senderChange == nil || targetChange == nil {
		return decimal.Zero, "balance changes do not belong to sender and target", false
	}

	senderDelta, err := domain.ParseAmount(senderChange.Amount)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("sender amount: %v", err), false
	}
	targetDelta, err := domain.ParseAmount(targetChange.Amount)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("target amount: %v", err), false
	}

	if !senderDelta.IsNegative() {
		return decimal.Zero, fmt.Sprintf("sender delta %s is not negative", senderDelta), false
	}
	if !targetDelta.IsPositive() {
		return decimal.Zero, fmt.Sprintf("target delta %s is not positive", targetDelta), false
	}

	amount := senderDelta.Abs().Sub(gasFee)
	if !amount.Equal(targetDelta.Abs()) {
		return decimal.Zero, fmt.Sprintf("|%s| - gas %s != %s", senderDelta, gasFee, targetDelta), false
	}

	return amount, "", true
}

func findOwner(changes []sui.BalanceChange, owner domain.Address) *sui.BalanceChange {
	for i := range changes {
		if domain.Address(changes[i].Owner.AddressOwner) == owner {
			return &changes[i]
		}
	}
	return nil
}
