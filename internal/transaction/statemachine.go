package transaction

import "github.com/shopspring/decimal"

// allowedTransitions holds the only legal status edges. FAILED and
// REFUNDED are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusFailed},
	StatusApproved: {StatusRefunded},
}

// AllowedTargets returns the statuses reachable from the given status.
func AllowedTargets(from Status) []Status {
	return allowedTransitions[from]
}

// CanTransition reports whether the edge from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// balanceDeltas returns the adjustments to apply to a card's balance and
// reserved balance when a transaction of the given type moves to the
// given status. Both deltas are applied in the same commit as the status
// write.
//
// A debit holds funds at creation, so approval converts the hold into a
// real deduction, failure merely releases the hold, and a refund (only
// reachable after approval) restores the funds. A credit holds nothing:
// approval realizes the deposit and a refund reverses it.
func balanceDeltas(txType Type, to Status, amount decimal.Decimal) (balance, reserved decimal.Decimal) {
	zero := decimal.Zero
	switch txType {
	case TypeDebit:
		switch to {
		case StatusApproved:
			return amount.Neg(), amount.Neg()
		case StatusFailed:
			return zero, amount.Neg()
		case StatusRefunded:
			return amount, zero
		}
	case TypeCredit:
		switch to {
		case StatusApproved:
			return amount, zero
		case StatusRefunded:
			return amount.Neg(), zero
		}
	}
	return zero, zero
}
