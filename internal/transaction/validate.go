package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/card"
	"github.com/cardledger/cardledger/internal/errs"
)

// validateCreate runs the pure business checks for a new transaction
// against the current card state. It performs no I/O and mutates nothing.
func validateCreate(c card.Card, requesterID string, amount decimal.Decimal, txType Type) error {
	if !c.IsActive {
		return errs.Validation("card is inactive", nil)
	}
	if c.UserID != requesterID {
		return errs.Validation("card does not belong to user", nil)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errs.Validation("invalid transaction amount", &errs.Details{
			Field:    "amount",
			Expected: "> 0",
			Received: amount.String(),
		})
	}

	if txType == TypeDebit {
		available := c.Available()
		if available.LessThan(amount) {
			return errs.Validation("insufficient balance for debit transaction", &errs.Details{
				Field:    "amount",
				Expected: "<= " + available.String(),
				Received: amount.String(),
				Context: map[string]string{
					"totalBalance":     c.Balance.String(),
					"reservedAmount":   c.ReservedBalance.String(),
					"availableBalance": available.String(),
				},
			})
		}
	}

	return nil
}
