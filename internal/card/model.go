package card

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a prepaid account holding a spendable balance and the portion
// of it currently reserved by pending debits.
//
// Two invariants hold at every observable state: ReservedBalance is
// never negative, and Balance minus ReservedBalance is never negative.
type Card struct {
	ID              string
	UserID          string
	Balance         decimal.Decimal
	ReservedBalance decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// Available returns the spendable amount: Balance minus ReservedBalance.
func (c Card) Available() decimal.Decimal {
	return c.Balance.Sub(c.ReservedBalance)
}
