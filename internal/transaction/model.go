package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes money entering a card from money leaving it.
type Type string

const (
	// TypeCredit records money moving onto the card. Nothing is reserved
	// at creation; the balance moves only on approval.
	TypeCredit Type = "CREDIT"
	// TypeDebit records money leaving the card. The amount is held
	// against the available balance as soon as the transaction is created.
	TypeDebit Type = "DEBIT"
)

// Status is the lifecycle position of a transaction.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

// ParseType validates a wire value against the closed type set.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeCredit, TypeDebit:
		return Type(s), true
	}
	return "", false
}

// ParseStatus validates a wire value against the closed status set.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusFailed, StatusRefunded:
		return Status(s), true
	}
	return "", false
}

// Transaction is a single monetary movement against a card. Records are
// soft-deleted only, and only while still pending.
type Transaction struct {
	ID          string
	CardID      string
	UserID      string
	Amount      decimal.Decimal
	Type        Type
	Status      Status
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
