package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/errs"
)

var (
	// ErrNotFound indicates the transaction is absent, soft-deleted, or not
	// visible to the requester.
	ErrNotFound = errs.NotFound("transaction not found")

	// ErrConcurrentUpdate occurs when a status change loses the race against
	// another update of the same transaction.
	ErrConcurrentUpdate = errors.New("transaction modified concurrently")
)

// Filter narrows a transaction listing. Nil fields are ignored.
type Filter struct {
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

// StatusChange describes one atomic commit: a guarded status write on the
// transaction plus balance adjustments on the owning card. Either every
// write applies or none do.
type StatusChange struct {
	TransactionID string
	CardID        string
	FromStatus    Status
	ToStatus      Status
	BalanceDelta  decimal.Decimal
	ReservedDelta decimal.Decimal
}

// Store is the persistence gateway for transactions. Implementations must
// serialize concurrent ApplyStatusChange calls touching the same card so
// no delta is applied twice.
type Store interface {
	Create(ctx context.Context, tx Transaction) error
	// Find loads a transaction by id. A non-empty ownerID restricts
	// visibility to that user's transactions.
	Find(ctx context.Context, id, ownerID string) (Transaction, error)
	// List returns the card's transactions newest first, excluding
	// soft-deleted records.
	List(ctx context.Context, cardID, userID string, f Filter) ([]Transaction, error)
	SoftDelete(ctx context.Context, id string) error
	ApplyStatusChange(ctx context.Context, change StatusChange) (Transaction, error)
}
