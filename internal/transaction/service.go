package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/card"
	"github.com/cardledger/cardledger/internal/errs"
	"github.com/cardledger/cardledger/internal/identity"
	"github.com/cardledger/cardledger/internal/notification"
)

// Service orchestrates the transaction lifecycle: validation, eager
// reservation of debits, status transitions, and soft deletion.
type Service struct {
	store    Store
	cards    card.Repository
	users    identity.Repository
	notifier notification.Notifier
}

// NewService constructs a transaction service.
func NewService(store Store, cards card.Repository, users identity.Repository, notifier notification.Notifier) *Service {
	return &Service{store: store, cards: cards, users: users, notifier: notifier}
}

// CreateInput captures the data required to record a transaction.
type CreateInput struct {
	CardID      string
	UserID      string
	Amount      decimal.Decimal
	Type        Type
	Description string
}

// CreateResult summarizes the outcome of recording a transaction.
// AvailableBalance reflects any reservation the transaction placed;
// UpdatedBalance is a projection of the balance once approved.
type CreateResult struct {
	TransactionID    string
	Status           Status
	CurrentBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	ReservedAmount   decimal.Decimal
	UpdatedBalance   decimal.Decimal
}

// Create validates and records a transaction in PENDING status. A debit
// reserves its amount against the card immediately so concurrent debits
// cannot overspend; a credit touches the balance only on approval.
func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	c, err := s.cards.Find(ctx, input.CardID)
	if err != nil {
		return CreateResult{}, err
	}
	if err := validateCreate(c, input.UserID, input.Amount, input.Type); err != nil {
		return CreateResult{}, err
	}

	now := time.Now().UTC()
	tx := Transaction{
		ID:          uuid.New().String(),
		CardID:      c.ID,
		UserID:      input.UserID,
		Amount:      input.Amount,
		Type:        input.Type,
		Status:      StatusPending,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, tx); err != nil {
		return CreateResult{}, err
	}

	reserved := decimal.Zero
	if input.Type == TypeDebit {
		reserved = input.Amount
		if err := s.cards.UpdateReservedBalance(ctx, c.ID, c.ReservedBalance.Add(input.Amount)); err != nil {
			return CreateResult{}, err
		}
	}

	updatedBalance := c.Balance
	if input.Type == TypeCredit {
		updatedBalance = c.Balance.Add(input.Amount)
	}

	return CreateResult{
		TransactionID:    tx.ID,
		Status:           tx.Status,
		CurrentBalance:   c.Balance,
		AvailableBalance: c.Available().Sub(reserved),
		ReservedAmount:   reserved,
		UpdatedBalance:   updatedBalance,
	}, nil
}

// List returns the user's transactions on a card, newest first, with
// optional type and date filters.
func (s *Service) List(ctx context.Context, cardID, userID string, f Filter) ([]Transaction, error) {
	return s.store.List(ctx, cardID, userID, f)
}

// Get loads a single transaction. Admins see every transaction; other
// users only their own.
func (s *Service) Get(ctx context.Context, transactionID, userID string) (Transaction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Transaction{}, err
	}
	ownerFilter := userID
	if user.IsAdmin() {
		ownerFilter = ""
	}
	return s.store.Find(ctx, transactionID, ownerFilter)
}

// UpdateStatus moves a transaction along the lifecycle and applies the
// matching balance deltas to the card in one atomic commit. Only admins
// may call this; anyone else gets a not-found so the transaction's
// existence does not leak.
func (s *Service) UpdateStatus(ctx context.Context, transactionID, userID string, newStatus Status) (Transaction, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return Transaction{}, err
	}

	tx, err := s.store.Find(ctx, transactionID, "")
	if err != nil {
		return Transaction{}, err
	}
	c, err := s.cards.Find(ctx, tx.CardID)
	if err != nil {
		return Transaction{}, err
	}

	if !CanTransition(tx.Status, newStatus) {
		return Transaction{}, errs.Validation("invalid status transition", &errs.Details{
			Field:    "status",
			Expected: joinStatuses(AllowedTargets(tx.Status)),
			Received: string(newStatus),
			Context:  map[string]string{"currentStatus": string(tx.Status)},
		})
	}

	balanceDelta, reservedDelta := balanceDeltas(tx.Type, newStatus, tx.Amount)
	updated, err := s.store.ApplyStatusChange(ctx, StatusChange{
		TransactionID: tx.ID,
		CardID:        c.ID,
		FromStatus:    tx.Status,
		ToStatus:      newStatus,
		BalanceDelta:  balanceDelta,
		ReservedDelta: reservedDelta,
	})
	if err != nil {
		return Transaction{}, err
	}

	s.notifyStatus(ctx, updated)
	return updated, nil
}

// Delete soft-deletes a transaction. Only pending transactions may be
// deleted; a pending debit's hold stays in place after deletion.
func (s *Service) Delete(ctx context.Context, transactionID, userID string) error {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}

	tx, err := s.store.Find(ctx, transactionID, "")
	if err != nil {
		return err
	}
	if tx.Status != StatusPending {
		return errs.Validation("only pending transactions can be deleted", nil)
	}
	return s.store.SoftDelete(ctx, tx.ID)
}

// requireAdmin is the single capability check for privileged operations.
// Non-admin callers receive ErrNotFound rather than a forbidden error.
func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return ErrNotFound
	}
	return nil
}

func (s *Service) notifyStatus(ctx context.Context, tx Transaction) {
	if s.notifier == nil {
		return
	}
	var kind string
	switch tx.Status {
	case StatusApproved:
		kind = notification.KindTransactionApproved
	case StatusRefunded:
		kind = notification.KindTransactionRefunded
	default:
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        kind,
		Destination: tx.UserID,
		Body:        fmt.Sprintf("%s of %s on card %s is now %s", tx.Type, tx.Amount.String(), tx.CardID, tx.Status),
	})
}

func joinStatuses(statuses []Status) string {
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, " or ")
}
