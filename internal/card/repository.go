package card

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/errs"
)

// ErrNotFound indicates the card does not exist or has been removed.
var ErrNotFound = errs.NotFound("card not found")

// Repository persists card state.
type Repository interface {
	Create(ctx context.Context, card Card) error
	Find(ctx context.Context, id string) (Card, error)
	UpdateReservedBalance(ctx context.Context, id string, reserved decimal.Decimal) error
	UpdateBalances(ctx context.Context, id string, balance, reserved decimal.Decimal) error
}

// PostgresRepository stores cards in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a card record.
func (r *PostgresRepository) Create(ctx context.Context, card Card) error {
	cardID, err := uuid.Parse(card.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(card.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO cards (id, user_id, balance, reserved_balance, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		cardID, userID, card.Balance, card.ReservedBalance, card.IsActive, card.CreatedAt.UTC())
	return err
}

// Find fetches a card by identifier, excluding soft-deleted records.
func (r *PostgresRepository) Find(ctx context.Context, id string) (Card, error) {
	cardID, err := uuid.Parse(id)
	if err != nil {
		return Card{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, balance, reserved_balance, is_active, created_at, updated_at
        FROM cards WHERE id = $1 AND deleted_at IS NULL`, cardID)
	var (
		idVal     uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		c         Card
	)
	if err := row.Scan(&idVal, &userID, &c.Balance, &c.ReservedBalance, &c.IsActive, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Card{}, ErrNotFound
		}
		return Card{}, err
	}
	c.ID = idVal.String()
	c.UserID = userID.String()
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}

// UpdateReservedBalance overwrites the reserved balance for a card.
func (r *PostgresRepository) UpdateReservedBalance(ctx context.Context, id string, reserved decimal.Decimal) error {
	cardID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE cards SET reserved_balance = $1, updated_at = now()
        WHERE id = $2 AND deleted_at IS NULL`, reserved, cardID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateBalances overwrites both balance fields for a card.
func (r *PostgresRepository) UpdateBalances(ctx context.Context, id string, balance, reserved decimal.Decimal) error {
	cardID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE cards SET balance = $1, reserved_balance = $2, updated_at = now()
        WHERE id = $3 AND deleted_at IS NULL`, balance, reserved, cardID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
