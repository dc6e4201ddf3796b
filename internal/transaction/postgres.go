package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists transactions in PostgreSQL. Status changes lock
// the owning card row so concurrent updates against the same card apply
// their balance deltas serially.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed transaction store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const transactionColumns = `id, card_id, user_id, amount, type, status, description, created_at, updated_at, deleted_at`

// Create inserts a transaction record.
func (s *PostgresStore) Create(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	cardID, err := uuid.Parse(tx.CardID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(tx.UserID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO transactions (id, card_id, user_id, amount, type, status, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		txID, cardID, userID, tx.Amount, string(tx.Type), string(tx.Status), tx.Description, tx.CreatedAt.UTC())
	return err
}

// Find loads a transaction by id, excluding soft-deleted records. A
// non-empty ownerID restricts the lookup to that user's transactions.
func (s *PostgresStore) Find(ctx context.Context, id, ownerID string) (Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrNotFound
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND deleted_at IS NULL`
	args := []any{txID}
	if ownerID != "" {
		userID, err := uuid.Parse(ownerID)
		if err != nil {
			return Transaction{}, ErrNotFound
		}
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	tx, err := scanTransaction(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	return tx, nil
}

// List returns the card's transactions newest first.
func (s *PostgresStore) List(ctx context.Context, cardID, userID string, f Filter) ([]Transaction, error) {
	cardUUID, err := uuid.Parse(cardID)
	if err != nil {
		return nil, ErrNotFound
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions
        WHERE card_id = $1 AND user_id = $2 AND deleted_at IS NULL`
	args := []any{cardUUID, userUUID}
	if f.Type != nil {
		args = append(args, string(*f.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.StartDate != nil {
		args = append(args, f.StartDate.UTC())
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, f.EndDate.UTC())
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// SoftDelete stamps deleted_at on the transaction.
func (s *PostgresStore) SoftDelete(ctx context.Context, id string) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE transactions SET deleted_at = now()
        WHERE id = $1 AND deleted_at IS NULL`, txID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyStatusChange performs the status write and the card balance deltas
// in a single database transaction. The card row is locked first, and the
// status write is guarded on the expected current status, so a concurrent
// update of the same transaction fails with ErrConcurrentUpdate instead
// of applying its deltas twice.
func (s *PostgresStore) ApplyStatusChange(ctx context.Context, change StatusChange) (Transaction, error) {
	txID, err := uuid.Parse(change.TransactionID)
	if err != nil {
		return Transaction{}, ErrNotFound
	}
	cardID, err := uuid.Parse(change.CardID)
	if err != nil {
		return Transaction{}, ErrNotFound
	}

	dbtx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer dbtx.Rollback(ctx) // nolint:errcheck

	var lockedID uuid.UUID
	if err := dbtx.QueryRow(ctx, `SELECT id FROM cards WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, cardID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}

	cmd, err := dbtx.Exec(ctx, `UPDATE transactions SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3 AND deleted_at IS NULL`,
		string(change.ToStatus), txID, string(change.FromStatus))
	if err != nil {
		return Transaction{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Transaction{}, ErrConcurrentUpdate
	}

	if _, err := dbtx.Exec(ctx, `UPDATE cards SET balance = balance + $1, reserved_balance = reserved_balance + $2, updated_at = now()
        WHERE id = $3`, change.BalanceDelta, change.ReservedDelta, cardID); err != nil {
		return Transaction{}, err
	}

	updated, err := scanTransaction(dbtx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, txID))
	if err != nil {
		return Transaction{}, err
	}

	if err := dbtx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		id        uuid.UUID
		cardID    uuid.UUID
		userID    uuid.UUID
		txType    string
		status    string
		createdAt time.Time
		updatedAt time.Time
		deletedAt *time.Time
		tx        Transaction
	)
	if err := row.Scan(&id, &cardID, &userID, &tx.Amount, &txType, &status, &tx.Description, &createdAt, &updatedAt, &deletedAt); err != nil {
		return Transaction{}, err
	}
	tx.ID = id.String()
	tx.CardID = cardID.String()
	tx.UserID = userID.String()
	tx.Type = Type(txType)
	tx.Status = Status(status)
	tx.CreatedAt = createdAt.UTC()
	tx.UpdatedAt = updatedAt.UTC()
	tx.DeletedAt = deletedAt
	return tx, nil
}
