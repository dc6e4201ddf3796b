package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/infra"
	"github.com/cardledger/cardledger/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// seed applies the schema and inserts a small demo dataset: an admin and
// a regular user, one active card each, and a few settled transactions.
func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infra.NewPostgresPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		logger.Error("apply schema", "error", err)
		os.Exit(1)
	}
	logger.Info("schema applied")

	for _, table := range []string{"transactions", "cards", "users"} {
		if _, err := db.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			logger.Error("cleanup table", "table", table, "error", err)
			os.Exit(1)
		}
	}

	adminID := uuid.New()
	userID := uuid.New()
	if _, err := db.Exec(ctx, `INSERT INTO users (id, name, role) VALUES
        ($1, 'Seed Admin', 'ADMIN'),
        ($2, 'Seed User', 'USER')`, adminID, userID); err != nil {
		logger.Error("insert users", "error", err)
		os.Exit(1)
	}

	adminCardID := uuid.New()
	userCardID := uuid.New()
	if _, err := db.Exec(ctx, `INSERT INTO cards (id, user_id, balance) VALUES
        ($1, $2, $3),
        ($4, $5, $6)`,
		adminCardID, adminID, decimal.NewFromInt(5000),
		userCardID, userID, decimal.NewFromInt(1000)); err != nil {
		logger.Error("insert cards", "error", err)
		os.Exit(1)
	}

	if _, err := db.Exec(ctx, `INSERT INTO transactions (id, card_id, user_id, amount, type, status, description) VALUES
        ($1, $2, $3, $4, 'CREDIT', 'APPROVED', 'Initial deposit'),
        ($5, $6, $7, $8, 'CREDIT', 'APPROVED', 'Initial deposit'),
        ($9, $10, $11, $12, 'DEBIT', 'APPROVED', 'Grocery purchase')`,
		uuid.New(), adminCardID, adminID, decimal.NewFromInt(5000),
		uuid.New(), userCardID, userID, decimal.NewFromInt(1000),
		uuid.New(), userCardID, userID, decimal.NewFromInt(100)); err != nil {
		logger.Error("insert transactions", "error", err)
		os.Exit(1)
	}

	logger.Info("seed data inserted",
		"admin_id", adminID.String(),
		"user_id", userID.String(),
		"admin_card_id", adminCardID.String(),
		"user_card_id", userCardID.String())
}
