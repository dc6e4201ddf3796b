package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cardledger/cardledger/internal/card"
	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/identity"
	"github.com/cardledger/cardledger/internal/middleware"
	"github.com/cardledger/cardledger/internal/notification"
	"github.com/cardledger/cardledger/internal/transaction"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev both backing stores are mandatory, even though main
	// also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.RateLimit(d.Cache, d.Cfg.RateLimitMax, d.Cfg.RateLimitTTL))
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var (
		users identity.Repository
		cards card.Repository
		store transaction.Store
	)
	if d.DB != nil {
		users = identity.NewPostgresRepository(d.DB)
		cards = card.NewPostgresRepository(d.DB)
		store = transaction.NewPostgresStore(d.DB)
	} else {
		users = identity.NewMemoryRepository()
		cards = card.NewMemoryRepository()
		store = transaction.NewMemoryStore(cards)
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	txService := transaction.NewService(store, cards, users, notifier)
	txHandler := transaction.NewHandler(txService, d.Logger)

	api := app.Group("/api", middleware.UserAuth(users))
	RegisterTransactionRoutes(api, txHandler)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
