package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardledger/cardledger/internal/transaction"
)

// RegisterTransactionRoutes wires the transaction endpoints.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler) {
	r.Post("/transactions", h.Create)
	r.Get("/transactions", h.List)
	r.Get("/transactions/:id", h.Get)
	r.Patch("/transactions/:id/status", h.UpdateStatus)
	r.Delete("/transactions/:id", h.Delete)
}
