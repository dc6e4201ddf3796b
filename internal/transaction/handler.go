package transaction

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/errs"
)

// Handler exposes transaction HTTP endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createRequest struct {
	CardID      string          `json:"card_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type transactionResponse struct {
	ID          string          `json:"id"`
	CardID      string          `json:"card_id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Status      Status          `json:"status"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toResponse(tx Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		CardID:      tx.CardID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Status:      tx.Status,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

// Create records a new transaction against a card.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	txType, ok := ParseType(req.Type)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "type must be CREDIT or DEBIT")
	}
	userID, _ := c.Locals("user_id").(string)

	res, err := h.service.Create(c.UserContext(), CreateInput{
		CardID:      req.CardID,
		UserID:      userID,
		Amount:      req.Amount,
		Type:        txType,
		Description: req.Description,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id":    res.TransactionID,
		"status":            res.Status,
		"current_balance":   res.CurrentBalance,
		"available_balance": res.AvailableBalance,
		"reserved_amount":   res.ReservedAmount,
		"updated_balance":   res.UpdatedBalance,
	})
}

// List returns the caller's transactions on a card with optional filters.
func (h *Handler) List(c *fiber.Ctx) error {
	cardID := c.Query("card_id")
	if cardID == "" {
		return fiber.NewError(http.StatusBadRequest, "card_id query parameter is required")
	}
	userID, _ := c.Locals("user_id").(string)

	var f Filter
	if raw := c.Query("type"); raw != "" {
		txType, ok := ParseType(raw)
		if !ok {
			return fiber.NewError(http.StatusBadRequest, "type must be CREDIT or DEBIT")
		}
		f.Type = &txType
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "start_date must be RFC 3339")
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "end_date must be RFC 3339")
		}
		f.EndDate = &t
	}

	txs, err := h.service.List(c.UserContext(), cardID, userID, f)
	if err != nil {
		return h.respondError(c, err)
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toResponse(tx))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns one transaction by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	tx, err := h.service.Get(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(tx))
}

// UpdateStatus moves a transaction along its lifecycle. Admin only.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	newStatus, ok := ParseStatus(req.Status)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "unknown status")
	}
	userID, _ := c.Locals("user_id").(string)

	tx, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), userID, newStatus)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(tx))
}

// Delete soft-deletes a pending transaction. Admin only.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := h.service.Delete(c.UserContext(), c.Params("id"), userID); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// respondError maps service errors onto HTTP statuses. Internal failures
// are logged and surface as a generic 500 without detail.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	if e, ok := errs.As(err); ok {
		switch e.Kind {
		case errs.KindValidation:
			payload := fiber.Map{"error": e.Message}
			if e.Details != nil {
				payload["details"] = e.Details
			}
			return c.Status(http.StatusBadRequest).JSON(payload)
		case errs.KindNotFound:
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": e.Message})
		}
	}
	if errors.Is(err, ErrConcurrentUpdate) {
		return fiber.NewError(http.StatusConflict, "transaction modified concurrently")
	}
	h.logger.Error("transaction operation failed", "error", err)
	return fiber.NewError(http.StatusInternalServerError, "internal server error")
}
