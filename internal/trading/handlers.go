package trading

import (
	"errors"
	"strconv"
	"strings"

	"verdra-backend/internal/middleware"
	"verdra-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Handlers exposes the trade and ledger-read endpoints. All of them sit
// behind the session auth middleware.
type Handlers struct {
	Service *Service
	Store   *store.Store
}

// tradeRequest tolerates the original client's loose field types: projectId
// arrives as a JSON number, amount as a string (form input serialized as-is).
type tradeRequest struct {
	ProjectID interface{} `json:"projectId"`
	Amount    interface{} `json:"amount"`
	Type      string      `json:"type"`
}

// Trade POST /api/trade — settle one buy or sell against a project's listed
// price. Status codes and plain-text error bodies preserve the Express
// contract exactly.
func (h *Handlers) Trade(c *fiber.Ctx) error {
	userID, ok := middleware.SessionUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	var req tradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(ErrMissingFields.Error())
	}

	in := TradeInput{
		ProjectID: toInt(req.ProjectID),
		Amount:    toDecimal(req.Amount),
		Type:      req.Type,
	}

	credit, err := h.Service.Settle(c.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case errors.Is(err, ErrProjectNotFound):
			return c.Status(fiber.StatusNotFound).SendString(err.Error())
		case errors.Is(err, ErrInsufficientBalance):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Int("user_id", userID).Err(err).Msg("trade settlement failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return c.JSON(credit)
}

// Credits GET /api/credits — the caller's ledger entries, bare JSON array in
// insertion order.
func (h *Handlers) Credits(c *fiber.Ctx) error {
	userID, ok := middleware.SessionUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}
	credits, err := h.Store.GetUserCredits(c.Context(), userID)
	if err != nil {
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Int("user_id", userID).Err(err).Msg("credits lookup failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return c.JSON(credits)
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func toDecimal(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(t)
	}
	return decimal.Zero
}
