package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ledger-service/internal/auth"
)

// LedgerHandler serves machine-to-machine ledger endpoints guarded by the
// Ledger-Api-Key scheme.
type LedgerHandler struct{}

// NewLedgerHandler constructs handler.
func NewLedgerHandler() *LedgerHandler {
	return &LedgerHandler{}
}

// Identity handles GET /ledger/identity, echoing the verdict credentials.
func (h *LedgerHandler) Identity(c *fiber.Ctx) error {
	credentials, ok := auth.CredentialsFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(fiber.Map{"data": credentials})
}
