package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ledger-service/internal/api/dto"
	"github.com/spec-kit/ledger-service/internal/auth"
	"github.com/spec-kit/ledger-service/internal/service"
	apperrors "github.com/spec-kit/ledger-service/pkg/util"
)

// AuthHandler exposes session credential issuance and verification.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.IssueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Key == "" {
		return fiber.NewError(http.StatusBadRequest, "key required")
	}

	issued, err := h.auth.IssueToken(c.UserContext(), req.Key)
	if err != nil {
		// an unresolvable key is not reported as missing, only as unauthorized
		if apperrors.IsNotFound(err) {
			return apperrors.NewUnauthorized("invalid key")
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt},
	})
}

// CheckToken handles GET /auth/check.
func (h *AuthHandler) CheckToken(c *fiber.Ctx) error {
	bearer := bearerToken(c)
	if bearer == "" {
		return auth.ErrInvalidToken
	}

	identity, err := h.auth.CheckToken(c.UserContext(), bearer)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.IdentityResponse{
			Account: dto.AccountResponse{
				ID:         identity.Account.ID,
				Name:       identity.Account.Name,
				IsDisabled: identity.Account.IsDisabled,
				IsAdmin:    identity.Account.IsAdmin,
			},
			Roles: identity.Roles,
		},
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
