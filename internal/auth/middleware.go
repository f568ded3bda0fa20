package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ledger-service/internal/domain"
)

const credentialsKey = "auth_credentials"

// APIKeyMiddleware guards machine-to-machine routes with the Ledger-Api-Key
// scheme. Structural header failures propagate as errors for the global error
// middleware to render; denied verdicts get a uniform 401 body.
type APIKeyMiddleware struct {
	validator RequestValidator
	logger    *zap.Logger
}

// NewAPIKeyMiddleware constructs middleware.
func NewAPIKeyMiddleware(validator RequestValidator, logger *zap.Logger) *APIKeyMiddleware {
	return &APIKeyMiddleware{validator: validator, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *APIKeyMiddleware) Handle(c *fiber.Ctx) error {
	apiKey := c.Get(HeaderAPIKey)
	bearer := bearerToken(c)

	verdict, err := m.validator.Validate(c.UserContext(), apiKey, bearer)
	if err != nil {
		return err
	}

	if !verdict.IsValid() {
		if credentials := verdict.Credentials(); credentials != nil {
			m.logger.Info("denied expired token",
				zap.String("account_id", credentials.AccountID),
				zap.String("account", credentials.Name))
		}
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": http.StatusText(http.StatusUnauthorized),
			},
		})
	}

	c.Locals(credentialsKey, verdict.Credentials())
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// CredentialsFromContext retrieves the authenticated caller.
func CredentialsFromContext(c *fiber.Ctx) (*domain.Credentials, bool) {
	val := c.Locals(credentialsKey)
	if val == nil {
		return nil, false
	}
	credentials, ok := val.(*domain.Credentials)
	return credentials, ok
}

// RequireAdmin ensures the verdict carried the admin principal or an admin
// account.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		credentials, ok := CredentialsFromContext(c)
		if !ok || !credentials.IsAdmin {
			return fiber.NewError(http.StatusForbidden, "admin required")
		}
		return c.Next()
	}
}
