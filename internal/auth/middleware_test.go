package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ledger-service/internal/domain"
	apperrors "github.com/spec-kit/ledger-service/pkg/util"
)

type stubValidator struct {
	verdict Verdict
	err     error

	gotAPIKey string
	gotBearer string
}

func (s *stubValidator) Validate(_ context.Context, apiKey, bearer string) (Verdict, error) {
	s.gotAPIKey = apiKey
	s.gotBearer = bearer
	return s.verdict, s.err
}

func newMiddlewareApp(validator RequestValidator) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
			})
		},
	})
	middleware := NewAPIKeyMiddleware(validator, zap.NewNop())
	app.Get("/protected", middleware.Handle, func(c *fiber.Ctx) error {
		credentials, _ := CredentialsFromContext(c)
		return c.JSON(credentials)
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestMiddlewareStructuralFailure(t *testing.T) {
	app := newMiddlewareApp(&stubValidator{err: ErrAPIKeyRequired})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	require.Equal(t, `"Ledger-Api-Key" header is required`, errBody["message"])
}

func TestMiddlewareDeniedVerdict(t *testing.T) {
	app := newMiddlewareApp(&stubValidator{verdict: Denied(nil)})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, "dfsp1")
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "Unauthorized", errBody["message"])
}

func TestMiddlewarePassesCredentials(t *testing.T) {
	validator := &stubValidator{verdict: Valid(&domain.Credentials{AccountID: "acc-1", Name: "dfsp1"})}
	app := newMiddlewareApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, "dfsp1")
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "dfsp1", validator.gotAPIKey)
	require.Equal(t, "some-token", validator.gotBearer)

	body := decodeBody(t, resp)
	require.Equal(t, "acc-1", body["account_id"])
	require.Equal(t, "dfsp1", body["name"])
}
