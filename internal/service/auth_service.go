package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ledger-service/internal/auth"
	"github.com/spec-kit/ledger-service/internal/config"
	"github.com/spec-kit/ledger-service/internal/domain"
	"github.com/spec-kit/ledger-service/internal/events"
	"github.com/spec-kit/ledger-service/internal/observability"
	"github.com/spec-kit/ledger-service/internal/repository"
)

// AuthService coordinates session credential flows and machine request
// authentication, emitting security events around both.
type AuthService struct {
	sessions   *auth.SessionManager
	validator  *auth.TokenValidator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	TokenRepo   repository.TokenRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		sessions:   auth.NewSessionManager(cfg.Auth.SigningSecret, cfg.App.Hostname, cfg.Auth.TokenLifetimeSeconds, deps.AccountRepo),
		validator:  auth.NewTokenValidator(cfg.Auth, deps.AccountRepo, deps.TokenRepo),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// IssueToken signs a session credential for the account resolved by key.
func (s *AuthService) IssueToken(ctx context.Context, key string) (*auth.IssuedCredential, error) {
	issued, err := s.sessions.Issue(ctx, key)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTokenIssued, &domain.Credentials{AccountID: issued.AccountID}, "")
	return issued, nil
}

// CheckToken verifies a session credential and resolves its identity.
func (s *AuthService) CheckToken(ctx context.Context, signed string) (*auth.Identity, error) {
	return s.sessions.Verify(ctx, signed)
}

// Validate authenticates one machine request, recording the verdict.
func (s *AuthService) Validate(ctx context.Context, apiKey, bearer string) (auth.Verdict, error) {
	verdict, err := s.validator.Validate(ctx, apiKey, bearer)
	if err != nil {
		s.metrics.RecordVerdict(false)
		s.publish(ctx, events.EventAuthDenied, nil, "invalid api key header")
		return verdict, err
	}

	s.metrics.RecordVerdict(verdict.IsValid())
	if verdict.IsValid() {
		s.publish(ctx, events.EventAuthValidated, verdict.Credentials(), "")
	} else {
		reason := "no matching token"
		if verdict.Credentials() != nil {
			reason = "expired token"
		}
		s.publish(ctx, events.EventAuthDenied, verdict.Credentials(), reason)
	}
	return verdict, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, credentials *domain.Credentials, reason string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		Credentials: credentials,
		Reason:      reason,
		Timestamp:   time.Now(),
	})
}
