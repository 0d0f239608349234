// Package user provides the application layer for the local sign-in session
package user

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/domain/user"
	"github.com/chefai/chefai/internal/infrastructure/monitoring"
	"github.com/chefai/chefai/internal/ports/outbound"
)

// SessionKey holds the signed-in email.
const SessionKey = "chef_ai_current_user_email"

// SessionService remembers who is signed in. The session lives in the
// key/value store so it survives restarts.
type SessionService struct {
	store   outbound.KeyValueStore
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(store outbound.KeyValueStore, metrics *monitoring.MetricsCollector, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:   store,
		metrics: metrics,
		logger:  logger.Named("session-service"),
	}
}

// Login remembers email as the current user. A blank email is ignored.
func (s *SessionService) Login(ctx context.Context, email string) {
	session := user.NewSession(email)
	normalized, ok := session.Email()
	if !ok {
		s.logger.Debug("Ignoring blank login")
		return
	}

	err := s.store.Set(ctx, SessionKey, []byte(normalized))
	s.metrics.RecordStoreOperation("login", err == nil)
	if err != nil {
		s.logger.Error("Failed to persist session", zap.String("email", normalized), zap.Error(err))
		return
	}
	s.logger.Info("User signed in", zap.String("email", normalized))
}

// Logout forgets the current user. Saved recipes and ratings are kept.
func (s *SessionService) Logout(ctx context.Context) {
	err := s.store.Delete(ctx, SessionKey)
	s.metrics.RecordStoreOperation("logout", err == nil)
	if err != nil {
		s.logger.Error("Failed to clear session", zap.Error(err))
		return
	}
	s.logger.Info("User signed out")
}

// Current returns the active session, or the zero session when nobody is
// signed in or the store cannot be read.
func (s *SessionService) Current(ctx context.Context) user.Session {
	data, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrKeyNotFound) {
			s.logger.Error("Failed to read session", zap.Error(err))
		}
		return user.Session{}
	}
	return user.NewSession(string(data))
}

// IsLoggedIn reports whether a session is active.
func (s *SessionService) IsLoggedIn(ctx context.Context) bool {
	return s.Current(ctx).Active()
}

// CurrentEmail returns the signed-in email, if any.
func (s *SessionService) CurrentEmail(ctx context.Context) (string, bool) {
	return s.Current(ctx).Email()
}
