// Package session manages marketdesk sessions. A session maps an opaque
// session ID handed to the browser onto the backend bearer token.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/models"
	"github.com/bobmcallan/marketdesk/internal/storage/tokenstore"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("backend token rejected")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Service implements interfaces.SessionService and the marketplace
// client's TokenProvider.
type Service struct {
	store  interfaces.SessionStore
	auth   interfaces.Authenticator
	secret []byte
	ttl    time.Duration
	logger *common.Logger
	now    func() time.Time
	onEnd  []func(sessionID string)
}

var _ interfaces.SessionService = (*Service)(nil)

// NewService creates a session service. auth is normally the marketplace
// client constructed without a token provider.
func NewService(store interfaces.SessionStore, auth interfaces.Authenticator, cfg common.AuthConfig, logger *common.Logger) *Service {
	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}
	return &Service{
		store:  store,
		auth:   auth,
		secret: secret,
		ttl:    cfg.GetSessionTTL(),
		logger: logger,
		now:    time.Now,
	}
}

// OnSessionEnd registers fn to run whenever a session ends: logout,
// invalidation, expiry on access or a purge. Register before serving.
func (s *Service) OnSessionEnd(fn func(sessionID string)) {
	s.onEnd = append(s.onEnd, fn)
}

func (s *Service) ended(sessionID string) {
	for _, fn := range s.onEnd {
		fn(sessionID)
	}
}

// tokenClaims is what marketdesk reads from the backend JWT.
type tokenClaims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// parseClaims reads claims from a backend token. With a configured secret
// the HS256 signature and expiry are verified. Without one the token is
// read unverified; an opaque (non-JWT) token yields nil claims.
func (s *Service) parseClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if s.secret == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, nil
		}
		if claims.ExpiresAt != nil && !s.now().Before(claims.ExpiresAt.Time) {
			return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
		return claims, nil
	}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Login authenticates against the backend and stores a new session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	res, err := s.auth.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("backend login: %w", err)
	}

	claims, err := s.parseClaims(res.Token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &models.Session{
		ID:        uuid.New().String(),
		UserID:    res.User.ID,
		Email:     res.User.Email,
		Role:      res.User.Role,
		Token:     res.Token,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if claims != nil {
		if sess.UserID == "" {
			sess.UserID = claims.UserID
			if sess.UserID == "" {
				sess.UserID = claims.Subject
			}
		}
		if sess.Email == "" {
			sess.Email = claims.Email
		}
		if sess.Role == "" {
			sess.Role = claims.Role
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(sess.ExpiresAt) {
			sess.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	if sess.Role == "" {
		sess.Role = models.RoleUser
	}
	if sess.Email == "" {
		sess.Email = email
	}

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", sess.UserID).Str("role", sess.Role).Msg("Session created")
	return sess, nil
}

// Get returns a live session. Expired sessions are deleted on access.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if sess.Expired(s.now()) {
		if err := s.store.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete expired session")
		}
		s.ended(sessionID)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Logout deletes the session. Unknown IDs are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.ended(sessionID)
	s.logger.Info().Msg("Session closed")
	return nil
}

// Invalidate drops a session whose backend token was rejected.
func (s *Service) Invalidate(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate session")
		return
	}
	s.ended(sessionID)
	s.logger.Info().Msg("Session invalidated after backend rejected token")
}

// PurgeExpired deletes every expired session from the store and returns
// the removed IDs.
func (s *Service) PurgeExpired(ctx context.Context) ([]string, error) {
	ids, err := s.store.PurgeExpired(ctx, s.now())
	for _, id := range ids {
		s.ended(id)
	}
	return ids, err
}

// AccessToken returns the backend token for the session in ctx.
// Anonymous contexts get an empty token.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	id := common.ResolveSessionID(ctx)
	if id == "" {
		return "", nil
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}
