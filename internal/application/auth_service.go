package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/appointment-hub/internal/docstore"
)

// IdentityStore exposes the user-document operations the auth flows need.
type IdentityStore interface {
	CreateUser(ctx context.Context, user docstore.User, passwordHash string) (docstore.User, error)
	SaveUser(ctx context.Context, user docstore.User) (docstore.User, error)
	GetUser(ctx context.Context, id string) (docstore.User, error)
	GetUserCredentialsByEmail(ctx context.Context, email string) (docstore.UserCredentials, error)
}

// SessionStore captures the persistence interactions for issued sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session docstore.Session) (docstore.Session, error)
	UpdateSession(ctx context.Context, session docstore.Session) (docstore.Session, error)
	GetSessionByToken(ctx context.Context, token string) (docstore.Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates sign-up, sign-in, session validation and the
// admin-PIN role elevation.
type AuthService struct {
	identities     IdentityStore
	sessions       SessionStore
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	adminPIN       string
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(identities IdentityStore, sessions SessionStore, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, adminPIN string, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		identities:     identities,
		sessions:       sessions,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		adminPIN:       adminPIN,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// SignUp registers a new account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, params SignUpParams) (result AuthResult, err error) {
	if s == nil || s.identities == nil {
		err = fmt.Errorf("identity store not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	name := strings.TrimSpace(params.Name)

	logger := s.loggerWith(ctx, "SignUp", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "sign-up failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID).InfoContext(ctx, "account created")
	}()

	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "name is required")
	}
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email is invalid")
	}
	if len(params.Password) < 6 {
		vErr.add("password", "password must be at least 6 characters long")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	hash, hashErr := HashPassword(params.Password)
	if hashErr != nil {
		err = hashErr
		return
	}

	user, createErr := s.identities.CreateUser(ctx, docstore.User{
		Email: email,
		Name:  name,
		// Placeholder elevation policy carried over from the original
		// product; the PIN exchange is the supported path.
		IsAdmin: params.IsAdmin || isAdminEmail(email),
	}, hash)
	if createErr != nil {
		err = mapStoreError(createErr)
		return
	}

	session, sessErr := s.issueSession(ctx, user)
	if sessErr != nil {
		err = sessErr
		return
	}

	result = AuthResult{User: user, Session: session}
	return
}

// SignIn validates credentials, refreshes the user document and issues a
// session token.
func (s *AuthService) SignIn(ctx context.Context, params SignInParams) (result AuthResult, err error) {
	if s == nil || s.identities == nil {
		err = fmt.Errorf("identity store not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))

	logger := s.loggerWith(ctx, "SignIn", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "sign-in failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID, "session_id", result.Session.ID).
			InfoContext(ctx, "sign-in succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	creds, credErr := s.identities.GetUserCredentialsByEmail(ctx, email)
	if credErr != nil {
		if errors.Is(credErr, docstore.ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = credErr
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	// Merge-save keeps the document fresh on every authentication; the
	// document is recreated here if it was ever lost.
	user, saveErr := s.identities.SaveUser(ctx, creds.User)
	if saveErr != nil {
		err = saveErr
		return
	}

	session, sessErr := s.issueSession(ctx, user)
	if sessErr != nil {
		err = sessErr
		return
	}

	result = AuthResult{User: user, Session: session}
	return
}

// SignOut revokes the session identified by token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session store not configured")
	}

	logger := s.loggerWith(ctx, "SignOut")

	session, err := s.activeSession(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "sign-out failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	now := s.now()
	session.RevokedAt = &now
	if _, err := s.sessions.UpdateSession(ctx, session); err != nil {
		logger.ErrorContext(ctx, "sign-out failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.With("session_id", session.ID).InfoContext(ctx, "session revoked")
	return nil
}

// ValidateSession verifies the token and returns the session's principal
// with its server-held role claim.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.sessions == nil || s.identities == nil {
		return Principal{}, fmt.Errorf("auth service not configured")
	}

	session, err := s.activeSession(ctx, token)
	if err != nil {
		return Principal{}, err
	}

	user, err := s.identities.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	return Principal{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin || session.Role == docstore.RoleAdmin,
	}, nil
}

// ElevateSession upgrades the session's role claim to admin after verifying
// the configured PIN. The PIN gate is a demo-grade mechanism, not a security
// boundary; the claim at least lives server-side and dies with the session.
func (s *AuthService) ElevateSession(ctx context.Context, token, pin string) (Principal, error) {
	if s == nil || s.sessions == nil {
		return Principal{}, fmt.Errorf("session store not configured")
	}

	logger := s.loggerWith(ctx, "ElevateSession")

	session, err := s.activeSession(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "elevation failed", "error", err, "error_kind", ErrorKind(err))
		return Principal{}, err
	}

	if s.adminPIN == "" || subtle.ConstantTimeCompare([]byte(pin), []byte(s.adminPIN)) != 1 {
		logger.ErrorContext(ctx, "elevation failed", "error", ErrInvalidCredentials, "error_kind", "invalid_credentials")
		return Principal{}, ErrInvalidCredentials
	}

	session.Role = docstore.RoleAdmin
	if _, err := s.sessions.UpdateSession(ctx, session); err != nil {
		return Principal{}, err
	}

	logger.With("session_id", session.ID, "user_id", session.UserID).
		InfoContext(ctx, "session elevated to admin")
	return s.ValidateSession(ctx, session.Token)
}

func (s *AuthService) issueSession(ctx context.Context, user docstore.User) (docstore.Session, error) {
	now := s.now()
	if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		return docstore.Session{}, err
	}

	return s.sessions.CreateSession(ctx, docstore.Session{
		UserID:    user.ID,
		Token:     s.tokenGenerator(),
		Role:      docstore.RoleUser,
		ExpiresAt: now.Add(s.sessionTTL),
	})
}

func (s *AuthService) activeSession(ctx context.Context, token string) (docstore.Session, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return docstore.Session{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSessionByToken(ctx, trimmed)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return docstore.Session{}, ErrUnauthorized
		}
		return docstore.Session{}, err
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		return docstore.Session{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
		return docstore.Session{}, ErrSessionExpired
	}
	return session, nil
}

// isAdminEmail implements the observed placeholder policy of elevating any
// address containing "admin".
func isAdminEmail(email string) bool {
	return strings.Contains(email, "admin")
}
