package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/metrics"
	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
	"github.com/shopverse/shopverse/internal/session"
)

// AuthService handles login, registration, logout and session lookup.
type AuthService struct {
	users    UserRepository
	sessions session.Store
	verifier *auth.Verifier
	hasher   auth.Hasher
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users UserRepository,
	sessions session.Store,
	verifier *auth.Verifier,
	hasher auth.Hasher,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		verifier: verifier,
		hasher:   hasher,
		logger:   logger,
		metrics:  recorder,
	}
}

// LoginInput carries login credentials. Nil means the field was absent.
type LoginInput struct {
	Email    *string
	Password *string
}

// RegisterInput carries a registration request. Nil means the field was absent.
type RegisterInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
}

// AuthResult is a signed-in user and the session that was opened for them.
type AuthResult struct {
	User    *model.User
	Session *session.Session
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Email == nil || input.Password == nil {
		s.metrics.IncLogin(metrics.ResultInvalid)
		return nil, invalid("Email and password are required")
	}

	email := sanitize(*input.Email)
	password := *input.Password
	if email == "" || password == "" {
		s.metrics.IncLogin(metrics.ResultInvalid)
		return nil, invalid("Email and password cannot be empty")
	}

	res, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.IncLogin(metrics.ResultFailure)
			s.logger.Info("login_failed", "reason", "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if res.NeedsRehash {
		s.upgradeCredential(ctx, res.User.ID, password)
	}

	sess, err := s.sessions.Create(ctx, res.User.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.IncLogin(metrics.ResultSuccess)
	s.logger.Info("user_logged_in",
		"user_id", res.User.ID,
		"session", auth.Fingerprint(sess.ID),
	)

	return &AuthResult{User: res.User, Session: sess}, nil
}

// upgradeCredential replaces a legacy or outdated stored credential. Failure
// is logged and does not fail the login.
func (s *AuthService) upgradeCredential(ctx context.Context, userID int64, password string) {
	encoded, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdateUser(ctx, userID, repository.UserUpdate{Password: &encoded})
	}
	if err != nil {
		s.logger.Warn("credential_upgrade_failed", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("credential_upgraded", "user_id", userID)
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"name", input.Name},
		{"email", input.Email},
		{"password", input.Password},
	}
	for _, f := range required {
		if !present(f.value) {
			s.metrics.IncRegistration(metrics.ResultInvalid)
			return nil, invalid(fmt.Sprintf("Field '%s' is required", f.name))
		}
	}

	user := &model.User{
		Name:  sanitize(*input.Name),
		Email: sanitize(*input.Email),
	}
	if input.Phone != nil {
		user.Phone = sanitize(*input.Phone)
	}
	password := *input.Password

	for _, err := range []error{
		checkLength("name", user.Name, maxNameLength),
		checkLength("email", user.Email, maxEmailLength),
		checkLength("phone", user.Phone, maxPhoneLength),
	} {
		if err != nil {
			s.metrics.IncRegistration(metrics.ResultInvalid)
			return nil, err
		}
	}
	if !validEmail(user.Email) {
		s.metrics.IncRegistration(metrics.ResultInvalid)
		return nil, invalid("Invalid email format")
	}
	if !validPassword(password) {
		s.metrics.IncRegistration(metrics.ResultInvalid)
		return nil, invalid("Password must be at least 6 characters long")
	}

	exists, err := s.users.EmailExists(ctx, user.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.metrics.IncRegistration(metrics.ResultConflict)
		return nil, &ConflictError{Message: "Email already registered"}
	}

	user.Password, err = s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The existence check above races with concurrent registrations; the
	// unique constraint decides.
	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			s.metrics.IncRegistration(metrics.ResultConflict)
			return nil, &ConflictError{Message: "Email already registered"}
		case errors.Is(err, repository.ErrValueTooLong):
			s.metrics.IncRegistration(metrics.ResultInvalid)
			return nil, errValueTooLong
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.IncRegistration(metrics.ResultSuccess)
	s.logger.Info("user_registered",
		"user_id", user.ID,
		"session", auth.Fingerprint(sess.ID),
	)

	return &AuthResult{User: user.Public(), Session: sess}, nil
}

// Logout destroys the session. It succeeds for anonymous callers too.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	s.metrics.IncLogout()
	s.logger.Info("user_logged_out", "session", auth.Fingerprint(sessionID))
	return nil
}

// Authenticate resolves a session id to the signed-in user id.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, ErrAuthenticationRequired
	}

	userID, ok, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("resolve session: %w", err)
	}
	s.metrics.IncSessionResolved(ok)
	if !ok {
		return 0, ErrAuthenticationRequired
	}
	return userID, nil
}

// WhoAmI returns the user behind the session.
func (s *AuthService) WhoAmI(ctx context.Context, sessionID string) (*model.User, error) {
	userID, err := s.Authenticate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Account removed while the session was still live.
			return nil, ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user.Public(), nil
}
