// Package service contains the business logic layer of the application.
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (credential rules) → UserRepository (DB)
//	                   ↘ TokenService (session + CSRF pair)
//
// KEY RESPONSIBILITIES:
//   - Validate and persist credentials; hash passwords before they ever
//     reach the repository
//   - Derive admin status from the email domain at credential-write time —
//     a client-supplied isAdmin flag is never read
//   - Keep login failures indistinguishable between "no such user" and
//     "wrong password" so the endpoint cannot be used to enumerate accounts
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/auth"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

// Credential validation bounds.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

// emailPattern is deliberately loose — it rejects obvious garbage without
// trying to outlaw every valid-but-exotic address the RFC allows.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// errInvalidCredentials is returned for BOTH an unknown email and a wrong
// password. The indistinguishability is a required property, not laziness:
// a distinct "no such user" response would let an attacker enumerate
// registered emails.
var errInvalidCredentials = apperror.Unauthenticated(
	errors.New("invalid credentials"), "Invalid credentials")

// AuthService handles the authentication business logic.
type AuthService struct {
	users       repository.UserRepository
	tokens      *auth.TokenService
	passwords   *auth.PasswordService
	adminDomain string
	logger      *slog.Logger
}

// NewAuthService creates an AuthService. adminDomain is the organizational
// email suffix (e.g. "@anakena.cl") whose members get admin accounts.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	adminDomain string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		passwords:   passwords,
		adminDomain: adminDomain,
		logger:      logger,
	}
}

// Register validates and persists a new credential record.
//
// The email is lowercase-normalized before both validation and storage, so
// Ana@Club.org and ana@club.org are the same account. The password is
// hashed before the model ever leaves this function — the repository never
// sees plaintext. IsAdmin is computed here, once, from the email domain;
// it is not an input.
//
// Duplicate username/email surface as apperror.Duplicate from the storage
// layer's unique constraints (atomic — no check-then-insert race).
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Please provide username, email, and password")
	}
	if len(username) < MinUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("Username must be at least %d characters long", MinUsernameLength))
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("Username must be at most %d characters long", MaxUsernameLength))
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFailed("email", "Please enter a valid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "Password must be 72 bytes or fewer")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      strings.HasSuffix(email, s.adminDomain),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.Bool("isAdmin", user.IsAdmin),
	)

	return user, nil
}

// Login verifies email+password and returns the matching user.
//
// Both failure modes return the identical errInvalidCredentials — same
// status, same body. Password comparison never errors (see
// PasswordService.Matches), so there is no third observable outcome either.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Please provide email and password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", email, err)
	}

	if !s.passwords.Matches(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return user, nil
}

// IssueSession mints the (session token, CSRF secret) pair for a user.
// Thin delegation to TokenService so handlers only import the service.
func (s *AuthService) IssueSession(userID string) (token, csrfToken string, err error) {
	token, csrfToken, err = s.tokens.Issue(userID)
	if err != nil {
		return "", "", fmt.Errorf("service/auth: issuing session for %s: %w", userID, err)
	}
	return token, csrfToken, nil
}

// CurrentUser resolves a session subject to its record. The subject may have
// been deleted between token issuance and use — sessions are stateless, the
// token outlives the row — in which case apperror.ErrNotFound propagates.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID must not be empty")
	}
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns sanitized projections of every account. Sanitizing here
// (not in the handler) means no call path can return hashes by accident.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}
