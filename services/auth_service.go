package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"

	"github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/database/repositories"
)

// AuthService resolves credential-based and federated logins into local user
// records and hands out session tokens.
type AuthService struct {
	users          repositories.UserRepository
	hasher         PasswordHasher
	tokens         *TokenService
	googleClientID string
}

func NewAuthService(users repositories.UserRepository, hasher PasswordHasher, tokens *TokenService, googleClientID string) *AuthService {
	return &AuthService{
		users:          users,
		hasher:         hasher,
		tokens:         tokens,
		googleClientID: googleClientID,
	}
}

// Register creates a new local account with zeroed stats.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or username already taken", ErrConflict)
		}
		return nil, storeErr(err, ErrUnavailable)
	}

	slog.Info("User registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// Login authenticates by username-or-email plus password and issues a token.
// Both lookup miss and hash mismatch surface as the same credential error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, storeErr(err, ErrInvalidCredentials)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, user, nil
}

// LoginGoogle verifies a Google ID token, resolves it into a local user and
// issues a session token.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (string, *models.User, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{s.googleClientID}); err != nil {
		return "", nil, ErrUnauthorized
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", nil, ErrUnauthorized
	}

	user, err := s.ResolveFederated(ctx, claimSet.Email, claimSet.Name)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, user, nil
}

// federatedUsernameAttempts bounds the disambiguation loop for usernames
// derived from display names.
const federatedUsernameAttempts = 10

// ResolveFederated finds the local user for a federated identity, creating
// one on first login. Federated accounts get a random placeholder credential
// that can never be used for password login.
func (s *AuthService) ResolveFederated(ctx context.Context, email, displayName string) (*models.User, error) {
	email = strings.ToLower(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeErr(err, ErrUnavailable)
	}

	placeholder, err := s.placeholderCredential()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	base := usernameFromDisplayName(displayName)
	for attempt := 0; attempt < federatedUsernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = fmt.Sprintf("%s%d", base, attempt+1)
		}

		user = &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: placeholder,
		}
		err = s.users.Create(ctx, user)
		if err == nil {
			slog.Info("Federated user created",
				slog.String("user_id", user.ID.String()),
				slog.String("username", user.Username))
			return user, nil
		}
		if !repositories.IsUniqueViolation(err) {
			return nil, storeErr(err, ErrUnavailable)
		}

		// A concurrent federated login may have created the account between
		// the lookup and the insert; in that case return the existing row.
		if existing, lookupErr := s.users.GetByEmail(ctx, email); lookupErr == nil {
			return existing, nil
		}
		// Otherwise the username collided with a different user; retry with
		// the next suffix.
	}

	return nil, fmt.Errorf("%w: could not derive a free username for %q", ErrConflict, displayName)
}

func (s *AuthService) placeholderCredential() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	// The random secret is discarded, so the hash can never verify against
	// any password a client could present.
	return s.hasher.Hash(base64.RawStdEncoding.EncodeToString(raw))
}

func usernameFromDisplayName(displayName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(displayName)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('.')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
