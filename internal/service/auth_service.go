package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"outreach_admin/internal/logger"
	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

// Domain errors for auth flows. ErrUserNotFound and ErrInvalidPassword must
// be collapsed into one generic message before reaching the end user.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidUsername   = errors.New("username must be 3-64 characters, alphanumeric and underscores only")
	ErrEmptyPassword     = errors.New("password is empty")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
)

// AuthService handles credential verification and account creation.
type AuthService struct {
	userRepo repository.Users
	log      *logger.Logger
}

func NewAuthService(repo repository.Users, log *logger.Logger) *AuthService {
	return &AuthService{userRepo: repo, log: log}
}

var _ Authorization = (*AuthService)(nil)

// Verify checks a plaintext password against the stored credential for
// username. Legacy plaintext credentials are upgraded to bcrypt in place on
// first successful use; that write is best-effort and never fails the login.
func (s *AuthService) Verify(ctx context.Context, username, password string) (models.SessionUser, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.SessionUser{}, ErrUserNotFound
		}
		return models.SessionUser{}, err
	}

	switch u.Credential.Kind {
	case models.CredentialHashed:
		if err := verifyPassword(u.Credential.Value, password); err != nil {
			return models.SessionUser{}, ErrInvalidPassword
		}
	case models.CredentialLegacy:
		if subtle.ConstantTimeCompare([]byte(u.Credential.Value), []byte(password)) != 1 {
			return models.SessionUser{}, ErrInvalidPassword
		}
		s.upgradeLegacy(ctx, u.ID, password)
	default:
		return models.SessionUser{}, fmt.Errorf("unknown credential kind %d for user %d", u.Credential.Kind, u.ID)
	}

	return u.Snapshot(), nil
}

// upgradeLegacy replaces a plaintext credential with its bcrypt hash. A
// failure is logged and swallowed; the login it piggybacks on still succeeds.
func (s *AuthService) upgradeLegacy(ctx context.Context, userID int, password string) {
	hash, err := hashPassword(password)
	if err == nil {
		err = s.userRepo.UpdateCredential(ctx, userID, hash)
	}
	if err != nil && s.log != nil {
		s.log.Warnw("legacy_credential_upgrade_failed", "user_id", userID, "err", err)
	}
}

// Register hashes the password and creates a new account.
func (s *AuthService) Register(ctx context.Context, username, password string, role models.Role) (int, error) {
	if !validUsername(username) {
		return 0, ErrInvalidUsername
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := s.userRepo.Create(ctx, username, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return id, nil
}

func validUsername(username string) bool {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
