package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsletterapi/internal/domain"
)

const adminName = "admin"

type adminService struct {
	userRepo      domain.UserRepository
	hasher        domain.PasswordHasher
	tokenIssuer   domain.TokenIssuer
	tokenVerifier domain.TokenVerifier
	tokenExpiry   time.Duration
}

// NewAdminService creates an AdminService with the given repository and auth ports.
func NewAdminService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenVerifier domain.TokenVerifier, tokenExpiry time.Duration) domain.AdminService {
	return &adminService{
		userRepo:      userRepo,
		hasher:        hasher,
		tokenIssuer:   tokenIssuer,
		tokenVerifier: tokenVerifier,
		tokenExpiry:   tokenExpiry,
	}
}

func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeAdminEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *adminService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokenVerifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s no longer exists", domain.ErrInvalidCredentials, userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates the admin user, or resets its password when it already exists.
func (s *adminService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeAdminEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("admin email and password are required")
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		user.Salt = salt
		user.PasswordHash = hash
		user.UpdatedAt = now
		if err := s.userRepo.UpdatePassword(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update admin password: %w", err)
		}
		return user, nil
	case errors.Is(err, domain.ErrUserNotFound):
		user = domain.NewUser(email, adminName, now, now)
		user.Salt = salt
		user.PasswordHash = hash
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create admin user: %w", err)
		}
		return user, nil
	default:
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
}

func normalizeAdminEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
