package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/internal/security"
	"taskflow/internal/utils"
)

var (
	ErrUserExists         = errors.New("user already exists with this email or username")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const passwordResetTokenTTL = time.Hour

// EmailSender sends account lifecycle emails. Satisfied by EmailService.
type EmailSender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error
}

// AuthService handles authentication business logic
type AuthService struct {
	userRepo      *repository.UserRepository
	emailService  EmailSender
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, emailService EmailSender, jwtSecret []byte, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		emailService:  emailService,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account and returns the user with a signed token
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.userRepo.UserExists(email, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, "", ErrUserExists
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(username, email, passwordHash)
	if err != nil {
		// Concurrent registration can slip past the existence check
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	// Welcome email failures must not fail registration
	if err := s.emailService.SendWelcomeEmail(ctx, user.Email, user.Username); err != nil {
		log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
	}

	token, err := security.GenerateToken(user.ID, user.Username, user.Email, s.jwtSecret, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns the user with a signed token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID, user.Username, user.Email, s.jwtSecret, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// RequestPasswordReset issues a reset token and emails a reset link.
// Unknown emails are a silent no-op so the endpoint does not leak
// which accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return utils.ValidationError{Field: "email", Message: "email is required"}
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := security.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.userRepo.DeleteUserPasswordResetTokens(user.ID); err != nil {
		return fmt.Errorf("failed to clear previous reset tokens: %w", err)
	}

	expiresAt := time.Now().Add(passwordResetTokenTTL)
	if err := s.userRepo.CreatePasswordResetToken(user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery failures stay server-side; the caller always gets the
	// same generic response
	if err := s.emailService.SendPasswordResetEmail(ctx, user.Email, user.Username, token); err != nil {
		log.Printf("Warning: failed to send password reset email to %s: %v", user.Email, err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the user's
// password. Tokens are single use; expired or unknown tokens fail.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	resetToken, err := s.userRepo.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if resetToken == nil || resetToken.IsExpired() {
		return ErrInvalidResetToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdateUserPassword(resetToken.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.userRepo.DeleteUserPasswordResetTokens(resetToken.UserID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	return nil
}

// CleanupExpiredResetTokens removes expired password reset tokens
func (s *AuthService) CleanupExpiredResetTokens() error {
	return s.userRepo.DeleteExpiredPasswordResetTokens()
}
