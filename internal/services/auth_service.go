package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mpetrenko/visitboard/internal/models"
	"github.com/mpetrenko/visitboard/internal/repository"
)

var (
	// ErrUnknownUsername and ErrWrongPassword are intentionally
	// distinct: the login flow tells the claimant which one failed.
	ErrUnknownUsername = errors.New("user with this username was not found")
	ErrWrongPassword   = errors.New("wrong password")

	ErrUserNotFound = errors.New("user not found")
	ErrSamePassword = errors.New("new password must differ from the old one")

	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles credential verification and password changes.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUsername
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, ErrWrongPassword
	}

	return user, nil
}

// GetUser retrieves a user by ID with the role loaded.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// SetPassword validates, hashes and stores a new password. The hash is
// the only credential form that ever reaches the store.
func (s *AuthService) SetPassword(userID uint64, plaintext string) error {
	if err := ValidatePassword(plaintext); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}
	return s.userRepo.UpdatePasswordHash(userID, string(hash))
}

// ChangePasswordInput holds the self-service password change fields.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// ChangePassword verifies the old password and stores the new one.
func (s *AuthService) ChangePassword(userID uint64, input ChangePasswordInput) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)) != nil {
		return ErrWrongPassword
	}
	if input.NewPassword == input.OldPassword {
		return ErrSamePassword
	}

	return s.SetPassword(userID, input.NewPassword)
}
