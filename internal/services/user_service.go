package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/models"
	"github.com/mpetrenko/visitboard/internal/repository"
)

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrRoleNotSelected = errors.New("a role must be selected for the user")
	ErrRoleNotFound    = errors.New("selected role does not exist")
	ErrNameRequired    = errors.New("last name and first name are required")
)

// UserService handles account administration.
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// CreateUserInput represents the fields of a new account. RoleID zero
// is the explicit "not selected" sentinel and is rejected.
type CreateUserInput struct {
	Username   string
	Password   string
	LastName   string
	FirstName  string
	MiddleName string
	RoleID     uint64
}

// Create validates and stores a new user account.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	if err := ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.LastName) == "" || strings.TrimSpace(input.FirstName) == "" {
		return nil, ErrNameRequired
	}

	if input.RoleID == constants.RoleNotSelected {
		return nil, ErrRoleNotSelected
	}
	role, err := s.roleRepo.FindByID(input.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		LastName:     input.LastName,
		FirstName:    input.FirstName,
		MiddleName:   input.MiddleName,
		RoleID:       &role.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Role = role
	return user, nil
}

// UpdateUserInput represents the editable profile fields. RoleID is
// only applied for admin actors; zero clears the role.
type UpdateUserInput struct {
	LastName   string
	FirstName  string
	MiddleName string
	RoleID     uint64
}

// Update edits a user's profile. Only an admin actor may reassign the
// role; for everyone else the stored role is kept untouched even when
// the request carries a role field.
func (s *UserService) Update(id uint64, input UpdateUserInput, actorIsAdmin bool) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if strings.TrimSpace(input.LastName) == "" || strings.TrimSpace(input.FirstName) == "" {
		return nil, ErrNameRequired
	}

	user.LastName = input.LastName
	user.FirstName = input.FirstName
	user.MiddleName = input.MiddleName

	if actorIsAdmin {
		if input.RoleID == constants.RoleNotSelected {
			user.RoleID = nil
			user.Role = nil
		} else {
			role, err := s.roleRepo.FindByID(input.RoleID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrRoleNotFound
				}
				return nil, fmt.Errorf("failed to load role: %w", err)
			}
			user.RoleID = &role.ID
			user.Role = role
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user. Visit logs that reference the account are
// detached (user_id nulled) in the same transaction so historical
// counts survive.
func (s *UserService) Delete(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.userRepo.DeleteWithVisitLogs(id); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return user, nil
}

// Get loads a single user.
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// List returns all users ordered by last name then first name.
func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.List()
}

// ListRoles returns the selectable roles.
func (s *UserService) ListRoles() ([]models.Role, error) {
	return s.roleRepo.List()
}
