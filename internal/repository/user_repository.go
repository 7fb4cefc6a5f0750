package repository

import (
	"github.com/mpetrenko/visitboard/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID with the role preloaded
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads the users for the given ids
func (r *GormUserRepository) FindByIDs(ids []uint64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Preload("Role").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List returns all users ordered by last name then first name
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Role").
		Order("last_name ASC, first_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists the user's editable fields
func (r *GormUserRepository) Update(user *models.User) error {
	// Select lists the columns explicitly so a nil role id really
	// clears the role instead of being skipped as a zero value.
	return r.db.Model(user).
		Select("last_name", "first_name", "middle_name", "role_id").
		Updates(map[string]interface{}{
			"last_name":   user.LastName,
			"first_name":  user.FirstName,
			"middle_name": user.MiddleName,
			"role_id":     user.RoleID,
		}).Error
}

// UpdatePasswordHash stores a new credential hash
func (r *GormUserRepository) UpdatePasswordHash(userID uint64, hash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

// DeleteWithVisitLogs nulls visit log references and deletes the user
// atomically. Historical visit counts survive as anonymous rows.
func (r *GormUserRepository) DeleteWithVisitLogs(userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.VisitLog{}).
			Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
