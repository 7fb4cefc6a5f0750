package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/models"
)

// SeedRoles creates the fixed role set on first boot. Roles are never
// touched again once the table has rows.
func SeedRoles(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	roles := []models.Role{
		{Name: constants.RoleAdmin, Description: "Administrator with full access"},
		{Name: constants.RoleUser, Description: "Regular user with limited access"},
	}
	if err := db.Create(&roles).Error; err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}
	log.Info().Msg("Default roles created")
	return nil
}

// SeedAdminUser creates the initial admin account when the users table
// is empty. The fixed password is meant to be changed right away.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	var adminRole models.Role
	if err := db.Where("name = ?", constants.RoleAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("admin role missing, seed roles first: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(constants.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := models.User{
		Username:     constants.DefaultAdminUsername,
		PasswordHash: string(hash),
		LastName:     "System",
		FirstName:    "Administrator",
		RoleID:       &adminRole.ID,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.Info().Str("username", admin.Username).Msg("Default admin user created, change the initial password")
	return nil
}

// Seed runs all first-boot seeding in order.
func Seed(db *gorm.DB) error {
	if err := SeedRoles(db); err != nil {
		return err
	}
	return SeedAdminUser(db)
}
