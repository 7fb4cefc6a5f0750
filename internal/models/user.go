package models

import (
	"strings"
	"time"

	"github.com/mpetrenko/visitboard/internal/constants"
)

// User is a staff account. Deletion is a hard delete: the row is
// removed and any visit logs pointing at it are nulled out first.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	LastName     string    `gorm:"type:varchar(64)" json:"last_name"`
	FirstName    string    `gorm:"type:varchar(64);not null" json:"first_name"`
	MiddleName   string    `gorm:"type:varchar(64)" json:"middle_name"`
	RoleID       *uint64   `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// FullName joins the non-empty name parts with single spaces and falls
// back to the username when all of them are empty.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.LastName, u.FirstName, u.MiddleName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return u.Username
	}
	return strings.Join(parts, " ")
}

// RoleName returns the role name or "" when the user has no role.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

func (u *User) IsAdmin() bool {
	return u.RoleName() == constants.RoleAdmin
}
