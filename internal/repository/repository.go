package repository

import (
	"database/sql"

	"github.com/mpetrenko/visitboard/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with the role preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByIDs loads the users for the given ids, role preloaded
	FindByIDs(ids []uint64) ([]models.User, error)

	// List returns all users ordered by last name then first name
	List() ([]models.User, error)

	// Update persists changed fields of an existing user
	Update(user *models.User) error

	// UpdatePasswordHash stores a new credential hash for the user
	UpdatePasswordHash(userID uint64, hash string) error

	// DeleteWithVisitLogs nulls the user's visit log references and
	// removes the user row within one transaction
	DeleteWithVisitLogs(userID uint64) error
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// List returns all roles ordered by name
	List() ([]models.Role, error)
}

// PageStat is one row of the per-page aggregation.
type PageStat struct {
	Path       string `json:"path"`
	VisitCount int64  `json:"visit_count"`
}

// UserStat is one row of the per-user aggregation. The name fields are
// nullable because anonymous visits have no joined user row.
type UserStat struct {
	UserID     *uint64 `json:"user_id"`
	LastName   *string `json:"-"`
	FirstName  *string `json:"-"`
	MiddleName *string `json:"-"`
	Username   *string `json:"-"`
	VisitCount int64   `json:"visit_count"`
}

// VisitRepository defines the interface for visit log data access
type VisitRepository interface {
	// Create appends one visit log row
	Create(visit *models.VisitLog) error

	// ListPage returns one page of visit logs, newest first, together
	// with the total row count. A nil userID means no scoping.
	ListPage(userID *uint64, page, perPage int) ([]models.VisitLog, int64, error)

	// PageStats returns per-path visit counts, highest first
	PageStats() ([]PageStat, error)

	// UserStats returns per-user visit counts via an outer join so
	// anonymous visits form their own group, highest first
	UserStats() ([]UserStat, error)

	// PageStatRows opens a lazy cursor over the per-path aggregation
	// for streaming export; the caller must Close it
	PageStatRows() (*sql.Rows, error)

	// UserStatRows opens a lazy cursor over the per-user aggregation
	// for streaming export; the caller must Close it
	UserStatRows() (*sql.Rows, error)
}
