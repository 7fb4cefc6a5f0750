package repository

import (
	"database/sql"

	"github.com/mpetrenko/visitboard/internal/database"
	"github.com/mpetrenko/visitboard/internal/models"
	"gorm.io/gorm"
)

// GormVisitRepository is a GORM implementation of VisitRepository
type GormVisitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new VisitRepository
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &GormVisitRepository{db: db}
}

// Create appends one visit log row
func (r *GormVisitRepository) Create(visit *models.VisitLog) error {
	return r.db.Create(visit).Error
}

// ListPage returns one page of visit logs, newest first. The id is a
// secondary sort key so rows sharing a timestamp page deterministically.
func (r *GormVisitRepository) ListPage(userID *uint64, page, perPage int) ([]models.VisitLog, int64, error) {
	query := r.db.Model(&models.VisitLog{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.VisitLog
	err := query.
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(page, perPage)).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *GormVisitRepository) pageStatsQuery() *gorm.DB {
	// Ties on the count break alphabetically by path.
	return r.db.Model(&models.VisitLog{}).
		Select("path, COUNT(id) AS visit_count").
		Group("path").
		Order("visit_count DESC, path ASC")
}

func (r *GormVisitRepository) userStatsQuery() *gorm.DB {
	// LEFT JOIN keeps anonymous visits (user_id IS NULL) as a group.
	// Ties on the count break by user id.
	return r.db.Model(&models.VisitLog{}).
		Select("visit_logs.user_id, users.last_name, users.first_name, users.middle_name, users.username, COUNT(visit_logs.id) AS visit_count").
		Joins("LEFT JOIN users ON users.id = visit_logs.user_id").
		Group("visit_logs.user_id, users.last_name, users.first_name, users.middle_name, users.username").
		Order("visit_count DESC, visit_logs.user_id ASC")
}

// PageStats returns per-path visit counts, highest first
func (r *GormVisitRepository) PageStats() ([]PageStat, error) {
	var stats []PageStat
	if err := r.pageStatsQuery().Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// UserStats returns per-user visit counts, highest first
func (r *GormVisitRepository) UserStats() ([]UserStat, error) {
	var stats []UserStat
	if err := r.userStatsQuery().Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// PageStatRows opens a lazy cursor over the per-path aggregation
func (r *GormVisitRepository) PageStatRows() (*sql.Rows, error) {
	return r.pageStatsQuery().Rows()
}

// UserStatRows opens a lazy cursor over the per-user aggregation
func (r *GormVisitRepository) UserStatRows() (*sql.Rows, error) {
	return r.userStatsQuery().Rows()
}
