package models

import "time"

// VisitLog is one recorded request. Rows are append-only: they are
// never updated individually, only bulk-nulled when a user is deleted.
type VisitLog struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Path      string    `gorm:"type:varchar(255);not null" json:"path"`
	UserID    *uint64   `json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
