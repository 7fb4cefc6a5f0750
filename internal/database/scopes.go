package database

import "gorm.io/gorm"

// Paginate applies offset/limit for a 1-based page of the given size.
// Out-of-range pages simply produce empty result sets.
func Paginate(page, perPage int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}
