package dto

import (
	"time"

	"github.com/mpetrenko/visitboard/internal/services"
)

// VisitLogDTO represents one visit log row in API responses. UserName
// is resolved from the page's user lookup map; anonymous visits have
// no user id and an empty name.
type VisitLogDTO struct {
	ID        uint64    `json:"id"`
	Path      string    `json:"path"`
	UserID    *uint64   `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VisitLogListResponse is one page of the visit log listing
type VisitLogListResponse struct {
	Logs       []VisitLogDTO `json:"logs"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// ToVisitLogListResponse converts a listing page to the response shape
func ToVisitLogListResponse(page *services.VisitLogPage) VisitLogListResponse {
	logs := make([]VisitLogDTO, len(page.Logs))
	for i, l := range page.Logs {
		dto := VisitLogDTO{
			ID:        l.ID,
			Path:      l.Path,
			UserID:    l.UserID,
			CreatedAt: l.CreatedAt,
		}
		if l.UserID != nil {
			if user, ok := page.Users[*l.UserID]; ok {
				dto.UserName = user.FullName()
			}
		}
		logs[i] = dto
	}
	return VisitLogListResponse{
		Logs:       logs,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
