package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/models"
	"github.com/mpetrenko/visitboard/internal/repository"
)

// VisitService records visits and answers the reporting queries.
type VisitService struct {
	visitRepo repository.VisitRepository
	userRepo  repository.UserRepository
}

// NewVisitService creates a new VisitService.
func NewVisitService(visitRepo repository.VisitRepository, userRepo repository.UserRepository) *VisitService {
	return &VisitService{
		visitRepo: visitRepo,
		userRepo:  userRepo,
	}
}

// Record appends one visit row. Recording is best-effort: a storage
// failure is logged server-side and swallowed so the outer request is
// never affected.
func (s *VisitService) Record(path string, userID *uint64) {
	if len(path) > constants.MaxPathLength {
		path = path[:constants.MaxPathLength]
	}
	visit := &models.VisitLog{
		Path:   path,
		UserID: userID,
	}
	if err := s.visitRepo.Create(visit); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to record visit")
	}
}

// VisitLogPage is one page of the visit log listing, with the users
// referenced on the page resolved into a lookup map so the caller does
// not need per-row queries.
type VisitLogPage struct {
	Logs       []models.VisitLog
	Users      map[uint64]models.User
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// ListLogs returns one page of visit logs, newest first. Non-admin
// principals only see their own visits. Out-of-range pages come back
// empty.
func (s *VisitService) ListLogs(principal *models.User, page int) (*VisitLogPage, error) {
	var scope *uint64
	if !principal.IsAdmin() {
		scope = &principal.ID
	}

	logs, total, err := s.visitRepo.ListPage(scope, page, constants.LogsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list visit logs: %w", err)
	}

	ids := make([]uint64, 0, len(logs))
	seen := make(map[uint64]bool)
	for _, l := range logs {
		if l.UserID != nil && !seen[*l.UserID] {
			seen[*l.UserID] = true
			ids = append(ids, *l.UserID)
		}
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visit log users: %w", err)
	}
	userMap := make(map[uint64]models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	totalPages := int((total + constants.LogsPerPage - 1) / constants.LogsPerPage)
	if page < 1 {
		page = 1
	}
	return &VisitLogPage{
		Logs:       logs,
		Users:      userMap,
		Page:       page,
		PerPage:    constants.LogsPerPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// PageStats returns per-path visit counts, highest first.
func (s *VisitService) PageStats() ([]repository.PageStat, error) {
	return s.visitRepo.PageStats()
}

// UserStatView is one per-user aggregation row with the display name
// already resolved.
type UserStatView struct {
	UserID     *uint64 `json:"user_id"`
	Name       string  `json:"name"`
	VisitCount int64   `json:"visit_count"`
}

func statDisplayName(stat repository.UserStat) string {
	if stat.UserID == nil {
		return constants.AnonymousUserLabel
	}
	parts := make([]string, 0, 3)
	for _, p := range []*string{stat.LastName, stat.FirstName, stat.MiddleName} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 {
		if stat.Username != nil {
			return *stat.Username
		}
		return ""
	}
	return strings.Join(parts, " ")
}

// UserStats returns per-user visit counts with resolved names, highest
// first. Anonymous visits form their own labeled group.
func (s *VisitService) UserStats() ([]UserStatView, error) {
	stats, err := s.visitRepo.UserStats()
	if err != nil {
		return nil, err
	}
	views := make([]UserStatView, len(stats))
	for i, stat := range stats {
		views[i] = UserStatView{
			UserID:     stat.UserID,
			Name:       statDisplayName(stat),
			VisitCount: stat.VisitCount,
		}
	}
	return views, nil
}

// StreamPageStatsCSV writes the per-page report as CSV, one row at a
// time over a lazy cursor so the result set is never fully buffered.
// The database connection is held until the cursor is drained.
func (s *VisitService) StreamPageStatsCSV(w io.Writer) error {
	rows, err := s.visitRepo.PageStatRows()
	if err != nil {
		return fmt.Errorf("failed to query page stats: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Page", "VisitCount"}); err != nil {
		return err
	}
	cw.Flush()

	for rows.Next() {
		var path string
		var count int64
		if err := rows.Scan(&path, &count); err != nil {
			return fmt.Errorf("failed to scan page stat row: %w", err)
		}
		if err := cw.Write([]string{path, strconv.FormatInt(count, 10)}); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return rows.Err()
}

// StreamUserStatsCSV writes the per-user report as CSV, one row at a
// time over a lazy cursor. Same streaming contract as the page report.
func (s *VisitService) StreamUserStatsCSV(w io.Writer) error {
	rows, err := s.visitRepo.UserStatRows()
	if err != nil {
		return fmt.Errorf("failed to query user stats: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"User", "VisitCount"}); err != nil {
		return err
	}
	cw.Flush()

	for rows.Next() {
		var stat repository.UserStat
		if err := rows.Scan(&stat.UserID, &stat.LastName, &stat.FirstName, &stat.MiddleName, &stat.Username, &stat.VisitCount); err != nil {
			return fmt.Errorf("failed to scan user stat row: %w", err)
		}
		if err := cw.Write([]string{statDisplayName(stat), strconv.FormatInt(stat.VisitCount, 10)}); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return rows.Err()
}
