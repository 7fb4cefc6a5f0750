package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/dto"
	"github.com/mpetrenko/visitboard/internal/models"
)

func (e *testEnv) createVisitAt(t *testing.T, path string, userID *uint64, at time.Time) *models.VisitLog {
	t.Helper()
	visit := &models.VisitLog{Path: path, UserID: userID, CreatedAt: at}
	require.NoError(t, e.db.Create(visit).Error)
	return visit
}

func TestLogsHandler_ListScopedForNonAdmin(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")
	bob := env.createUser(t, "bob1234", "Passw0rd!", &env.userRole, "Bobrov", "Boris", "")

	env.createVisit(t, "/mine", &bob.ID)
	env.createVisit(t, "/mine-too", &bob.ID)
	env.createVisit(t, "/not-mine", nil)

	cookies := env.login(t, "bob1234", "Passw0rd!")
	w := env.do(t, http.MethodGet, "/logs/", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.VisitLogListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 2)
	require.EqualValues(t, 2, resp.Total)
	for _, l := range resp.Logs {
		require.NotNil(t, l.UserID)
		require.Equal(t, bob.ID, *l.UserID)
	}
}

func TestLogsHandler_ListAdminSeesAllNewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")
	bob := env.createUser(t, "bob1234", "Passw0rd!", &env.userRole, "Bobrov", "Boris", "")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	env.createVisitAt(t, "/oldest", &bob.ID, base)
	env.createVisitAt(t, "/middle", nil, base.Add(time.Minute))
	env.createVisitAt(t, "/newest", &bob.ID, base.Add(2*time.Minute))

	cookies := env.login(t, "admin1", "Admin123!")
	w := env.do(t, http.MethodGet, "/logs/", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.VisitLogListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 3)
	require.Equal(t, "/newest", resp.Logs[0].Path)
	require.Equal(t, "/middle", resp.Logs[1].Path)
	require.Equal(t, "/oldest", resp.Logs[2].Path)

	// Attributed rows resolve names through the page's user map.
	require.Equal(t, "Bobrov Boris", resp.Logs[0].UserName)
	require.Empty(t, resp.Logs[1].UserName)
}

func TestLogsHandler_ListPaginatesAtFifteen(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		env.createVisitAt(t, fmt.Sprintf("/p%02d", i), nil, base.Add(time.Duration(i)*time.Second))
	}

	cookies := env.login(t, "admin1", "Admin123!")

	w := env.do(t, http.MethodGet, "/logs/?page=1", nil, cookies)
	var resp dto.VisitLogListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, constants.LogsPerPage)
	require.EqualValues(t, 20, resp.Total)
	require.Equal(t, 2, resp.TotalPages)
	require.Equal(t, "/p19", resp.Logs[0].Path)

	w = env.do(t, http.MethodGet, "/logs/?page=2", nil, cookies)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 5)
	require.Equal(t, "/p04", resp.Logs[0].Path)

	// Out-of-range pages are empty, not an error
	w = env.do(t, http.MethodGet, "/logs/?page=99", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Logs)
}

func TestLogsHandler_PageStats(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")
	env.createUser(t, "bob1234", "Passw0rd!", &env.userRole, "Bobrov", "Boris", "")

	for i := 0; i < 3; i++ {
		env.createVisit(t, "/a", nil)
	}
	for i := 0; i < 2; i++ {
		env.createVisit(t, "/b", nil)
	}

	// Admin only
	bobCookies := env.login(t, "bob1234", "Passw0rd!")
	w := env.do(t, http.MethodGet, "/logs/pages", nil, bobCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	adminCookies := env.login(t, "admin1", "Admin123!")
	w = env.do(t, http.MethodGet, "/logs/pages", nil, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats []struct {
			Path       string `json:"path"`
			VisitCount int64  `json:"visit_count"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Stats, 2)
	require.Equal(t, "/a", resp.Stats[0].Path)
	require.EqualValues(t, 3, resp.Stats[0].VisitCount)
	require.Equal(t, "/b", resp.Stats[1].Path)
	require.EqualValues(t, 2, resp.Stats[1].VisitCount)
}

func TestLogsHandler_UserStats(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")
	bob := env.createUser(t, "bob1234", "Passw0rd!", &env.userRole, "Bobrov", "Boris", "Borisovich")
	// names left blank so the username fallback kicks in
	ghost := env.createUser(t, "ghost77", "Passw0rd!", &env.userRole, "", "", "")

	for i := 0; i < 3; i++ {
		env.createVisit(t, "/x", &bob.ID)
	}
	for i := 0; i < 2; i++ {
		env.createVisit(t, "/x", nil)
	}
	env.createVisit(t, "/x", &ghost.ID)

	cookies := env.login(t, "admin1", "Admin123!")
	w := env.do(t, http.MethodGet, "/logs/users", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats []struct {
			UserID     *uint64 `json:"user_id"`
			Name       string  `json:"name"`
			VisitCount int64   `json:"visit_count"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Stats, 3)

	// Sorted by count descending
	require.Equal(t, "Bobrov Boris Borisovich", resp.Stats[0].Name)
	require.EqualValues(t, 3, resp.Stats[0].VisitCount)

	require.Nil(t, resp.Stats[1].UserID)
	require.Equal(t, constants.AnonymousUserLabel, resp.Stats[1].Name)
	require.EqualValues(t, 2, resp.Stats[1].VisitCount)

	require.Equal(t, "ghost77", resp.Stats[2].Name)
	require.EqualValues(t, 1, resp.Stats[2].VisitCount)
}

func TestLogsHandler_ExportPageStatsCSV(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")

	total := 0
	for i := 0; i < 3; i++ {
		env.createVisit(t, "/a", nil)
		total++
	}
	for i := 0; i < 2; i++ {
		env.createVisit(t, "/b", nil)
		total++
	}
	env.createVisit(t, "/c", nil)
	total++

	cookies := env.login(t, "admin1", "Admin123!")
	w := env.do(t, http.MethodGet, "/logs/pages/export", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=page_stats_")
	require.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Page", "VisitCount"}, records[0])

	// Counts in the export sum to the total row count at export time.
	sum := 0
	for _, rec := range records[1:] {
		n, err := strconv.Atoi(rec[1])
		require.NoError(t, err)
		sum += n
	}
	require.Equal(t, total, sum)

	require.Equal(t, "/a", records[1][0])
	require.Equal(t, "3", records[1][1])
}

func TestLogsHandler_ExportUserStatsCSV(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "admin1", "Admin123!", &env.adminRole, "System", "Administrator", "")
	bob := env.createUser(t, "bob1234", "Passw0rd!", &env.userRole, "Bobrov", "Boris", "")

	env.createVisit(t, "/x", &bob.ID)
	env.createVisit(t, "/y", &bob.ID)
	env.createVisit(t, "/z", nil)

	cookies := env.login(t, "admin1", "Admin123!")
	w := env.do(t, http.MethodGet, "/logs/users/export", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=user_stats_")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"User", "VisitCount"}, records[0])
	require.Len(t, records, 3)
	require.Equal(t, "Bobrov Boris", records[1][0])
	require.Equal(t, "2", records[1][1])
	require.Equal(t, constants.AnonymousUserLabel, records[2][0])
	require.Equal(t, "1", records[2][1])
}

func TestLogsHandler_ExportsRequireAdmin(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "bob1234", "Passw0rd!", &env.userRole, "Bobrov", "Boris", "")
	cookies := env.login(t, "bob1234", "Passw0rd!")

	for _, path := range []string{"/logs/pages/export", "/logs/users/export", "/logs/users", "/logs/pages"} {
		w := env.do(t, http.MethodGet, path, nil, cookies)
		require.Equal(t, http.StatusForbidden, w.Code, path)
	}

	// And a session at all
	w := env.do(t, http.MethodGet, "/logs/", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
