package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/database"
	"github.com/mpetrenko/visitboard/internal/middleware"
	"github.com/mpetrenko/visitboard/internal/models"
	"github.com/mpetrenko/visitboard/internal/repository"
	"github.com/mpetrenko/visitboard/internal/services"
)

type testEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	adminRole models.Role
	userRole  models.Role

	authService  *services.AuthService
	userService  *services.UserService
	visitService *services.VisitService
}

// setupTestEnv builds an in-memory database, seeds the role set and
// wires a router with the same route/middleware layout as main.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.VisitLog{},
	))
	database.SetDB(db)
	require.NoError(t, database.SeedRoles(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	visitRepo := repository.NewVisitRepository(db)

	env := &testEnv{
		db:           db,
		authService:  services.NewAuthService(userRepo),
		userService:  services.NewUserService(userRepo, roleRepo),
		visitService: services.NewVisitService(visitRepo, userRepo),
	}

	require.NoError(t, db.Where("name = ?", constants.RoleAdmin).First(&env.adminRole).Error)
	require.NoError(t, db.Where("name = ?", constants.RoleUser).First(&env.userRole).Error)

	authHandler := NewAuthHandler(env.authService)
	userHandler := NewUserHandler(env.userService)
	logsHandler := NewLogsHandler(env.visitService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.POST("/login", authHandler.Login)
	r.GET("/", userHandler.Index)
	r.GET("/logout", middleware.RequireAuth(), authHandler.Logout)
	r.POST("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)

	user := r.Group("/user")
	user.Use(middleware.RequireAuth())
	{
		user.GET("/:id", userHandler.GetUser)
		user.POST("/create", middleware.RequireRole(constants.RoleAdmin), userHandler.CreateUser)
		user.POST("/edit/:id", userHandler.UpdateUser)
		user.POST("/delete/:id", middleware.RequireRole(constants.RoleAdmin), userHandler.DeleteUser)
	}

	r.GET("/roles", middleware.RequireAuth(), middleware.RequireRole(constants.RoleAdmin), userHandler.ListRoles)

	logs := r.Group("/logs")
	logs.Use(middleware.RequireAuth())
	{
		logs.GET("/", logsHandler.List)
		logs.GET("/pages", middleware.RequireRole(constants.RoleAdmin), logsHandler.PageStats)
		logs.GET("/pages/export", middleware.RequireRole(constants.RoleAdmin), logsHandler.ExportPageStats)
		logs.GET("/users", middleware.RequireRole(constants.RoleAdmin), logsHandler.UserStats)
		logs.GET("/users/export", middleware.RequireRole(constants.RoleAdmin), logsHandler.ExportUserStats)
	}

	env.router = r
	return env
}

func (e *testEnv) createUser(t *testing.T, username, password string, role *models.Role, last, first, middle string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		LastName:     last,
		FirstName:    first,
		MiddleName:   middle,
	}
	if role != nil {
		user.RoleID = &role.ID
		user.Role = role
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// login authenticates through the real endpoint and returns the
// session cookies for replay.
func (e *testEnv) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createVisit(t *testing.T, path string, userID *uint64) *models.VisitLog {
	t.Helper()
	visit := &models.VisitLog{Path: path, UserID: userID}
	require.NoError(t, e.db.Create(visit).Error)
	return visit
}
