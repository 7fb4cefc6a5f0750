package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/dto"
	apierrors "github.com/mpetrenko/visitboard/internal/errors"
	"github.com/mpetrenko/visitboard/internal/middleware"
	"github.com/mpetrenko/visitboard/internal/models"
	"github.com/mpetrenko/visitboard/internal/policy"
	"github.com/mpetrenko/visitboard/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Index is the public landing listing. Admins see every user, a
// regular user sees only themselves, anonymous visitors get an empty
// list.
func (h *UserHandler) Index(c *gin.Context) {
	users := []models.User{}

	if id, ok := middleware.SessionUserID(c); ok {
		principal, err := h.userService.Get(id)
		if err == nil {
			if principal.IsAdmin() {
				if all, err := h.userService.List(); err == nil {
					users = all
				}
			} else {
				users = []models.User{*principal}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// GetUser shows one profile: self or Admin.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
		} else {
			apierrors.InternalError(c, "Failed to load user")
		}
		return
	}

	if !policy.Decide(principal, constants.RoleUser, &user.ID).Allowed() {
		apierrors.Forbidden(c, "You do not have enough rights to view this profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a new account. Admin only (enforced by the route
// middleware).
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		LastName   string `json:"last_name" binding:"required"`
		FirstName  string `json:"first_name" binding:"required"`
		MiddleName string `json:"middle_name"`
		RoleID     uint64 `json:"role_id"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(services.CreateUserInput{
		Username:   req.Username,
		Password:   req.Password,
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		RoleID:     req.RoleID,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser edits a profile: self or Admin. Only an Admin actor can
// change the role; a role field sent by a non-admin is ignored.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	target, err := h.userService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
		} else {
			apierrors.InternalError(c, "Failed to load user")
		}
		return
	}

	if !policy.Decide(principal, constants.RoleUser, &target.ID).Allowed() {
		apierrors.Forbidden(c, "You do not have enough rights to edit this user")
		return
	}

	type UpdateUserRequest struct {
		LastName   string `json:"last_name" binding:"required"`
		FirstName  string `json:"first_name" binding:"required"`
		MiddleName string `json:"middle_name"`
		RoleID     uint64 `json:"role_id"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.userService.Update(id, services.UpdateUserInput{
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		RoleID:     req.RoleID,
	}, policy.CanAssignRole(principal))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}

// DeleteUser removes an account. Admin only, and self-deletion is
// rejected regardless of role.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if !policy.CanDeleteUser(principal, id) {
		apierrors.Forbidden(c, "You cannot delete your own account")
		return
	}

	user, err := h.userService.Delete(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User %q deleted", user.FullName()),
	})
}

// ListRoles returns the selectable roles for the admin forms.
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles()
	if err != nil {
		apierrors.InternalError(c, "Failed to load roles")
		return
	}

	dtos := make([]dto.RoleDTO, len(roles))
	for i, r := range roles {
		dtos[i] = dto.ToRoleDTO(r)
	}
	c.JSON(http.StatusOK, gin.H{"roles": dtos})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "A user with this username already exists")
	case errors.Is(err, services.ErrRoleNotSelected),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidPassword):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
