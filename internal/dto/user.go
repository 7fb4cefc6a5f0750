package dto

import (
	"time"

	"github.com/mpetrenko/visitboard/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	FullName   string    `json:"full_name"`
	Role       *RoleDTO  `json:"role,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoleDTO represents a role in API responses
type RoleDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToRoleDTO converts a role to DTO
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
	}
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		LastName:   user.LastName,
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		FullName:   user.FullName(),
		CreatedAt:  user.CreatedAt,
	}
	if user.Role != nil {
		role := ToRoleDTO(*user.Role)
		dto.Role = &role
	}
	return dto
}

// ToUserDTOs converts a user slice to DTOs
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
