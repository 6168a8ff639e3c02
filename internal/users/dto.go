package users

import (
	"github.com/google/uuid"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
)

// UserDTO is the public shape of a user returned by the API.
type UserDTO struct {
	ID         uuid.UUID      `json:"id"`
	SchoolID   uuid.UUID      `json:"school_id"`
	SchoolName string         `json:"school_name,omitempty"`
	Email      string         `json:"email"`
	FullName   string         `json:"full_name"`
	Role       enums.UserRole `json:"role"`
	AvatarURL  *string        `json:"avatar_url,omitempty"`
	Verified   bool           `json:"verified"`
}

// FromModel converts a user row into its API shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	dto := &UserDTO{
		ID:        user.ID,
		SchoolID:  user.SchoolID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Verified:  user.Verified,
	}
	if user.School != nil {
		dto.SchoolName = user.School.Name
	}
	return dto
}
