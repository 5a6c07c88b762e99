package model

import "time"

// UserAcademy is a row of the user_academies binding table.
type UserAcademy struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AcademyID string    `json:"academy_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessResponse is returned by GET /api/v1/me/access.
type AccessResponse struct {
	EffectiveAccess
	Email          string `json:"email"`
	IsAcademyOwner bool   `json:"is_academy_owner"`
}

// MemberRequest binds a user to an academy with a role.
type MemberRequest struct {
	Role string `json:"role" binding:"required,oneof=admin academy_owner user"`
}
