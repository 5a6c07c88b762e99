package model

import "time"

// Academy is a tenant of the platform.
type Academy struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerName    string    `json:"owner_name"`
	CNPJ         string    `json:"cnpj"`
	Street       string    `json:"street"`
	Neighborhood string    `json:"neighborhood"`
	ZipCode      string    `json:"zip_code"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	UserID       *string   `json:"user_id"`
	CreatedBy    *string   `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AcademyRequest is the payload for creating or updating an academy.
// OwnerUserID, when set, binds that user as the academy owner.
type AcademyRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=120"`
	OwnerName    string `json:"owner_name" binding:"required,min=2,max=120"`
	CNPJ         string `json:"cnpj" binding:"required,min=11,max=18"`
	Street       string `json:"street" binding:"required,max=200"`
	Neighborhood string `json:"neighborhood" binding:"required,max=120"`
	ZipCode      string `json:"zip_code" binding:"required,max=12"`
	Phone        string `json:"phone" binding:"required,max=20"`
	Email        string `json:"email" binding:"required,email,max=255"`
	OwnerUserID  string `json:"owner_user_id" binding:"omitempty,uuid"`
}
