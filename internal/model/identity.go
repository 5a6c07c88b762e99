package model

import "time"

// Tenancy roles stored in user_academies.role.
const (
	RoleAdmin        = "admin"
	RoleAcademyOwner = "academy_owner"
	RoleUser         = "user"
)

// Identity is the verified caller, as issued by the hosted identity provider.
// It is replaced wholesale on re-authentication.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	RawRole string `json:"role,omitempty"`
}

// TenancyBinding links a user to an academy with a role.
type TenancyBinding struct {
	UserID    string    `json:"user_id"`
	AcademyID string    `json:"academy_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// EffectiveAccess is the derived visibility of a user. A non-admin with no
// AcademyID sees no rows.
type EffectiveAccess struct {
	UserID    string  `json:"user_id"`
	IsAdmin   bool    `json:"is_admin"`
	AcademyID *string `json:"academy_id"`
}

// HasAcademy reports whether the access is bound to a tenant.
func (a EffectiveAccess) HasAcademy() bool {
	return a.AcademyID != nil && *a.AcademyID != ""
}

// FailClosed reports whether the access grants no visibility at all.
func (a EffectiveAccess) FailClosed() bool {
	return !a.IsAdmin && !a.HasAcademy()
}
