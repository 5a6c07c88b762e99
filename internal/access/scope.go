package access

import (
	"errors"

	"github.com/tatami/academy-backend/internal/model"
)

var (
	// ErrNoAcademy is returned when a non-admin without an academy attempts a write.
	ErrNoAcademy = errors.New("user is not linked to an academy")
	// ErrAcademyRequired is returned when an admin write does not name its academy.
	ErrAcademyRequired = errors.New("academy_id is required for platform admins")
)

// Scope restricts which academies' rows a query may return.
type Scope struct {
	all       bool
	academyID string
}

// AllAcademies is the unrestricted scope.
func AllAcademies() Scope {
	return Scope{all: true}
}

// Academy is the scope of a single academy.
func Academy(id string) Scope {
	return Scope{academyID: id}
}

// ScopeOf converts access into a query scope. Admins may narrow the scope to
// requested; tenant users are always pinned to their academy and asking for
// another one yields an empty scope.
func ScopeOf(a model.EffectiveAccess, requested string) Scope {
	switch {
	case a.IsAdmin && requested == "":
		return AllAcademies()
	case a.IsAdmin:
		return Academy(requested)
	case !a.HasAcademy():
		return Scope{}
	case requested != "" && requested != *a.AcademyID:
		return Scope{}
	default:
		return Academy(*a.AcademyID)
	}
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool { return s.all }

// Empty reports whether the scope matches no rows.
func (s Scope) Empty() bool { return !s.all && s.academyID == "" }

// AcademyID returns the single academy of the scope, or "".
func (s Scope) AcademyID() string { return s.academyID }

// Filter returns the academy_id SQL argument: nil for all academies.
func (s Scope) Filter() *string {
	if s.all || s.academyID == "" {
		return nil
	}
	id := s.academyID
	return &id
}

// Allows reports whether a row owned by academyID is visible in s.
func (s Scope) Allows(academyID *string) bool {
	if s.all {
		return true
	}
	return s.academyID != "" && academyID != nil && *academyID == s.academyID
}

// WriteTarget returns the academy a write by a should land in. Tenant users
// always write into their own academy; admins must name one.
func WriteTarget(a model.EffectiveAccess, requested string) (string, error) {
	switch {
	case a.IsAdmin && requested == "":
		return "", ErrAcademyRequired
	case a.IsAdmin:
		return requested, nil
	case !a.HasAcademy():
		return "", ErrNoAcademy
	default:
		return *a.AcademyID, nil
	}
}
