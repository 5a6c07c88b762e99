package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
)

type stubTenancies struct {
	binding *model.TenancyBinding
	err     error
}

func (s stubTenancies) FindTenancyForUser(context.Context, string) (*model.TenancyBinding, error) {
	return s.binding, s.err
}

type stubOwned struct {
	academyID string
	err       error
}

func (s stubOwned) FindAcademyOwnedBy(context.Context, string) (string, error) {
	return s.academyID, s.err
}

func TestDescribeAccess(t *testing.T) {
	acad := "acad-1"
	linked := model.EffectiveAccess{UserID: "u1", AcademyID: &acad}
	id := model.Identity{ID: "u1", Email: "u1@example.com"}

	tests := []struct {
		name      string
		eff       model.EffectiveAccess
		tenancies stubTenancies
		owned     stubOwned
		owner     bool
	}{
		{
			name:      "owner binding",
			eff:       linked,
			tenancies: stubTenancies{binding: &model.TenancyBinding{AcademyID: acad, Role: model.RoleAcademyOwner}},
			owner:     true,
		},
		{
			name:      "member binding is not owner",
			eff:       linked,
			tenancies: stubTenancies{binding: &model.TenancyBinding{AcademyID: acad, Role: model.RoleUser}},
			owned:     stubOwned{academyID: acad},
			owner:     false,
		},
		{
			name:  "owned academy without binding",
			eff:   linked,
			owned: stubOwned{academyID: acad},
			owner: true,
		},
		{
			name:      "lookups failing",
			eff:       linked,
			tenancies: stubTenancies{err: errors.New("down")},
			owned:     stubOwned{err: errors.New("down")},
			owner:     false,
		},
		{
			name:  "admin is never owner",
			eff:   model.EffectiveAccess{UserID: "u1", IsAdmin: true},
			owned: stubOwned{academyID: acad},
			owner: false,
		},
		{
			name:  "fail-closed",
			eff:   model.EffectiveAccess{UserID: "u1"},
			owner: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAccessService(access.NewResolver(tt.tenancies, tt.owned, access.ResolverConfig{}, zerolog.Nop()))
			resp := s.Describe(context.Background(), id, tt.eff)
			require.Equal(t, tt.owner, resp.IsAcademyOwner)
			require.Equal(t, tt.eff, resp.EffectiveAccess)
			require.Equal(t, "u1@example.com", resp.Email)
		})
	}
}
