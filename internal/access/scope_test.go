package access

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/model"
)

func TestScopeOf(t *testing.T) {
	admin := model.EffectiveAccess{UserID: "admin", IsAdmin: true}
	owner := model.EffectiveAccess{UserID: "owner", AcademyID: ptr("acad-1")}
	nobody := model.EffectiveAccess{UserID: "nobody"}

	tests := []struct {
		name      string
		access    model.EffectiveAccess
		requested string
		all       bool
		empty     bool
		academy   string
	}{
		{name: "admin sees everything", access: admin, all: true},
		{name: "admin narrows to one academy", access: admin, requested: "acad-2", academy: "acad-2"},
		{name: "owner pinned to own academy", access: owner, academy: "acad-1"},
		{name: "owner asking for own academy", access: owner, requested: "acad-1", academy: "acad-1"},
		{name: "owner asking for another academy", access: owner, requested: "acad-2", empty: true},
		{name: "fail-closed sees nothing", access: nobody, empty: true},
		{name: "fail-closed cannot request", access: nobody, requested: "acad-1", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScopeOf(tt.access, tt.requested)
			require.Equal(t, tt.all, s.All())
			require.Equal(t, tt.empty, s.Empty())
			require.Equal(t, tt.academy, s.AcademyID())
		})
	}
}

func TestScopeFilterAndAllows(t *testing.T) {
	require.Nil(t, AllAcademies().Filter())
	require.True(t, AllAcademies().Allows(nil))
	require.True(t, AllAcademies().Allows(ptr("acad-1")))

	one := Academy("acad-1")
	require.Equal(t, ptr("acad-1"), one.Filter())
	require.True(t, one.Allows(ptr("acad-1")))
	require.False(t, one.Allows(ptr("acad-2")))
	require.False(t, one.Allows(nil))

	require.False(t, Scope{}.Allows(ptr("acad-1")))
	require.Nil(t, Scope{}.Filter())
}

func TestWriteTarget(t *testing.T) {
	admin := model.EffectiveAccess{UserID: "admin", IsAdmin: true}
	owner := model.EffectiveAccess{UserID: "owner", AcademyID: ptr("acad-1")}

	_, err := WriteTarget(admin, "")
	require.ErrorIs(t, err, ErrAcademyRequired)

	target, err := WriteTarget(admin, "acad-2")
	require.NoError(t, err)
	require.Equal(t, "acad-2", target)

	target, err = WriteTarget(owner, "acad-2")
	require.NoError(t, err)
	require.Equal(t, "acad-1", target)

	_, err = WriteTarget(model.EffectiveAccess{UserID: "nobody"}, "acad-1")
	require.ErrorIs(t, err, ErrNoAcademy)
}
