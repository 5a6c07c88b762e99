package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBelt(t *testing.T) {
	b, err := ParseBelt(" Purple ")
	require.NoError(t, err)
	require.Equal(t, BeltPurple, b)

	_, err = ParseBelt("green")
	require.ErrorIs(t, err, ErrUnknownBelt)

	_, err = ParseBelt("")
	require.ErrorIs(t, err, ErrUnknownBelt)
}

func TestBeltRank(t *testing.T) {
	for i, b := range BeltOrder {
		require.Equal(t, i, b.Rank())
	}
	require.Equal(t, -1, Belt("coral").Rank())
	require.True(t, BeltBlack.Terminal())
	require.False(t, BeltBrown.Terminal())
}

func TestEffectiveAccessFailClosed(t *testing.T) {
	academy := "a-1"
	empty := ""

	require.True(t, EffectiveAccess{UserID: "u"}.FailClosed())
	require.True(t, EffectiveAccess{UserID: "u", AcademyID: &empty}.FailClosed())
	require.False(t, EffectiveAccess{UserID: "u", AcademyID: &academy}.FailClosed())
	require.False(t, EffectiveAccess{UserID: "u", IsAdmin: true}.FailClosed())
}
