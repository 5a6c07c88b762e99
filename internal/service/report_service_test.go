package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/model"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRankPromotions(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	s := &ReportService{log: zerolog.Nop(), now: func() time.Time { return now }}

	students := []model.Student{
		{ID: "c", Name: "Carla", Belt: model.BeltWhite, ClassesAttended: 60, LastPromotionDate: day(2024, 3, 15)},
		{ID: "m", Name: "Mestre", Belt: model.BeltBlack, ClassesAttended: 900},
		{ID: "d", Name: "Diego", Belt: model.BeltWhite, ClassesAttended: 60, LastPromotionDate: day(2023, 12, 15)},
		{ID: "b", Name: "Bruno", Belt: model.BeltBlue, ClassesAttended: 180, LastPromotionDate: day(2023, 6, 15)},
		{ID: "x", Name: "Broken", Belt: model.Belt("green")},
		{ID: "a", Name: "Ana", Belt: model.BeltWhite, ClassesAttended: 60, LastPromotionDate: day(2023, 12, 15)},
	}

	ranked := s.rankPromotions(students, false)
	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.StudentID)
	}
	require.Equal(t, []string{"b", "a", "d", "c"}, ids)

	require.Equal(t, 100, ranked[0].Progression.Percent)
	require.Equal(t, 6, ranked[0].Progression.TimeRemaining)
	require.True(t, ranked[0].Progression.Ready)
	require.Equal(t, 50, ranked[1].Progression.Percent)
	require.Equal(t, 6, ranked[1].Progression.TimeRemaining)
	require.Equal(t, 9, ranked[3].Progression.TimeRemaining)

	ready := s.rankPromotions(students, true)
	require.Len(t, ready, 1)
	require.Equal(t, "b", ready[0].StudentID)
}
