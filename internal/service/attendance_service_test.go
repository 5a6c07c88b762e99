package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
)

func TestUniqueIDs(t *testing.T) {
	require.Equal(t, []string{}, uniqueIDs(nil))
	require.Equal(t,
		[]string{"aa", "bb"},
		uniqueIDs([]string{"AA", "bb", "aa", "BB"}),
	)
}

func TestNewAttendanceEvent(t *testing.T) {
	at := time.Date(2024, 6, 15, 18, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	academy := "acad-1"
	a := &model.Attendance{
		ID:         "att-1",
		AcademyID:  &academy,
		ClassID:    "class-1",
		Date:       *day(2024, 6, 15),
		StudentIDs: []string{"s1", "s2", "s3"},
	}
	change := repository.AttendanceChange{Added: []string{"s3"}, Removed: []string{"s4", "s5"}}

	evt := newAttendanceEvent(a, change, at)
	require.NotNil(t, evt)
	require.Equal(t, AttendanceEventRecorded, evt.Type)
	require.Equal(t, "acad-1", evt.AcademyID)
	require.Equal(t, "2024-06-15", evt.Date)
	require.Equal(t, 3, evt.Present)
	require.Equal(t, 1, evt.Added)
	require.Equal(t, 2, evt.Removed)
	require.Equal(t, time.UTC, evt.RecordedAt.Location())

	a.AcademyID = nil
	require.Nil(t, newAttendanceEvent(a, change, at))
}

func TestRecordAttendanceFailsClosed(t *testing.T) {
	s := NewAttendanceService(nil, nil, zerolog.Nop())
	_, err := s.Record(context.Background(), model.EffectiveAccess{UserID: "nobody"}, &model.AttendanceRequest{
		ClassID: "class-1",
		Date:    "2024-06-15",
	})
	require.True(t, errors.Is(err, access.ErrNoAcademy))
}
