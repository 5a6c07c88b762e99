package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/model"
)

func init() {
	Setup()
}

func TestBeltTag(t *testing.T) {
	req := model.StudentRequest{Name: "Rickson", Belt: model.BeltBrown}
	require.Nil(t, Struct(&req))

	req.Belt = "green"
	fields := Struct(&req)
	require.Equal(t, "belt must be one of white, blue, purple, brown, black", fields["belt"])
}

func TestWeekdayTag(t *testing.T) {
	req := model.ClassRequest{
		Name:       "No-Gi",
		Instructor: "Coach",
		DaysOfWeek: []string{"monday", "thursday"},
		TimeStart:  "18:00",
		TimeEnd:    "19:00",
	}
	require.Nil(t, Struct(&req))

	req.DaysOfWeek = []string{"monday", "Funday"}
	fields := Struct(&req)
	require.Contains(t, fields, "day_of_week[1]")
	require.Equal(t, "day_of_week[1] must be a lower-case weekday name", fields["day_of_week[1]"])
}

func TestStructUsesJSONNames(t *testing.T) {
	fields := Struct(&model.AttendanceRequest{Date: "15/06/2024", StudentIDs: []string{"nope"}})
	require.Contains(t, fields, "class_id")
	require.Contains(t, fields, "date")
	require.Contains(t, fields, "student_ids[0]")
}
