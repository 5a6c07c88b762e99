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
)

func TestBuildProgression(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	p, err := BuildProgression(&model.Student{
		ID:               "s1",
		Belt:             model.BeltWhite,
		ClassesAttended:  60,
		RegistrationDate: day(2024, 3, 15),
	}, now)
	require.NoError(t, err)
	require.Equal(t, "s1", p.StudentID)
	require.Equal(t, model.BeltBlue, *p.NextBelt)
	require.Equal(t, 120, p.RequiredClasses)
	require.Equal(t, 50, p.Percent)
	require.Equal(t, 60, p.ClassesRemaining)
	require.Equal(t, 9, p.TimeRemaining)
	require.False(t, p.Ready)
	// 12 months * 4.345 weeks * 3 classes, floored.
	require.Equal(t, 156, p.ExpectedClasses)

	p, err = BuildProgression(&model.Student{ID: "s2", Belt: model.BeltBlack, ClassesAttended: 10}, now)
	require.NoError(t, err)
	require.Nil(t, p.NextBelt)
	require.Equal(t, 100, p.Percent)
	require.Zero(t, p.RequiredClasses)
	require.Zero(t, p.ExpectedClasses)
	require.False(t, p.Ready)

	p, err = BuildProgression(&model.Student{ID: "s4", Belt: model.BeltBlue, ClassesPerWeek: 5}, now)
	require.NoError(t, err)
	// 18 * 4.345 * 5 = 391.05
	require.Equal(t, 391, p.ExpectedClasses)

	_, err = BuildProgression(&model.Student{ID: "s3", Belt: model.Belt("green")}, now)
	require.True(t, errors.Is(err, model.ErrUnknownBelt))
}

func TestApplyStudentRequestDefaults(t *testing.T) {
	st := &model.Student{}
	err := applyStudentRequest(st, &model.StudentRequest{
		Name:  "  Helio  ",
		Email: "Helio@Example.com",
		Belt:  model.BeltPurple,
	})
	require.NoError(t, err)
	require.Equal(t, "Helio", st.Name)
	require.Equal(t, "helio@example.com", *st.Email)
	require.Nil(t, st.Phone)
	require.Equal(t, model.StudentActive, st.Status)
	require.Equal(t, defaultClassesPerWeek, st.ClassesPerWeek)
	require.Nil(t, st.RegistrationDate)

	err = applyStudentRequest(st, &model.StudentRequest{Name: "X", Belt: model.BeltWhite, RegistrationDate: "2024-13-01"})
	var parseErr *time.ParseError
	require.ErrorAs(t, err, &parseErr)

	err = applyStudentRequest(st, &model.StudentRequest{Name: "X", Belt: model.Belt("green")})
	require.True(t, errors.Is(err, model.ErrUnknownBelt))
}

func TestStudentMutationsFailClosed(t *testing.T) {
	s := NewStudentService(nil, zerolog.Nop())
	nobody := model.EffectiveAccess{UserID: "nobody"}
	ctx := context.Background()
	req := &model.StudentRequest{Name: "X", Belt: model.BeltWhite}

	_, err := s.Create(ctx, nobody, req)
	require.True(t, errors.Is(err, access.ErrNoAcademy))
	_, err = s.Update(ctx, nobody, "id", req)
	require.True(t, errors.Is(err, access.ErrNoAcademy))
	require.True(t, errors.Is(s.Delete(ctx, nobody, "id"), access.ErrNoAcademy))
}
