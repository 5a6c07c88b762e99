package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/model"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestCalculate(t *testing.T) {
	now := *date("2024-01-01")

	tests := []struct {
		name     string
		input    Input
		expected Result
	}{
		{
			name:     "white belt with no classes",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: 0, LastPromotionDate: date("2024-01-01")},
			expected: Result{Percent: 0, ClassesRemaining: 120, TimeRemaining: 12},
		},
		{
			name:     "white belt halfway",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: 60, LastPromotionDate: date("2023-07-01")},
			expected: Result{Percent: 50, ClassesRemaining: 60, TimeRemaining: 6},
		},
		{
			name:     "white belt complete",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: 120, LastPromotionDate: date("2022-01-01")},
			expected: Result{Percent: 100, ClassesRemaining: 0, TimeRemaining: 0},
		},
		{
			name:     "blue belt over the requirement is clamped",
			input:    Input{Belt: model.BeltBlue, ClassesAttended: 200, LastPromotionDate: date("2023-01-01")},
			expected: Result{Percent: 100, ClassesRemaining: 0, TimeRemaining: 6},
		},
		{
			name:     "purple belt one year after promotion",
			input:    Input{Belt: model.BeltPurple, ClassesAttended: 240, LastPromotionDate: date("2023-01-01")},
			expected: Result{Percent: 100, ClassesRemaining: 0, TimeRemaining: 12},
		},
		{
			name:     "registration date used without a promotion date",
			input:    Input{Belt: model.BeltBrown, ClassesAttended: 150, RegistrationDate: date("2022-01-01")},
			expected: Result{Percent: 50, ClassesRemaining: 150, TimeRemaining: 6},
		},
		{
			name:     "promotion date wins over registration date",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: 30, LastPromotionDate: date("2023-10-01"), RegistrationDate: date("2020-01-01")},
			expected: Result{Percent: 25, ClassesRemaining: 90, TimeRemaining: 9},
		},
		{
			name:     "no dates assumes one month of tenure",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: 12},
			expected: Result{Percent: 10, ClassesRemaining: 108, TimeRemaining: 12},
		},
		{
			name:     "future promotion date counts no elapsed months",
			input:    Input{Belt: model.BeltBlue, ClassesAttended: 90, LastPromotionDate: date("2025-06-01")},
			expected: Result{Percent: 50, ClassesRemaining: 90, TimeRemaining: 18},
		},
		{
			name:     "negative attendance is treated as zero",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: -5, LastPromotionDate: date("2024-01-01")},
			expected: Result{Percent: 0, ClassesRemaining: 120, TimeRemaining: 12},
		},
		{
			name:     "half a percent rounds up",
			input:    Input{Belt: model.BeltWhite, ClassesAttended: 3, LastPromotionDate: date("2024-01-01")},
			expected: Result{Percent: 3, ClassesRemaining: 117, TimeRemaining: 12},
		},
		{
			name:     "almost complete brown belt stays below 100",
			input:    Input{Belt: model.BeltBrown, ClassesAttended: 299, LastPromotionDate: date("2021-01-01")},
			expected: Result{Percent: 99, ClassesRemaining: 1, TimeRemaining: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.input, now)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateBlackBeltIsTerminal(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	inputs := []Input{
		{Belt: model.BeltBlack},
		{Belt: model.BeltBlack, ClassesAttended: 5, LastPromotionDate: date("2030-01-01")},
		{Belt: model.BeltBlack, ClassesAttended: -1, RegistrationDate: date("1990-01-01")},
	}
	for _, in := range inputs {
		got, err := Calculate(in, now)
		require.NoError(t, err)
		require.Equal(t, Result{Percent: 100, ClassesRemaining: 0, TimeRemaining: 0}, got)
	}
}

func TestCalculateRejectsUnknownBelt(t *testing.T) {
	for _, b := range []model.Belt{"", "green", "WHITE"} {
		_, err := Calculate(Input{Belt: b, ClassesAttended: 10}, time.Now())
		require.ErrorIs(t, err, model.ErrUnknownBelt, "belt %q", b)
	}
}

func TestCalculateCompletionInvariant(t *testing.T) {
	now := time.Now()
	for _, b := range model.BeltOrder[:len(model.BeltOrder)-1] {
		for attended := 0; attended <= 400; attended++ {
			got, err := Calculate(Input{Belt: b, ClassesAttended: attended}, now)
			require.NoError(t, err)
			require.GreaterOrEqual(t, got.Percent, 0)
			require.LessOrEqual(t, got.Percent, 100)
			require.GreaterOrEqual(t, got.ClassesRemaining, 0)
			require.GreaterOrEqual(t, got.TimeRemaining, 0)
			require.Equal(t, got.ClassesRemaining == 0, got.Percent == 100,
				"belt %s attended %d: %+v", b, attended, got)
		}
	}
}

func TestCalculateIgnoresElapsedTimeForPercent(t *testing.T) {
	now := *date("2024-01-01")

	recent, err := Calculate(Input{Belt: model.BeltBlue, ClassesAttended: 45, LastPromotionDate: date("2023-12-01")}, now)
	require.NoError(t, err)
	old, err := Calculate(Input{Belt: model.BeltBlue, ClassesAttended: 45, LastPromotionDate: date("2015-12-01")}, now)
	require.NoError(t, err)

	require.Equal(t, recent.Percent, old.Percent)
	require.Equal(t, 17, recent.TimeRemaining)
	require.Equal(t, 0, old.TimeRemaining)
}

func TestWholeMonths(t *testing.T) {
	tests := []struct {
		from, to string
		expected int
	}{
		{"2023-01-01", "2024-01-01", 12},
		{"2023-01-15", "2023-02-14", 0},
		{"2023-01-15", "2023-02-15", 1},
		{"2023-01-31", "2023-02-27", 0},
		{"2023-01-31", "2023-02-28", 1},
		{"2024-01-31", "2024-02-29", 1},
		{"2024-01-30", "2024-02-28", 0},
		{"2023-03-31", "2023-04-30", 1},
		{"2023-01-31", "2023-03-31", 2},
		{"2023-01-31", "2023-04-30", 2},
		{"2023-12-20", "2024-01-05", 0},
		{"2024-01-01", "2024-01-01", 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, wholeMonths(*date(tt.from), *date(tt.to)), "%s -> %s", tt.from, tt.to)
	}

	from := time.Date(2023, 1, 1, 18, 0, 0, 0, time.UTC)
	require.Equal(t, 0, wholeMonths(from, time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC)))
	require.Equal(t, 1, wholeMonths(from, time.Date(2023, 2, 1, 18, 0, 0, 0, time.UTC)))
}

func TestNextBelt(t *testing.T) {
	next, ok := NextBelt(model.BeltWhite)
	require.True(t, ok)
	require.Equal(t, model.BeltBlue, next)

	next, ok = NextBelt(model.BeltBrown)
	require.True(t, ok)
	require.Equal(t, model.BeltBlack, next)

	_, ok = NextBelt(model.BeltBlack)
	require.False(t, ok)

	_, ok = NextBelt("green")
	require.False(t, ok)
}

func TestRequirements(t *testing.T) {
	require.Equal(t, 120, RequiredClasses(model.BeltWhite))
	require.Equal(t, 300, RequiredClasses(model.BeltBrown))
	require.Equal(t, 0, RequiredClasses(model.BeltBlack))

	req, ok := RequirementFor(model.BeltPurple)
	require.True(t, ok)
	require.Equal(t, Requirement{Months: 24, MinClasses: 240}, req)

	_, ok = RequirementFor(model.BeltBlack)
	require.False(t, ok)
}

func TestReadyForPromotion(t *testing.T) {
	require.False(t, ReadyForPromotion(model.BeltWhite, 119))
	require.True(t, ReadyForPromotion(model.BeltWhite, 120))
	require.True(t, ReadyForPromotion(model.BeltBlue, 500))
	require.False(t, ReadyForPromotion(model.BeltBlack, 10000))
	require.False(t, ReadyForPromotion("green", 10000))
}

func TestWeekConversions(t *testing.T) {
	require.InDelta(t, 52.14, MonthsToWeeks(12), 0.001)
	require.Equal(t, 156, WeeksToClasses(52.14, 3))
	require.Equal(t, 0, WeeksToClasses(0, 3))
}
