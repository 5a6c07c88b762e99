// Package progression computes graduation readiness from attendance counts.
//
// Readiness is gated on attendance only. Time since the last promotion is
// reported alongside as context and never feeds the percentage.
package progression

import (
	"fmt"
	"math"
	"time"

	"github.com/tatami/academy-backend/internal/model"
)

// assumedTenure is the reference age used when a student has neither a
// promotion nor a registration date.
const assumedTenure = 30 * 24 * time.Hour

// weeksPerMonth approximates 52 weeks over 12 months.
const weeksPerMonth = 4.345

// Requirement is what a student must reach before the next belt.
type Requirement struct {
	Months     int
	MinClasses int
}

// requirements holds the fixed ladder for every non-terminal belt.
var requirements = map[model.Belt]Requirement{
	model.BeltWhite:  {Months: 12, MinClasses: 120},
	model.BeltBlue:   {Months: 18, MinClasses: 180},
	model.BeltPurple: {Months: 24, MinClasses: 240},
	model.BeltBrown:  {Months: 30, MinClasses: 300},
}

// Input is the slice of a student record the calculator needs.
type Input struct {
	Belt              model.Belt
	ClassesAttended   int
	LastPromotionDate *time.Time
	RegistrationDate  *time.Time
}

// Result is the computed readiness toward the next belt.
type Result struct {
	Percent          int `json:"percent"`
	ClassesRemaining int `json:"classes_remaining"`
	TimeRemaining    int `json:"time_remaining"`
}

// InputFromStudent builds an Input from a stored student.
func InputFromStudent(s *model.Student) Input {
	return Input{
		Belt:              s.Belt,
		ClassesAttended:   s.ClassesAttended,
		LastPromotionDate: s.LastPromotionDate,
		RegistrationDate:  s.RegistrationDate,
	}
}

// Calculate returns the progression of in as observed at now.
// An unknown belt is rejected with model.ErrUnknownBelt.
func Calculate(in Input, now time.Time) (Result, error) {
	if in.Belt.Terminal() {
		return Result{Percent: 100}, nil
	}

	req, ok := requirements[in.Belt]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", model.ErrUnknownBelt, in.Belt)
	}

	attended := max(in.ClassesAttended, 0)

	classesPercent := float64(attended) / float64(req.MinClasses) * 100
	percent := int(math.Round(min(classesPercent, 100)))

	remaining := max(req.MinClasses-attended, 0)
	// 99.5% and above would round up to a completion that has not happened.
	if remaining > 0 && percent >= 100 {
		percent = 99
	}

	ref := referenceDate(in, now)
	elapsed := 0
	if !ref.After(now) {
		elapsed = wholeMonths(ref, now)
	}

	return Result{
		Percent:          percent,
		ClassesRemaining: remaining,
		TimeRemaining:    max(req.Months-elapsed, 0),
	}, nil
}

// RequirementFor returns the requirement for leaving belt b.
// The second value is false for black and unknown belts.
func RequirementFor(b model.Belt) (Requirement, bool) {
	req, ok := requirements[b]
	return req, ok
}

// RequiredClasses returns the minimum classes for leaving belt b, or 0 when
// b has no further progression.
func RequiredClasses(b model.Belt) int {
	return requirements[b].MinClasses
}

// NextBelt returns the belt after b. It reports false for black and unknown belts.
func NextBelt(b model.Belt) (model.Belt, bool) {
	rank := b.Rank()
	if rank < 0 || rank == len(model.BeltOrder)-1 {
		return "", false
	}
	return model.BeltOrder[rank+1], true
}

// ReadyForPromotion reports whether attended meets the class requirement of b.
// Black belts are never ready since no automatic progression exists.
func ReadyForPromotion(b model.Belt, attended int) bool {
	req, ok := requirements[b]
	if !ok {
		return false
	}
	return attended >= req.MinClasses
}

// MonthsToWeeks converts months into an approximate number of weeks.
func MonthsToWeeks(months float64) float64 {
	return months * weeksPerMonth
}

// WeeksToClasses returns the whole number of classes in weeks at perWeek.
func WeeksToClasses(weeks float64, perWeek int) int {
	return int(math.Floor(weeks * float64(perWeek)))
}

func referenceDate(in Input, now time.Time) time.Time {
	switch {
	case in.LastPromotionDate != nil:
		return *in.LastPromotionDate
	case in.RegistrationDate != nil:
		return *in.RegistrationDate
	default:
		return now.Add(-assumedTenure)
	}
}

// wholeMonths counts complete calendar months from from to to (from <= to).
// A month counts once the same day-of-month and clock time is reached. A
// single month also counts when to is the last day of a shorter month, so
// Jan 31 to Feb 28 is one month.
func wholeMonths(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months > 0 && beforeInMonth(to, from) && !(months == 1 && isLastDayOfMonth(to)) {
		months--
	}
	return max(months, 0)
}

func isLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

func beforeInMonth(a, b time.Time) bool {
	if a.Day() != b.Day() {
		return a.Day() < b.Day()
	}
	return clock(a) < clock(b)
}

func clock(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
