package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/response"
)

// AttendanceEventRecorded is the type of events published after a recording.
const AttendanceEventRecorded = "attendance.recorded"

// AttendanceService records attendance and publishes live events.
type AttendanceService struct {
	attendanceRepo *repository.AttendanceRepository
	rdb            redis.Cmdable
	log            zerolog.Logger
	now            func() time.Time
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo *repository.AttendanceRepository, rdb redis.Cmdable, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "attendance_service").Logger(),
		now:            time.Now,
	}
}

// List retrieves attendance visible to eff with pagination.
func (s *AttendanceService) List(ctx context.Context, eff model.EffectiveAccess, academyID string, filter model.AttendanceFilter, page, perPage int) ([]model.Attendance, *response.Pagination, error) {
	page, perPage, limit, offset := paginate(page, perPage)

	records, total, err := s.attendanceRepo.ListPaginated(ctx, access.ScopeOf(eff, academyID), filter, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return records, newPagination(page, perPage, total), nil
}

// Record creates or replaces the attendance of a class on a date and adjusts
// the attended-class counters of the students that changed.
func (s *AttendanceService) Record(ctx context.Context, eff model.EffectiveAccess, req *model.AttendanceRequest) (*model.Attendance, error) {
	if eff.FailClosed() {
		return nil, access.ErrNoAcademy
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	a := &model.Attendance{
		ClassID:    req.ClassID,
		Date:       *date,
		StudentIDs: uniqueIDs(req.StudentIDs),
	}
	if eff.UserID != "" {
		uid := eff.UserID
		a.CreatedBy = &uid
	}

	change, err := s.attendanceRepo.Record(ctx, access.ScopeOf(eff, ""), a)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("attendance_id", a.ID).
		Str("class_id", a.ClassID).
		Int("present", len(a.StudentIDs)).
		Int("added", len(change.Added)).
		Int("removed", len(change.Removed)).
		Msg("attendance recorded")

	s.publish(ctx, newAttendanceEvent(a, change, s.now()))
	return a, nil
}

func (s *AttendanceService) publish(ctx context.Context, evt *model.AttendanceEvent) {
	if evt == nil || s.rdb == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode attendance event")
		return
	}
	channel := config.CacheKey.AcademyAttendanceChannel(evt.AcademyID)
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("failed to publish attendance event")
	}
}

// newAttendanceEvent returns nil for records that belong to no academy.
func newAttendanceEvent(a *model.Attendance, change repository.AttendanceChange, at time.Time) *model.AttendanceEvent {
	if a.AcademyID == nil || *a.AcademyID == "" {
		return nil
	}
	return &model.AttendanceEvent{
		Type:         AttendanceEventRecorded,
		AttendanceID: a.ID,
		AcademyID:    *a.AcademyID,
		ClassID:      a.ClassID,
		Date:         a.Date.Format(dateLayout),
		Present:      len(a.StudentIDs),
		Added:        len(change.Added),
		Removed:      len(change.Removed),
		RecordedAt:   at.UTC(),
	}
}

// uniqueIDs lower-cases ids and drops repeats, keeping the first occurrence.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
