package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
)

// ErrInvalidTimeRange is returned when a class ends before it starts.
var ErrInvalidTimeRange = errors.New("time_end must be after time_start")

// ClassService handles class business logic.
type ClassService struct {
	classRepo *repository.ClassRepository
	log       zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository, log zerolog.Logger) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		log:       log.With().Str("component", "class_service").Logger(),
	}
}

// GetByID retrieves a class visible to eff.
func (s *ClassService) GetByID(ctx context.Context, eff model.EffectiveAccess, id string) (*model.Class, error) {
	return s.classRepo.GetByID(ctx, access.ScopeOf(eff, ""), id)
}

// List retrieves the classes visible to eff.
func (s *ClassService) List(ctx context.Context, eff model.EffectiveAccess, academyID string) ([]model.Class, error) {
	return s.classRepo.List(ctx, access.ScopeOf(eff, academyID))
}

// Create creates a new class in the academy eff writes to.
func (s *ClassService) Create(ctx context.Context, eff model.EffectiveAccess, req *model.ClassRequest) (*model.Class, error) {
	academyID, err := access.WriteTarget(eff, req.AcademyID)
	if err != nil {
		return nil, err
	}
	class, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	class.AcademyID = &academyID
	if eff.UserID != "" {
		uid := eff.UserID
		class.UserID = &uid
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// Update modifies a class visible to eff.
func (s *ClassService) Update(ctx context.Context, eff model.EffectiveAccess, id string, req *model.ClassRequest) (*model.Class, error) {
	if eff.FailClosed() {
		return nil, access.ErrNoAcademy
	}
	class, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	class.ID = id
	if err := s.classRepo.Update(ctx, access.ScopeOf(eff, ""), class); err != nil {
		return nil, err
	}
	return class, nil
}

// Delete removes a class visible to eff. Classes with recorded attendance
// are kept and repository.ErrDependencyExists is returned.
func (s *ClassService) Delete(ctx context.Context, eff model.EffectiveAccess, id string) error {
	if eff.FailClosed() {
		return access.ErrNoAcademy
	}
	return s.classRepo.Delete(ctx, access.ScopeOf(eff, ""), id)
}

func classFromRequest(req *model.ClassRequest) (*model.Class, error) {
	// HH:MM compares correctly as a string.
	if req.TimeEnd <= req.TimeStart {
		return nil, ErrInvalidTimeRange
	}

	days := make([]string, 0, len(req.DaysOfWeek))
	seen := make(map[string]struct{}, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		d = strings.ToLower(strings.TrimSpace(d))
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}

	level := req.Level
	if level == "" {
		level = model.ClassAll
	}

	return &model.Class{
		Name:       strings.TrimSpace(req.Name),
		Instructor: strings.TrimSpace(req.Instructor),
		Level:      level,
		DaysOfWeek: days,
		TimeStart:  req.TimeStart,
		TimeEnd:    req.TimeEnd,
	}, nil
}
