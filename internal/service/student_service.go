package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/progression"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/response"
)

const (
	dateLayout            = "2006-01-02"
	defaultClassesPerWeek = 3
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
		now:         time.Now,
	}
}

// GetByID retrieves a student visible to eff.
func (s *StudentService) GetByID(ctx context.Context, eff model.EffectiveAccess, id string) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, access.ScopeOf(eff, ""), id)
}

// ListStudents retrieves the students visible to eff with pagination.
// academyID narrows an admin listing to one academy.
func (s *StudentService) ListStudents(ctx context.Context, eff model.EffectiveAccess, academyID string, filter model.StudentFilter, page, perPage int) ([]model.Student, *response.Pagination, error) {
	page, perPage, limit, offset := paginate(page, perPage)

	students, total, err := s.studentRepo.ListPaginated(ctx, access.ScopeOf(eff, academyID), filter, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return students, newPagination(page, perPage, total), nil
}

// Create inserts a new student into the academy eff writes to.
func (s *StudentService) Create(ctx context.Context, eff model.EffectiveAccess, req *model.StudentRequest) (*model.Student, error) {
	academyID, err := access.WriteTarget(eff, req.AcademyID)
	if err != nil {
		return nil, err
	}

	student := &model.Student{AcademyID: &academyID}
	if err := applyStudentRequest(student, req); err != nil {
		return nil, err
	}
	if student.RegistrationDate == nil {
		today := truncateDay(s.now())
		student.RegistrationDate = &today
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	s.log.Debug().Str("student_id", student.ID).Str("academy_id", academyID).Msg("student created")
	return student, nil
}

// Update modifies a student visible to eff.
func (s *StudentService) Update(ctx context.Context, eff model.EffectiveAccess, id string, req *model.StudentRequest) (*model.Student, error) {
	if eff.FailClosed() {
		return nil, access.ErrNoAcademy
	}
	student := &model.Student{ID: id}
	if err := applyStudentRequest(student, req); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Update(ctx, access.ScopeOf(eff, ""), student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a student visible to eff.
func (s *StudentService) Delete(ctx context.Context, eff model.EffectiveAccess, id string) error {
	if eff.FailClosed() {
		return access.ErrNoAcademy
	}
	return s.studentRepo.Delete(ctx, access.ScopeOf(eff, ""), id)
}

// Progression computes the belt progression of a student visible to eff.
func (s *StudentService) Progression(ctx context.Context, eff model.EffectiveAccess, id string) (*model.StudentProgression, error) {
	student, err := s.studentRepo.GetByID(ctx, access.ScopeOf(eff, ""), id)
	if err != nil {
		return nil, err
	}
	return BuildProgression(student, s.now())
}

// BuildProgression combines the progression result of student with its next
// belt and requirement.
func BuildProgression(student *model.Student, now time.Time) (*model.StudentProgression, error) {
	result, err := progression.Calculate(progression.InputFromStudent(student), now)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", student.ID, err)
	}

	p := &model.StudentProgression{
		StudentID:        student.ID,
		Belt:             student.Belt,
		RequiredClasses:  progression.RequiredClasses(student.Belt),
		ClassesAttended:  student.ClassesAttended,
		Percent:          result.Percent,
		ClassesRemaining: result.ClassesRemaining,
		TimeRemaining:    result.TimeRemaining,
		Ready:            progression.ReadyForPromotion(student.Belt, student.ClassesAttended),
	}
	if next, ok := progression.NextBelt(student.Belt); ok {
		p.NextBelt = &next
	}
	if req, ok := progression.RequirementFor(student.Belt); ok {
		perWeek := student.ClassesPerWeek
		if perWeek <= 0 {
			perWeek = defaultClassesPerWeek
		}
		p.ExpectedClasses = progression.WeeksToClasses(progression.MonthsToWeeks(float64(req.Months)), perWeek)
	}
	return p, nil
}

func applyStudentRequest(st *model.Student, req *model.StudentRequest) error {
	belt, err := model.ParseBelt(req.Belt.String())
	if err != nil {
		return err
	}
	registered, err := parseDate(req.RegistrationDate)
	if err != nil {
		return err
	}
	promoted, err := parseDate(req.LastPromotionDate)
	if err != nil {
		return err
	}

	st.Name = strings.TrimSpace(req.Name)
	st.Email = optionalString(strings.ToLower(req.Email))
	st.Phone = optionalString(req.Phone)
	st.Belt = belt
	st.Stripes = req.Stripes
	st.Status = req.Status
	if st.Status == "" {
		st.Status = model.StudentActive
	}
	st.RegistrationDate = registered
	st.LastPromotionDate = promoted
	st.ClassesPerWeek = req.ClassesPerWeek
	if st.ClassesPerWeek == 0 {
		st.ClassesPerWeek = defaultClassesPerWeek
	}
	st.ClassesAttended = req.ClassesAttended
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
