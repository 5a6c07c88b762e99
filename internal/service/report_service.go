package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
)

// BeltCount is one row of the belt distribution report.
type BeltCount struct {
	Belt  model.Belt `json:"belt"`
	Count int        `json:"count"`
}

// PromotionCandidate is a student together with their progression.
type PromotionCandidate struct {
	StudentID   string                   `json:"student_id"`
	Name        string                   `json:"name"`
	AcademyID   *string                  `json:"academy_id"`
	Stripes     int                      `json:"stripes"`
	Progression model.StudentProgression `json:"progression"`
}

// ReportService builds belt reports.
type ReportService struct {
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(studentRepo *repository.StudentRepository, log zerolog.Logger) *ReportService {
	return &ReportService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "report_service").Logger(),
		now:         time.Now,
	}
}

// BeltDistribution counts active students per belt, in belt order.
func (s *ReportService) BeltDistribution(ctx context.Context, eff model.EffectiveAccess, academyID string) ([]BeltCount, error) {
	counts, err := s.studentRepo.CountByBelt(ctx, access.ScopeOf(eff, academyID))
	if err != nil {
		return nil, err
	}
	out := make([]BeltCount, 0, len(model.BeltOrder))
	for _, b := range model.BeltOrder {
		out = append(out, BeltCount{Belt: b, Count: counts[b]})
	}
	return out, nil
}

// Promotions lists active students by progression, closest to promotion
// first. With readyOnly only students who met their class requirement are
// returned.
func (s *ReportService) Promotions(ctx context.Context, eff model.EffectiveAccess, academyID string, readyOnly bool) ([]PromotionCandidate, error) {
	students, err := s.studentRepo.ListActive(ctx, access.ScopeOf(eff, academyID))
	if err != nil {
		return nil, err
	}
	return s.rankPromotions(students, readyOnly), nil
}

func (s *ReportService) rankPromotions(students []model.Student, readyOnly bool) []PromotionCandidate {
	now := s.now()
	out := make([]PromotionCandidate, 0, len(students))
	for i := range students {
		st := &students[i]
		if st.Belt.Terminal() {
			continue
		}
		p, err := BuildProgression(st, now)
		if err != nil {
			s.log.Warn().Err(err).Str("student_id", st.ID).Msg("skipping student with unknown belt")
			continue
		}
		if readyOnly && !p.Ready {
			continue
		}
		out = append(out, PromotionCandidate{
			StudentID:   st.ID,
			Name:        st.Name,
			AcademyID:   st.AcademyID,
			Stripes:     st.Stripes,
			Progression: *p,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Progression, out[j].Progression
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		if a.TimeRemaining != b.TimeRemaining {
			return a.TimeRemaining < b.TimeRemaining
		}
		return out[i].Name < out[j].Name
	})
	return out
}
