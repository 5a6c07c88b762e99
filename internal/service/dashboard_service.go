package service

import (
	"context"
	"time"

	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
)

const recentAttendanceLimit = 5

// DashboardData consolidates all metrics for the academy dashboard.
type DashboardData struct {
	repository.DashboardCounts
	RecentAttendance []repository.DashboardRecentAttendance `json:"recent_attendance"`
}

// DashboardService handles dashboard business logic.
type DashboardService struct {
	repo *repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// GetDashboardData fetches the dashboard metrics visible to eff. A caller
// without an academy gets zeroed metrics.
func (s *DashboardService) GetDashboardData(ctx context.Context, eff model.EffectiveAccess, academyID string) (*DashboardData, error) {
	scope := access.ScopeOf(eff, academyID)

	counts, err := s.repo.GetSummaryCounts(ctx, scope, truncateDay(s.now()))
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.GetRecentAttendance(ctx, scope, recentAttendanceLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		DashboardCounts:  counts,
		RecentAttendance: recent,
	}, nil
}
