package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
)

// DashboardRepository handles dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// DashboardCounts holds the headline numbers of the dashboard.
type DashboardCounts struct {
	TotalStudents  int `json:"total_students"`
	ActiveStudents int `json:"active_students"`
	TotalClasses   int `json:"total_classes"`
	TodayRecords   int `json:"today_attendance_records"`
	TodayPresent   int `json:"today_present"`
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, scope access.Scope, today time.Time) (DashboardCounts, error) {
	var c DashboardCounts
	if scope.Empty() {
		return c, nil
	}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students WHERE $1::uuid IS NULL OR academy_id = $1),
			(SELECT COUNT(*) FROM students WHERE status = $2 AND ($1::uuid IS NULL OR academy_id = $1)),
			(SELECT COUNT(*) FROM classes WHERE $1::uuid IS NULL OR academy_id = $1),
			(SELECT COUNT(*) FROM attendance WHERE date = $3 AND ($1::uuid IS NULL OR academy_id = $1)),
			(SELECT COALESCE(SUM(cardinality(student_ids)), 0) FROM attendance
			 WHERE date = $3 AND ($1::uuid IS NULL OR academy_id = $1))`,
		scope.Filter(), model.StudentActive, today,
	).Scan(&c.TotalStudents, &c.ActiveStudents, &c.TotalClasses, &c.TodayRecords, &c.TodayPresent)
	return c, err
}

// DashboardRecentAttendance is a compact view of a recorded attendance.
type DashboardRecentAttendance struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	ClassName string    `json:"class_name"`
	Date      time.Time `json:"date"`
	Present   int       `json:"present"`
}

// GetRecentAttendance retrieves the last N attendance records in scope.
func (r *DashboardRepository) GetRecentAttendance(ctx context.Context, scope access.Scope, limit int) ([]DashboardRecentAttendance, error) {
	results := []DashboardRecentAttendance{}
	if scope.Empty() {
		return results, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.class_id, c.name, a.date, cardinality(a.student_ids)
		 FROM attendance a
		 JOIN classes c ON c.id = a.class_id
		 WHERE $1::uuid IS NULL OR a.academy_id = $1
		 ORDER BY a.date DESC, a.created_at DESC
		 LIMIT $2`,
		scope.Filter(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a DashboardRecentAttendance
		if err := rows.Scan(&a.ID, &a.ClassID, &a.ClassName, &a.Date, &a.Present); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
