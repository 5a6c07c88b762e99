package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
)

// ErrUnknownStudent is returned when attendance names a student outside the
// class's academy.
var ErrUnknownStudent = errors.New("student does not belong to the class academy")

// AttendanceChange reports how a recorded attendance differs from the
// previous record of the same class and date.
type AttendanceChange struct {
	Added   []string
	Removed []string
}

// AttendanceRepository handles attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Record creates or replaces the attendance of a.ClassID on a.Date and
// adjusts every affected student's classes_attended counter in the same
// transaction. The class must be visible in scope.
func (r *AttendanceRepository) Record(ctx context.Context, scope access.Scope, a *model.Attendance) (AttendanceChange, error) {
	var change AttendanceChange
	if scope.Empty() {
		return change, ErrNotFound
	}
	if a.StudentIDs == nil {
		a.StudentIDs = []string{}
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Locking the class serializes concurrent recordings for it.
		if err := tx.QueryRow(ctx,
			`SELECT academy_id, name FROM classes
			 WHERE id = $1 AND ($2::uuid IS NULL OR academy_id = $2)
			 FOR UPDATE`, a.ClassID, scope.Filter(),
		).Scan(&a.AcademyID, &a.ClassName); err != nil {
			return err
		}

		if len(a.StudentIDs) > 0 {
			var known int
			if err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM students
				 WHERE id = ANY($1::uuid[]) AND academy_id IS NOT DISTINCT FROM $2`,
				a.StudentIDs, a.AcademyID,
			).Scan(&known); err != nil {
				return err
			}
			if known != len(a.StudentIDs) {
				return ErrUnknownStudent
			}
		}

		var previous []string
		err := tx.QueryRow(ctx,
			`SELECT student_ids FROM attendance WHERE class_id = $1 AND date = $2`,
			a.ClassID, a.Date,
		).Scan(&previous)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		change.Added, change.Removed = DiffStudentIDs(previous, a.StudentIDs)

		if err := tx.QueryRow(ctx,
			`INSERT INTO attendance (academy_id, class_id, date, student_ids, created_by)
			 VALUES ($1, $2, $3, $4::uuid[], $5)
			 ON CONFLICT (class_id, date) DO UPDATE SET student_ids = EXCLUDED.student_ids
			 RETURNING id, created_by, created_at`,
			a.AcademyID, a.ClassID, a.Date, a.StudentIDs, a.CreatedBy,
		).Scan(&a.ID, &a.CreatedBy, &a.CreatedAt); err != nil {
			return err
		}

		if len(change.Added) > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE students SET classes_attended = classes_attended + 1, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ANY($1::uuid[]) AND academy_id IS NOT DISTINCT FROM $2`,
				change.Added, a.AcademyID,
			); err != nil {
				return err
			}
		}
		if len(change.Removed) > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE students SET classes_attended = GREATEST(0, classes_attended - 1), updated_at = CURRENT_TIMESTAMP
				 WHERE id = ANY($1::uuid[]) AND academy_id IS NOT DISTINCT FROM $2`,
				change.Removed, a.AcademyID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return AttendanceChange{}, mapError(err)
	}
	return change, nil
}

// DiffStudentIDs returns the IDs present only in next (added) and only in
// previous (removed), each in their original order.
func DiffStudentIDs(previous, next []string) (added, removed []string) {
	before := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		before[id] = struct{}{}
	}
	after := make(map[string]struct{}, len(next))
	for _, id := range next {
		after[id] = struct{}{}
		if _, ok := before[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range previous {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// ListPaginated retrieves attendance visible in scope, newest first.
func (r *AttendanceRepository) ListPaginated(ctx context.Context, scope access.Scope, filter model.AttendanceFilter, limit, offset int) ([]model.Attendance, int, error) {
	if scope.Empty() {
		return []model.Attendance{}, 0, nil
	}

	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if id := scope.Filter(); id != nil {
		add("a.academy_id = ?", *id)
	}
	if filter.ClassID != nil {
		add("a.class_id = ?", *filter.ClassID)
	}
	if filter.From != nil {
		add("a.date >= ?", *filter.From)
	}
	if filter.To != nil {
		add("a.date <= ?", *filter.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendance a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argIdx := len(args) + 1
	query := `SELECT a.id, a.academy_id, a.class_id, c.name, a.date, a.student_ids, a.created_by, a.created_at
		 FROM attendance a JOIN classes c ON c.id = a.class_id` + where +
		` ORDER BY a.date DESC, c.name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []model.Attendance{}
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.AcademyID, &a.ClassID, &a.ClassName, &a.Date, &a.StudentIDs, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}
	return records, total, rows.Err()
}

// SummaryOn returns the number of attendance records and the total number of
// present students on date in scope.
func (r *AttendanceRepository) SummaryOn(ctx context.Context, scope access.Scope, date time.Time) (records, present int, err error) {
	if scope.Empty() {
		return 0, 0, nil
	}
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(cardinality(student_ids)), 0)
		 FROM attendance
		 WHERE date = $1 AND ($2::uuid IS NULL OR academy_id = $2)`,
		date, scope.Filter(),
	).Scan(&records, &present)
	return
}
