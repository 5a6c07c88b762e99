package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
)

const studentColumns = `id, academy_id, name, email, phone, belt, stripes, status, registration_date,
	last_promotion_date, classes_per_week, classes_attended, created_at, updated_at`

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.AcademyID, &s.Name, &s.Email, &s.Phone, &s.Belt, &s.Stripes, &s.Status,
		&s.RegistrationDate, &s.LastPromotionDate, &s.ClassesPerWeek, &s.ClassesAttended, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a student visible in scope.
func (r *StudentRepository) GetByID(ctx context.Context, scope access.Scope, id string) (*model.Student, error) {
	if scope.Empty() {
		return nil, ErrNotFound
	}
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE id = $1 AND ($2::uuid IS NULL OR academy_id = $2)`, id, scope.Filter(),
	), s)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

// ListPaginated retrieves students visible in scope, ordered by name.
func (r *StudentRepository) ListPaginated(ctx context.Context, scope access.Scope, filter model.StudentFilter, limit, offset int) ([]model.Student, int, error) {
	if scope.Empty() {
		return []model.Student{}, 0, nil
	}

	where, args := studentWhere(scope, filter)

	// 1. Get total count
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get paginated data
	argIdx := len(args) + 1
	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

func studentWhere(scope access.Scope, filter model.StudentFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if id := scope.Filter(); id != nil {
		add("academy_id = ?", *id)
	}
	if filter.Belt != nil {
		add("belt = ?", string(*filter.Belt))
	}
	if filter.Status != nil {
		add("status = ?", string(*filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		add("(name ILIKE '%' || ? || '%' OR email ILIKE '%' || ? || '%')", search)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListActive returns every active student visible in scope.
func (r *StudentRepository) ListActive(ctx context.Context, scope access.Scope) ([]model.Student, error) {
	if scope.Empty() {
		return []model.Student{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE status = $1 AND ($2::uuid IS NULL OR academy_id = $2)
		 ORDER BY name`, model.StudentActive, scope.Filter(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// CountByBelt returns the number of active students per belt in scope.
func (r *StudentRepository) CountByBelt(ctx context.Context, scope access.Scope) (map[model.Belt]int, error) {
	counts := make(map[model.Belt]int, len(model.BeltOrder))
	if scope.Empty() {
		return counts, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT belt, COUNT(*) FROM students
		 WHERE status = $1 AND ($2::uuid IS NULL OR academy_id = $2)
		 GROUP BY belt`, model.StudentActive, scope.Filter(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var belt model.Belt
		var count int
		if err := rows.Scan(&belt, &count); err != nil {
			return nil, err
		}
		counts[belt] = count
	}
	return counts, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (academy_id, name, email, phone, belt, stripes, status, registration_date,
		   last_promotion_date, classes_per_week, classes_attended)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		s.AcademyID, s.Name, s.Email, s.Phone, s.Belt, s.Stripes, s.Status, s.RegistrationDate,
		s.LastPromotionDate, s.ClassesPerWeek, s.ClassesAttended,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapError(err)
}

// Update modifies a student visible in scope. The academy of a student never
// changes.
func (r *StudentRepository) Update(ctx context.Context, scope access.Scope, s *model.Student) error {
	if scope.Empty() {
		return ErrNotFound
	}
	err := r.pool.QueryRow(ctx,
		`UPDATE students SET name = $1, email = $2, phone = $3, belt = $4, stripes = $5, status = $6,
		   registration_date = $7, last_promotion_date = $8, classes_per_week = $9, classes_attended = $10,
		   updated_at = CURRENT_TIMESTAMP
		 WHERE id = $11 AND ($12::uuid IS NULL OR academy_id = $12)
		 RETURNING academy_id, created_at, updated_at`,
		s.Name, s.Email, s.Phone, s.Belt, s.Stripes, s.Status, s.RegistrationDate, s.LastPromotionDate,
		s.ClassesPerWeek, s.ClassesAttended, s.ID, scope.Filter(),
	).Scan(&s.AcademyID, &s.CreatedAt, &s.UpdatedAt)
	return mapError(err)
}

// Delete removes a student visible in scope.
func (r *StudentRepository) Delete(ctx context.Context, scope access.Scope, id string) error {
	if scope.Empty() {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM students WHERE id = $1 AND ($2::uuid IS NULL OR academy_id = $2)`, id, scope.Filter())
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
