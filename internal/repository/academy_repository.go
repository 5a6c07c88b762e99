package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami/academy-backend/internal/model"
)

const academyColumns = `id, name, owner_name, cnpj, street, neighborhood, zip_code, phone, email, user_id, created_by, created_at, updated_at`

// AcademyRepository handles academy data access.
type AcademyRepository struct {
	pool *pgxpool.Pool
}

// NewAcademyRepository creates a new AcademyRepository.
func NewAcademyRepository(pool *pgxpool.Pool) *AcademyRepository {
	return &AcademyRepository{pool: pool}
}

func scanAcademy(row pgx.Row, a *model.Academy) error {
	return row.Scan(&a.ID, &a.Name, &a.OwnerName, &a.CNPJ, &a.Street, &a.Neighborhood,
		&a.ZipCode, &a.Phone, &a.Email, &a.UserID, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID retrieves an academy by ID.
func (r *AcademyRepository) GetByID(ctx context.Context, id string) (*model.Academy, error) {
	a := &model.Academy{}
	err := scanAcademy(r.pool.QueryRow(ctx,
		`SELECT `+academyColumns+` FROM academies WHERE id = $1`, id), a)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

// ListPaginated retrieves academies ordered by name, optionally filtered by a
// case-insensitive name search.
func (r *AcademyRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Academy, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM academies WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`, search,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+academyColumns+` FROM academies
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		 ORDER BY name LIMIT $2 OFFSET $3`,
		search, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	academies := []model.Academy{}
	for rows.Next() {
		var a model.Academy
		if err := scanAcademy(rows, &a); err != nil {
			return nil, 0, err
		}
		academies = append(academies, a)
	}
	return academies, total, rows.Err()
}

// Create inserts a new academy. When a.UserID is set the owner is bound in
// user_academies within the same transaction.
func (r *AcademyRepository) Create(ctx context.Context, a *model.Academy) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO academies (name, owner_name, cnpj, street, neighborhood, zip_code, phone, email, user_id, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id, created_at, updated_at`,
			a.Name, a.OwnerName, a.CNPJ, a.Street, a.Neighborhood, a.ZipCode, a.Phone, a.Email, a.UserID, a.CreatedBy,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return err
		}
		if a.UserID == nil {
			return nil
		}
		return bindTx(ctx, tx, *a.UserID, a.ID, model.RoleAcademyOwner)
	})
	return mapError(err)
}

// Update modifies an academy. The owner binding is rewritten when a.UserID
// changes; the previous owner's binding is removed.
func (r *AcademyRepository) Update(ctx context.Context, a *model.Academy) (previousOwner *string, err error) {
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT user_id FROM academies WHERE id = $1 FOR UPDATE`, a.ID,
		).Scan(&previousOwner); err != nil {
			return err
		}

		if err := tx.QueryRow(ctx,
			`UPDATE academies SET name = $1, owner_name = $2, cnpj = $3, street = $4, neighborhood = $5,
			   zip_code = $6, phone = $7, email = $8, user_id = $9, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $10
			 RETURNING created_by, created_at, updated_at`,
			a.Name, a.OwnerName, a.CNPJ, a.Street, a.Neighborhood, a.ZipCode, a.Phone, a.Email, a.UserID, a.ID,
		).Scan(&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}

		if sameOwner(previousOwner, a.UserID) {
			return nil
		}
		if previousOwner != nil {
			if _, err := tx.Exec(ctx,
				`DELETE FROM user_academies WHERE user_id = $1 AND academy_id = $2 AND role = $3`,
				*previousOwner, a.ID, model.RoleAcademyOwner,
			); err != nil {
				return err
			}
		}
		if a.UserID != nil {
			return bindTx(ctx, tx, *a.UserID, a.ID, model.RoleAcademyOwner)
		}
		return nil
	})
	return previousOwner, mapError(err)
}

// Delete removes an academy and, through cascades, everything it owns.
// It returns the user IDs that were bound to it.
func (r *AcademyRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var userIDs []string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT user_id FROM user_academies WHERE academy_id = $1
			 UNION
			 SELECT user_id FROM academies WHERE id = $1 AND user_id IS NOT NULL`, id)
		if err != nil {
			return err
		}
		userIDs, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		// Attendance rows reference classes with RESTRICT; drop them first.
		if _, err := tx.Exec(ctx, `DELETE FROM attendance WHERE academy_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM academies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return userIDs, nil
}

// FindAcademyOwnedBy returns the most recently created academy whose owner is
// userID, or "" when the user owns none.
func (r *AcademyRepository) FindAcademyOwnedBy(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM academies WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", mapError(err)
	}
	return id, nil
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
