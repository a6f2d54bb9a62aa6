package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, mapError(err)
		}
		out = append(out, c)
	}
	return out, mapError(rows.Err())
}

// EnsureCategories inserts any missing names. Used by the seeder.
func (r *CategoryRepository) EnsureCategories(ctx context.Context, names []string) (int64, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO categories (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
	`, names)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected(), nil
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
