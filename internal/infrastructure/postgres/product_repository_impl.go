package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

// productColumns reads a product row aliased as p joined with its category
// and creator.
const productColumns = `
	p.id, p.name, p.description, p.image_url, p.category_id,
	COALESCE(c.name, ''), COALESCE(p.created_by, 0), COALESCE(p.updated_by, 0),
	COALESCE(u.name, ''), p.created_at, p.updated_at`

const productJoins = `
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN users u ON u.id = p.created_by`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.CategoryID,
		&p.CategoryName, &p.CreatedBy, &p.UpdatedBy, &p.OwnerName,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]entity.Product, int64, error) {
	pattern := likePattern(f.Search)

	var total int64
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products p
		WHERE p.name ILIKE $1 OR p.description ILIKE $1
	`, pattern).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p`+productJoins+`
		WHERE p.name ILIKE $1 OR p.description ILIKE $1
		ORDER BY p.id ASC
		LIMIT $2 OFFSET $3
	`, pattern, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Product, 0, f.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err)
	}
	return items, total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p`+productJoins+`
		WHERE p.id = $1
	`, id))
}

func (r *ProductRepository) Create(ctx context.Context, in *entity.Product) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		WITH p AS (
			INSERT INTO products (name, description, image_url, category_id, created_by, updated_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT `+productColumns+`
		FROM p`+productJoins,
		in.Name, in.Description, in.ImageURL, in.CategoryID,
		nullID(in.CreatedBy), nullID(in.UpdatedBy), in.CreatedAt, in.UpdatedAt))
}

func (r *ProductRepository) UpdateIfExists(ctx context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		WITH p AS (
			UPDATE products
			SET name        = COALESCE($2, name),
			    description = COALESCE($3, description),
			    category_id = COALESCE($4, category_id),
			    image_url   = COALESCE($5, image_url),
			    updated_by  = $6,
			    updated_at  = $7
			WHERE id = $1
			RETURNING *
		)
		SELECT `+productColumns+`
		FROM p`+productJoins,
		id, patch.Name, patch.Description, patch.CategoryID, patch.ImageURL,
		nullID(patch.UpdatedBy), patch.UpdatedAt))
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
