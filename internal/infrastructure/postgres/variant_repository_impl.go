package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

const variantColumns = `
	id, product_id, name, sku, price, stock, image_url,
	COALESCE(created_by, 0), COALESCE(updated_by, 0), created_at, updated_at`

type VariantRepository struct {
	pool *pgxpool.Pool
}

func NewVariantRepository(pool *pgxpool.Pool) *VariantRepository {
	return &VariantRepository{pool: pool}
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	v := &entity.Variant{}
	if err := row.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.Price, &v.Stock, &v.ImageURL,
		&v.CreatedBy, &v.UpdatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *VariantRepository) ListByProduct(ctx context.Context, productID int64) ([]entity.Variant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+variantColumns+`
		FROM variants
		WHERE product_id = $1
		ORDER BY id ASC
	`, productID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []entity.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, mapError(rows.Err())
}

func (r *VariantRepository) GetByID(ctx context.Context, id int64) (*entity.Variant, error) {
	return scanVariant(r.pool.QueryRow(ctx, `
		SELECT `+variantColumns+`
		FROM variants
		WHERE id = $1
	`, id))
}

// CreateForProduct inserts only when the parent product exists; no row back
// means the parent was missing.
func (r *VariantRepository) CreateForProduct(ctx context.Context, in *entity.Variant) (*entity.Variant, error) {
	v, err := scanVariant(r.pool.QueryRow(ctx, `
		INSERT INTO variants (product_id, name, sku, price, stock, image_url, created_by, updated_by, created_at, updated_at)
		SELECT $1::bigint, $2::text, $3::text, $4::numeric, $5::integer, $6::text, $7::bigint, $8::bigint, $9::timestamptz, $10::timestamptz
		WHERE EXISTS (SELECT 1 FROM products WHERE id = $1)
		RETURNING `+variantColumns,
		in.ProductID, in.Name, in.SKU, in.Price, in.Stock, in.ImageURL,
		nullID(in.CreatedBy), nullID(in.UpdatedBy), in.CreatedAt, in.UpdatedAt))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, repository.ErrInvalidReference
	}
	return v, err
}

func (r *VariantRepository) UpdateIfExists(ctx context.Context, id int64, patch repository.VariantPatch) (*entity.Variant, error) {
	return scanVariant(r.pool.QueryRow(ctx, `
		UPDATE variants
		SET name       = COALESCE($2, name),
		    sku        = COALESCE($3, sku),
		    price      = COALESCE($4, price),
		    stock      = COALESCE($5, stock),
		    image_url  = COALESCE($6, image_url),
		    updated_by = $7,
		    updated_at = $8
		WHERE id = $1
		RETURNING `+variantColumns,
		id, patch.Name, patch.SKU, patch.Price, patch.Stock, patch.ImageURL,
		nullID(patch.UpdatedBy), patch.UpdatedAt))
}

func (r *VariantRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var productID int64
	err := r.pool.QueryRow(ctx, `DELETE FROM variants WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
	if err != nil {
		return 0, mapError(err)
	}
	return productID, nil
}

func (r *VariantRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM variants`).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

var _ repository.VariantRepository = (*VariantRepository)(nil)
