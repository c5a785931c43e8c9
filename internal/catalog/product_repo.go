package catalog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

//go:generate mockgen -source=product_repo.go -destination=../mock/catalog/product_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	List(ctx context.Context, arg ListParams) ([]Product, error)
	Count(ctx context.Context, onlyActive bool) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)

	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListParams struct {
	OnlyActive bool
	Limit      int32
	Offset     int32
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type repository struct {
	db queryer
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: tx}
}

const productColumns = `id, name, description, price, image_url, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// List returns products newest first, matching the storefront's order.
func (r *repository) List(ctx context.Context, arg ListParams) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1::bool = false OR is_active)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, arg.OnlyActive, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE ($1::bool = false OR is_active)`,
		onlyActive,
	).Scan(&count)
	return count, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.ImageURL, p.IsActive,
	)
	return scanProduct(row)
}

func (r *repository) Update(ctx context.Context, p Product) (Product, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE products
		SET name = $2, description = $3, price = $4, image_url = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL,
	)
	return scanProduct(row)
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
