package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/shop-bot/internal/domain/models"
)

// ErrProductNotFound - товара нет или он неактивен, вызывающему это неразличимо
var ErrProductNotFound = errors.New("product not found")

// ProductColumn - закрытый набор колонок, которые можно менять по одной
type ProductColumn string

const (
	ColumnTitle       ProductColumn = "title"
	ColumnDescription ProductColumn = "description"
	ColumnPrice       ProductColumn = "price_cents"
	ColumnActive      ProductColumn = "is_active"
	ColumnCategory    ProductColumn = "category_id"
	ColumnPhoto       ProductColumn = "photo_url"
)

var updatableColumns = map[ProductColumn]struct{}{
	ColumnTitle:       {},
	ColumnDescription: {},
	ColumnPrice:       {},
	ColumnActive:      {},
	ColumnCategory:    {},
	ColumnPhoto:       {},
}

type ProductStorage interface {
	// ListActiveByCategory страница активных товаров категории, упорядоченных по названию
	ListActiveByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]models.Product, error)
	CountActiveByCategory(ctx context.Context, categoryID int64) (int, error)
	GetActiveProduct(ctx context.Context, id int64) (*models.Product, error)
	GetActiveProductTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, tx *sql.Tx, product *models.Product) (*models.Product, error)
	UpdateProductColumn(ctx context.Context, tx *sql.Tx, id int64, column ProductColumn, value any) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, title, description, price_cents, photo_url, is_active, category_id"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, extra ...any) (*models.Product, error) {
	var (
		p        models.Product
		photoURL sql.NullString
		category sql.NullInt64
	)
	dest := append([]any{&p.ID, &p.Title, &p.Description, &p.PriceCents, &photoURL, &p.IsActive, &category}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.PhotoURL = photoURL.String
	p.CategoryID = int64Ptr(category)
	return &p, nil
}

func (r *productRepository) ListActiveByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category_id = $1 AND is_active = TRUE
		ORDER BY title, id
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CountActiveByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE category_id = $1 AND is_active = TRUE",
		categoryID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepository) GetActiveProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 AND is_active = TRUE", id)
	return productOrNotFound(scanProduct(row))
}

func (r *productRepository) GetActiveProductTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 AND is_active = TRUE", id)
	return productOrNotFound(scanProduct(row))
}

func productOrNotFound(p *models.Product, err error) (*models.Product, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, tx *sql.Tx, product *models.Product) (*models.Product, error) {
	query := `INSERT INTO products (title, description, price_cents, photo_url, is_active, category_id)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, query,
		product.Title,
		product.Description,
		product.PriceCents,
		nullString(product.PhotoURL),
		product.IsActive,
		nullInt64(product.CategoryID),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id
	return product, nil
}

// UpdateProductColumn меняет одну колонку товара, в том числе неактивного
func (r *productRepository) UpdateProductColumn(ctx context.Context, tx *sql.Tx, id int64, column ProductColumn, value any) error {
	if _, ok := updatableColumns[column]; !ok {
		return fmt.Errorf("column %q is not updatable", column)
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE products SET %s = $1 WHERE id = $2", column), value, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
