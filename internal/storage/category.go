package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/shop-bot/internal/domain/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryStorage interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	// EnsureCategory ищет категорию по точному имени или создаёт её; created = true, если создана
	EnsureCategory(ctx context.Context, tx *sql.Tx, name string) (cat *models.Category, created bool, err error)
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryStorage {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) EnsureCategory(ctx context.Context, tx *sql.Tx, name string) (*models.Category, bool, error) {
	cat := &models.Category{Name: name}

	err := tx.QueryRowContext(ctx,
		"INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id",
		name,
	).Scan(&cat.ID)
	if err == nil {
		return cat, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to insert category: %w", err)
	}

	// категория уже есть (или создана параллельно)
	err = tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = $1", name).Scan(&cat.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrCategoryNotFound
		}
		return nil, false, fmt.Errorf("failed to select category: %w", err)
	}
	return cat, false, nil
}
