package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/shop-bot/internal/domain/models"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartStorage interface {
	// UpsertCartItem добавляет qty к строке (не ниже 1) или создаёт строку с max(1, qty)
	UpsertCartItem(ctx context.Context, tx *sql.Tx, userID, productID int64, qty int) error
	// LockCartQuantity блокирует строку до конца транзакции и возвращает текущее количество
	LockCartQuantity(ctx context.Context, tx *sql.Tx, userID, productID int64) (int, error)
	UpdateCartQuantity(ctx context.Context, tx *sql.Tx, userID, productID int64, qty int) error
	DeleteCartItem(ctx context.Context, tx *sql.Tx, userID, productID int64) error
	// ListCartLines строки корзины в порядке добавления с текущими данными товара
	ListCartLines(ctx context.Context, tx *sql.Tx, userID int64) ([]models.CartLine, error)
	ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) UpsertCartItem(ctx context.Context, tx *sql.Tx, userID, productID int64, qty int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, GREATEST(1, $3::int))
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = GREATEST(1, LEAST(2147483647, cart_items.quantity::bigint + $3::bigint))`
	if _, err := tx.ExecContext(ctx, query, userID, productID, qty); err != nil {
		// товар удалён между проверкой и вставкой
		if pqCode(err) == pqForeignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) LockCartQuantity(ctx context.Context, tx *sql.Tx, userID, productID int64) (int, error) {
	var qty int
	err := tx.QueryRowContext(ctx,
		"SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2 FOR UPDATE",
		userID, productID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCartItemNotFound
		}
		return 0, err
	}
	return qty, nil
}

func (r *cartRepository) UpdateCartQuantity(ctx context.Context, tx *sql.Tx, userID, productID int64, qty int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3",
		qty, userID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}
	return nil
}

// DeleteCartItem: отсутствие строки не ошибка
func (r *cartRepository) DeleteCartItem(ctx context.Context, tx *sql.Tx, userID, productID int64) error {
	_, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2",
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) ListCartLines(ctx context.Context, tx *sql.Tx, userID int64) ([]models.CartLine, error) {
	query := `
		SELECT p.id, p.title, p.description, p.price_cents, p.photo_url, p.is_active, p.category_id, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var qty int
		p, err := scanProduct(rows, &qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.CartLine{Product: *p, Quantity: qty})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
