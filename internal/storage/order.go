package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/shop-bot/internal/domain/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNumberTaken - номер заказа уже занят, нужно сгенерировать другой
	ErrOrderNumberTaken = errors.New("order number already taken")
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заказ; при коллизии order_number возвращает ErrOrderNumberTaken,
	// транзакция при этом остаётся рабочей.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	AddOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	// ListOrders все заказы, новые сверху; пустой status - без фильтра
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	// SetOrderStatus перезаписывает статус и возвращает номер заказа
	SetOrderStatus(ctx context.Context, id int64, status string) (string, error)
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, order_number, total_cents, delivery_method, status,
		                    customer_name, customer_phone, customer_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (order_number) DO NOTHING
		RETURNING id, created_at`
	err := tx.QueryRowContext(ctx, query,
		nullInt64(order.UserID),
		order.OrderNumber,
		order.TotalCents,
		order.DeliveryMethod,
		order.Status,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNumberTaken
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) AddOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price_cents)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		item.OrderID,
		nullInt64(item.ProductID),
		item.Quantity,
		item.PriceCents,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to add order item: %w", err)
	}
	return nil
}

func (r *orderRepository) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	query := `
		SELECT id, user_id, order_number, total_cents, delivery_method, status,
		       customer_name, customer_phone, customer_address, created_at
		FROM orders`
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			o      models.Order
			userID sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &userID, &o.OrderNumber, &o.TotalCents, &o.DeliveryMethod, &o.Status,
			&o.CustomerName, &o.CustomerPhone, &o.CustomerAddress, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.UserID = int64Ptr(userID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) SetOrderStatus(ctx context.Context, id int64, status string) (string, error) {
	var number string
	err := r.db.QueryRowContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2 RETURNING order_number",
		status, id,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	return number, nil
}
