package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/events"
	"github.com/linemk/shop-bot/internal/storage"
)

const orderNumberAttempts = 5

// CustomerDetails - ответы покупателя из диалога оформления
type CustomerDetails struct {
	Name           string
	Phone          string
	Address        string
	DeliveryMethod string
}

type OrderService interface {
	// CreateOrder превращает корзину в заказ атомарно: заказ, его строки и очистка корзины
	// фиксируются вместе. Пустая корзина - ErrEmptyCart.
	CreateOrder(ctx context.Context, chatID int64, details CustomerDetails) (*models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	// SetStatus перезаписывает статус любой непустой строкой
	SetStatus(ctx context.Context, orderID int64, status string) error
}

type orderService struct {
	log       *slog.Logger
	db        *sql.DB
	userRepo  storage.UserStorage
	cartRepo  storage.CartStorage
	orderRepo storage.OrderStorage
	publisher events.Publisher

	now       func() time.Time
	newNumber func(time.Time) (string, error)
}

func NewOrderService(
	log *slog.Logger,
	db *sql.DB,
	userRepo storage.UserStorage,
	cartRepo storage.CartStorage,
	orderRepo storage.OrderStorage,
	publisher events.Publisher,
) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		log:       log,
		db:        db,
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		publisher: publisher,
		now:       time.Now,
		newNumber: GenerateOrderNumber,
	}
}

// GenerateOrderNumber: дата UTC в формате YYMMDD и 6 случайных hex-символов, например 240131-9f2c01
func GenerateOrderNumber(now time.Time) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return now.UTC().Format("060102") + "-" + hex.EncodeToString(b), nil
}

// CreateOrder создаёт заказ из корзины пользователя
// Если что-то идет не так, транзакция откатывается
func (s *orderService) CreateOrder(ctx context.Context, chatID int64, details CustomerDetails) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("chatID", chatID))
	logger.Info("starting order transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	user, err := s.userRepo.EnsureUser(ctx, tx, chatID)
	if err != nil {
		rollback(logger, tx)
		logger.Error("failed to ensure user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to ensure user: %w", op, err)
	}

	// Корзину читаем в той же транзакции, что и очищаем
	lines, err := s.cartRepo.ListCartLines(ctx, tx, user.ID)
	if err != nil {
		rollback(logger, tx)
		logger.Error("failed to read cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to read cart: %w", op, err)
	}
	if len(lines) == 0 {
		rollback(logger, tx)
		logger.Info("cart is empty, nothing to order")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	// Кэшируем данные покупателя в профиле
	if err := s.userRepo.UpdateProfile(ctx, tx, user.ID, details.Name, details.Phone, details.Address); err != nil {
		rollback(logger, tx)
		logger.Error("failed to update user profile", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update user profile: %w", op, err)
	}

	userID := user.ID
	order := &models.Order{
		UserID:          &userID,
		TotalCents:      models.CalculateTotal(lines),
		DeliveryMethod:  details.DeliveryMethod,
		Status:          models.OrderStatusNew,
		CustomerName:    details.Name,
		CustomerPhone:   details.Phone,
		CustomerAddress: details.Address,
	}
	if err := s.insertWithUniqueNumber(ctx, tx, order); err != nil {
		rollback(logger, tx)
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// Строки заказа - снимок текущих цен
	for _, line := range lines {
		productID := line.Product.ID
		item := models.OrderItem{
			OrderID:    order.ID,
			ProductID:  &productID,
			Quantity:   line.Quantity,
			PriceCents: line.Product.PriceCents,
		}
		if err := s.orderRepo.AddOrderItem(ctx, tx, &item); err != nil {
			rollback(logger, tx)
			logger.Error("failed to add order item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to add order item: %w", op, err)
		}
		order.Items = append(order.Items, item)
	}

	if err := s.cartRepo.ClearCart(ctx, tx, user.ID); err != nil {
		rollback(logger, tx)
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	// Коммит транзакции
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order created",
		slog.String("orderNumber", order.OrderNumber),
		slog.Int64("totalCents", order.TotalCents),
		slog.Int("items", len(order.Items)),
	)
	s.publish(ctx, logger, orderCreatedEvent(order, chatID, s.now()))
	return order, nil
}

// insertWithUniqueNumber генерирует номер заново, пока вставка натыкается на занятый
func (s *orderService) insertWithUniqueNumber(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		number, err := s.newNumber(s.now())
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}
		order.OrderNumber = number

		err = s.orderRepo.CreateOrder(ctx, tx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrOrderNumberTaken) {
			return err
		}
		s.log.Warn("order number collision, regenerating",
			slog.String("orderNumber", number),
			slog.Int("attempt", attempt),
		)
	}
	return fmt.Errorf("no free order number after %d attempts: %w", orderNumberAttempts, storage.ErrOrderNumberTaken)
}

func (s *orderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orderRepo.ListOrders(ctx, strings.TrimSpace(status))
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) SetStatus(ctx context.Context, orderID int64, status string) error {
	const op = "service.OrderService.SetStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	status = strings.TrimSpace(status)
	if status == "" {
		return fmt.Errorf("%s: empty status: %w", op, ErrInvalidValue)
	}

	number, err := s.orderRepo.SetOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Info("order not found")
		} else {
			logger.Error("failed to set status", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order status changed", slog.String("status", status))
	s.publish(ctx, logger, events.OrderEvent{
		ID:          uuid.NewString(),
		Type:        events.TypeOrderStatusChanged,
		OrderID:     orderID,
		OrderNumber: number,
		Status:      status,
		OccurredAt:  s.now().UTC(),
	})
	return nil
}

// publish: заказ уже зафиксирован, поэтому ошибка брокера только логируется
func (s *orderService) publish(ctx context.Context, logger *slog.Logger, event events.OrderEvent) {
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Warn("failed to publish order event", slog.String("type", event.Type), slog.Any("error", err))
	}
}

func orderCreatedEvent(order *models.Order, chatID int64, at time.Time) events.OrderEvent {
	lines := make([]events.OrderLine, 0, len(order.Items))
	for _, it := range order.Items {
		line := events.OrderLine{Quantity: it.Quantity, PriceCents: it.PriceCents}
		if it.ProductID != nil {
			line.ProductID = *it.ProductID
		}
		lines = append(lines, line)
	}
	return events.OrderEvent{
		ID:          uuid.NewString(),
		Type:        events.TypeOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		ChatID:      chatID,
		Status:      order.Status,
		TotalCents:  order.TotalCents,
		Items:       lines,
		OccurredAt:  at.UTC(),
	}
}
