package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/storage"
)

// CartService - корзина пользователя. Каждый вызов - одна транзакция,
// в начале которой пользователь создаётся при первом обращении.
type CartService interface {
	EnsureUser(ctx context.Context, chatID int64) (*models.User, error)
	// AddToCart никогда не удаляет строку: количество не опускается ниже 1
	AddToCart(ctx context.Context, chatID, productID int64, qty int) error
	// ChangeQty удаляет строку, если количество стало <= 0; нет строки - ничего не делает
	ChangeQty(ctx context.Context, chatID, productID int64, delta int) error
	RemoveFromCart(ctx context.Context, chatID, productID int64) error
	GetCart(ctx context.Context, chatID int64) ([]models.CartLine, error)
}

// MaxCartQuantity - предел колонки cart_items.quantity (INTEGER)
const MaxCartQuantity = math.MaxInt32

type cartService struct {
	log         *slog.Logger
	db          *sql.DB
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
	cartRepo    storage.CartStorage
}

func NewCartService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, productRepo storage.ProductStorage, cartRepo storage.CartStorage) CartService {
	return &cartService{
		log:         log,
		db:          db,
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func (s *cartService) EnsureUser(ctx context.Context, chatID int64) (*models.User, error) {
	const op = "service.CartService.EnsureUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("chatID", chatID))

	var user *models.User
	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		var err error
		user, err = s.userRepo.EnsureUser(ctx, tx, chatID)
		return err
	})
	if err != nil {
		logger.Error("failed to ensure user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *cartService) AddToCart(ctx context.Context, chatID, productID int64, qty int) error {
	const op = "service.CartService.AddToCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("chatID", chatID), slog.Int64("productID", productID))

	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		user, err := s.userRepo.EnsureUser(ctx, tx, chatID)
		if err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}
		// неактивный товар в корзину не попадает
		if _, err := s.productRepo.GetActiveProductTx(ctx, tx, productID); err != nil {
			return err
		}
		return s.cartRepo.UpsertCartItem(ctx, tx, user.ID, productID, clampQuantity(qty))
	})
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Info("product not available")
		} else {
			logger.Error("failed to add to cart", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Debug("added to cart", slog.Int("qty", qty))
	return nil
}

func (s *cartService) ChangeQty(ctx context.Context, chatID, productID int64, delta int) error {
	const op = "service.CartService.ChangeQty"
	logger := s.log.With(slog.String("op", op), slog.Int64("chatID", chatID), slog.Int64("productID", productID))

	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		user, err := s.userRepo.EnsureUser(ctx, tx, chatID)
		if err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}

		qty, err := s.cartRepo.LockCartQuantity(ctx, tx, user.ID, productID)
		if err != nil {
			if errors.Is(err, storage.ErrCartItemNotFound) {
				return nil
			}
			return err
		}

		qty = addQuantity(qty, delta)
		if qty <= 0 {
			return s.cartRepo.DeleteCartItem(ctx, tx, user.ID, productID)
		}
		return s.cartRepo.UpdateCartQuantity(ctx, tx, user.ID, productID, qty)
	})
	if err != nil {
		logger.Error("failed to change quantity", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// addQuantity складывает без переполнения: рост упирается в MaxCartQuantity
func addQuantity(qty, delta int) int {
	if delta > 0 && qty > MaxCartQuantity-delta {
		return MaxCartQuantity
	}
	return qty + delta
}

func clampQuantity(qty int) int {
	return max(-MaxCartQuantity, min(qty, MaxCartQuantity))
}

func (s *cartService) RemoveFromCart(ctx context.Context, chatID, productID int64) error {
	const op = "service.CartService.RemoveFromCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("chatID", chatID), slog.Int64("productID", productID))

	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		user, err := s.userRepo.EnsureUser(ctx, tx, chatID)
		if err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}
		return s.cartRepo.DeleteCartItem(ctx, tx, user.ID, productID)
	})
	if err != nil {
		logger.Error("failed to remove from cart", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *cartService) GetCart(ctx context.Context, chatID int64) ([]models.CartLine, error) {
	const op = "service.CartService.GetCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("chatID", chatID))

	var lines []models.CartLine
	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		user, err := s.userRepo.EnsureUser(ctx, tx, chatID)
		if err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}
		lines, err = s.cartRepo.ListCartLines(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}
