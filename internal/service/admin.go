package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/shop-bot/internal/config"
	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/lib/money"
	"github.com/linemk/shop-bot/internal/storage"
)

// NewProduct - данные команды добавления товара; цена в основных единицах валюты
type NewProduct struct {
	Title        string
	Description  string
	Price        string
	CategoryName string
	PhotoURL     string
}

type AdminService interface {
	IsAdmin(chatID int64) bool
	// AddCategory возвращает существующую категорию с тем же именем, created = false
	AddCategory(ctx context.Context, name string) (cat *models.Category, created bool, err error)
	AddProduct(ctx context.Context, in NewProduct) (*models.Product, error)
	// EditProduct меняет одно поле из набора title, description, price, active, category, photo
	EditProduct(ctx context.Context, productID int64, field, value string) error
}

// fieldSetter переводит ввод админа в колонку и типизированное значение
type fieldSetter func(ctx context.Context, tx *sql.Tx, value string) (storage.ProductColumn, any, error)

type adminService struct {
	log          *slog.Logger
	db           *sql.DB
	shop         config.ShopConfig
	categoryRepo storage.CategoryStorage
	productRepo  storage.ProductStorage
	fields       map[string]fieldSetter
}

func NewAdminService(log *slog.Logger, db *sql.DB, shop config.ShopConfig, categoryRepo storage.CategoryStorage, productRepo storage.ProductStorage) AdminService {
	s := &adminService{
		log:          log,
		db:           db,
		shop:         shop,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
	s.fields = map[string]fieldSetter{
		"title":       s.setTitle,
		"description": s.setDescription,
		"price":       s.setPrice,
		"active":      s.setActive,
		"category":    s.setCategory,
		"photo":       s.setPhoto,
	}
	return s
}

func (s *adminService) IsAdmin(chatID int64) bool {
	return s.shop.IsAdmin(chatID)
}

func (s *adminService) AddCategory(ctx context.Context, name string) (*models.Category, bool, error) {
	const op = "service.AdminService.AddCategory"
	logger := s.log.With(slog.String("op", op))

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("%s: empty category name: %w", op, ErrInvalidValue)
	}

	var (
		cat     *models.Category
		created bool
	)
	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		var err error
		cat, created, err = s.categoryRepo.EnsureCategory(ctx, tx, name)
		return err
	})
	if err != nil {
		logger.Error("failed to add category", slog.Any("error", err))
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("category ensured", slog.Int64("categoryID", cat.ID), slog.Bool("created", created))
	return cat, created, nil
}

func (s *adminService) AddProduct(ctx context.Context, in NewProduct) (*models.Product, error) {
	const op = "service.AdminService.AddProduct"
	logger := s.log.With(slog.String("op", op))

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: empty title: %w", op, ErrInvalidValue)
	}
	price, err := s.parsePrice(in.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product := &models.Product{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		PriceCents:  price,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		IsActive:    true,
	}

	err = runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		if name := strings.TrimSpace(in.CategoryName); name != "" {
			cat, _, err := s.categoryRepo.EnsureCategory(ctx, tx, name)
			if err != nil {
				return fmt.Errorf("failed to ensure category: %w", err)
			}
			product.CategoryID = &cat.ID
		}
		var err error
		product, err = s.productRepo.CreateProduct(ctx, tx, product)
		return err
	})
	if err != nil {
		logger.Error("failed to add product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product added", slog.Int64("productID", product.ID))
	return product, nil
}

func (s *adminService) EditProduct(ctx context.Context, productID int64, field, value string) error {
	const op = "service.AdminService.EditProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID), slog.String("field", field))

	setter, ok := s.fields[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return fmt.Errorf("%s: %q: %w", op, field, ErrUnknownField)
	}

	err := runInTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		column, v, err := setter(ctx, tx, strings.TrimSpace(value))
		if err != nil {
			return err
		}
		return s.productRepo.UpdateProductColumn(ctx, tx, productID, column, v)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidValue), errors.Is(err, storage.ErrProductNotFound):
			logger.Info("product not edited", slog.Any("reason", err))
		default:
			logger.Error("failed to edit product", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product edited")
	return nil
}

func (s *adminService) parsePrice(value string) (int64, error) {
	price, err := money.ParseMajor(value, s.shop.CurrencyExponent)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w: %w", value, ErrInvalidValue, err)
	}
	return price, nil
}

func (s *adminService) setTitle(_ context.Context, _ *sql.Tx, value string) (storage.ProductColumn, any, error) {
	if value == "" {
		return "", nil, fmt.Errorf("empty title: %w", ErrInvalidValue)
	}
	return storage.ColumnTitle, value, nil
}

func (s *adminService) setDescription(_ context.Context, _ *sql.Tx, value string) (storage.ProductColumn, any, error) {
	return storage.ColumnDescription, value, nil
}

func (s *adminService) setPrice(_ context.Context, _ *sql.Tx, value string) (storage.ProductColumn, any, error) {
	price, err := s.parsePrice(value)
	if err != nil {
		return "", nil, err
	}
	return storage.ColumnPrice, price, nil
}

func (s *adminService) setActive(_ context.Context, _ *sql.Tx, value string) (storage.ProductColumn, any, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return storage.ColumnActive, true, nil
	case "0", "false", "no", "off":
		return storage.ColumnActive, false, nil
	}
	return "", nil, fmt.Errorf("active %q: %w", value, ErrInvalidValue)
}

func (s *adminService) setCategory(ctx context.Context, tx *sql.Tx, value string) (storage.ProductColumn, any, error) {
	if value == "" {
		return "", nil, fmt.Errorf("empty category: %w", ErrInvalidValue)
	}
	cat, _, err := s.categoryRepo.EnsureCategory(ctx, tx, value)
	if err != nil {
		return "", nil, fmt.Errorf("failed to ensure category: %w", err)
	}
	return storage.ColumnCategory, cat.ID, nil
}

func (s *adminService) setPhoto(_ context.Context, _ *sql.Tx, value string) (storage.ProductColumn, any, error) {
	// "-" убирает фото
	if value == "-" {
		return storage.ColumnPhoto, nil, nil
	}
	return storage.ColumnPhoto, value, nil
}
