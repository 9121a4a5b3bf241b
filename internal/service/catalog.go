package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/storage"
)

const defaultPageSize = 6

// ProductPage - страница товаров категории
type ProductPage struct {
	CategoryID int64
	Products   []models.Product
	Page       int
	TotalPages int
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	// ListProducts: page < 1 считается первой страницей, страница за пределами - пустой список
	ListProducts(ctx context.Context, categoryID int64, page int) (*ProductPage, error)
	// GetProduct возвращает storage.ErrProductNotFound и для неактивного товара
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type catalogService struct {
	log          *slog.Logger
	categoryRepo storage.CategoryStorage
	productRepo  storage.ProductStorage
	pageSize     int
}

func NewCatalogService(log *slog.Logger, categoryRepo storage.CategoryStorage, productRepo storage.ProductStorage, pageSize int) CatalogService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &catalogService{
		log:          log,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		pageSize:     pageSize,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "service.CatalogService.ListCategories"

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *catalogService) ListProducts(ctx context.Context, categoryID int64, page int) (*ProductPage, error) {
	const op = "service.CatalogService.ListProducts"
	logger := s.log.With(slog.String("op", op), slog.Int64("categoryID", categoryID))

	if page < 1 {
		page = 1
	}

	count, err := s.productRepo.CountActiveByCategory(ctx, categoryID)
	if err != nil {
		logger.Error("failed to count products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to count products: %w", op, err)
	}

	result := &ProductPage{
		CategoryID: categoryID,
		Page:       page,
		TotalPages: totalPages(count, s.pageSize),
	}
	// страница за пределами каталога пуста; смещение для неё не считаем, чтобы не переполнить int
	if page > result.TotalPages {
		return result, nil
	}

	products, err := s.productRepo.ListActiveByCategory(ctx, categoryID, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		logger.Error("failed to list products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	result.Products = products
	return result, nil
}

// totalPages = ceil(count / size), минимум 1
func totalPages(count, size int) int {
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetActiveProduct(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			s.log.Error("failed to get product", slog.String("op", op), slog.Int64("productID", id), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}
