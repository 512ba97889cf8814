package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/repository"
)

var (
	ErrProductNotFound = repository.ErrProductNotFound
	ErrBarcodeExists   = repository.ErrBarcodeExists
)

// defaultLowStockLimit mirrors the inventory view's default threshold.
const defaultLowStockLimit = 5

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindLowStock(ctx context.Context, limit int) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id uint) error
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("product created", zap.Uint("product_id", created.ID), zap.String("name", created.Name))

	return created, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return product, nil
}

func (s *ProductService) GetProductByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	product, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindByBarcode -> %w", err)
	}

	return product, nil
}

// ListProducts returns the whole catalog ordered by name.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return products, nil
}

// ListLowStock returns products at or below the limit. A non-positive
// limit falls back to the default threshold.
func (s *ProductService) ListLowStock(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultLowStockLimit
	}

	products, err := s.repo.FindLowStock(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindLowStock -> %w", err)
	}

	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	zap.L().Info("product deleted", zap.Uint("product_id", id))

	return nil
}
