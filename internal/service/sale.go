package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/repository"
)

// timestampLayout is the persisted, sortable date-time format.
const timestampLayout = "2006-01-02 15:04:05"

var (
	ErrEmptyCart         = errors.New("the sale must contain at least one product")
	ErrDraftNotFound     = repository.ErrDraftNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// MalformedEntryError reports a cart entry whose product id or quantity
// could not be coerced to an integer.
type MalformedEntryError struct {
	Index int
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("cart entry %d is malformed", e.Index)
}

// InvalidQuantityError reports a cart entry with a non-positive quantity.
type InvalidQuantityError struct {
	Index int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("cart entry %d must have a quantity greater than 0", e.Index)
}

// ProductNotFoundError reports an unknown product id in the cart.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}

// InsufficientStockError reports a cart that asks for more units than the
// shelf holds. Requested is cumulative across duplicate entries for the
// same product.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q. Available: %d, requested: %d",
		e.ProductName, e.Available, e.Requested)
}

type SaleRepository interface {
	CreateSale(ctx context.Context, sale domain.Sale, lines []domain.SaleLine, items []domain.CartItem) (domain.Sale, error)
	FindAll(ctx context.Context) ([]domain.Sale, error)
	FindLines(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error)
	CreateDraft(ctx context.Context, draft domain.DraftSale) (domain.DraftSale, error)
	FindAllDrafts(ctx context.Context) ([]domain.DraftSale, error)
	FindDraftByID(ctx context.Context, id uint) (domain.DraftSale, error)
	DeleteDraft(ctx context.Context, id uint) error
}

type SaleProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type SaleService struct {
	repo     SaleRepository
	products SaleProductRepository
}

func NewSaleService(repo SaleRepository, products SaleProductRepository) *SaleService {
	return &SaleService{
		repo:     repo,
		products: products,
	}
}

// RegisterSale validates the cart, computes the total from current prices
// and persists the sale, its lines and the stock decrements in one
// transaction. On any validation error nothing is written.
//
// Validation fails fast, in cart order: empty cart, malformed entry,
// non-positive quantity, unknown product, insufficient stock. The stock
// check is cumulative, so duplicate entries for one product are measured
// against its stock together.
func (s *SaleService) RegisterSale(ctx context.Context, entries []domain.CartEntry, actorID *uint) (domain.Sale, error) {
	if len(entries) == 0 {
		return domain.Sale{}, ErrEmptyCart
	}

	var (
		total     float64
		items     = make([]domain.CartItem, 0, len(entries))
		lines     = make([]domain.SaleLine, 0, len(entries))
		requested = make(map[uint]int)
	)

	for i, entry := range entries {
		item, err := parseEntry(entry, i)
		if err != nil {
			return domain.Sale{}, err
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domain.Sale{}, &ProductNotFoundError{ProductID: int(item.ProductID)}
			}

			return domain.Sale{}, fmt.Errorf("s.products.FindByID -> %w", err)
		}

		requested[product.ID] += item.Quantity
		if product.Stock < requested[product.ID] {
			return domain.Sale{}, &InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   requested[product.ID],
			}
		}

		subtotal := product.Price * float64(item.Quantity)
		total += subtotal

		items = append(items, item)
		lines = append(lines, domain.SaleLine{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
	}

	sale := domain.Sale{
		Reference:  uuid.NewString(),
		OccurredAt: time.Now().Format(timestampLayout),
		Total:      total,
		UserID:     actorID,
	}

	created, err := s.repo.CreateSale(ctx, sale, lines, items)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("s.repo.CreateSale -> %w", err)
	}

	zap.L().Info("sale registered",
		zap.Uint("sale_id", created.ID),
		zap.Float64("total", created.Total),
		zap.Int("lines", len(lines)),
	)

	return created, nil
}

// SaveDraft persists a cart as a draft without validating or touching
// stock. Each line snapshots the product's current name and price;
// products that no longer exist are captured as "-" with a zero price.
func (s *SaleService) SaveDraft(ctx context.Context, entries []domain.CartEntry, actorID *uint) (domain.DraftSale, error) {
	if len(entries) == 0 {
		return domain.DraftSale{}, ErrEmptyCart
	}

	var (
		total float64
		lines = make([]domain.DraftLine, 0, len(entries))
	)

	for i, entry := range entries {
		item, err := parseEntry(entry, i)
		if err != nil {
			return domain.DraftSale{}, err
		}

		name := "-"
		var price float64

		product, err := s.products.FindByID(ctx, item.ProductID)
		switch {
		case err == nil:
			name = product.Name
			price = product.Price
		case !errors.Is(err, repository.ErrProductNotFound):
			return domain.DraftSale{}, fmt.Errorf("s.products.FindByID -> %w", err)
		}

		subtotal := price * float64(item.Quantity)
		total += subtotal

		lines = append(lines, domain.DraftLine{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
			Price:     price,
			Subtotal:  subtotal,
		})
	}

	draft := domain.DraftSale{
		SavedAt: time.Now().Format(timestampLayout),
		Total:   total,
		UserID:  actorID,
		Lines:   lines,
	}

	created, err := s.repo.CreateDraft(ctx, draft)
	if err != nil {
		return domain.DraftSale{}, fmt.Errorf("s.repo.CreateDraft -> %w", err)
	}

	zap.L().Info("draft saved",
		zap.Uint("draft_id", created.ID),
		zap.Float64("total", created.Total),
	)

	return created, nil
}

// ListSales returns all sales newest-first with the actor's username
// resolved ("-" for anonymous or deleted users).
func (s *SaleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return sales, nil
}

// GetSaleLines returns the line items of one sale with product names
// resolved. An unknown sale id yields an empty list.
func (s *SaleService) GetSaleLines(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error) {
	lines, err := s.repo.FindLines(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindLines -> %w", err)
	}

	return lines, nil
}

func (s *SaleService) ListDrafts(ctx context.Context) ([]domain.DraftSale, error) {
	drafts, err := s.repo.FindAllDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllDrafts -> %w", err)
	}

	return drafts, nil
}

func (s *SaleService) GetDraft(ctx context.Context, id uint) (domain.DraftSale, error) {
	draft, err := s.repo.FindDraftByID(ctx, id)
	if err != nil {
		return domain.DraftSale{}, fmt.Errorf("s.repo.FindDraftByID -> %w", err)
	}

	return draft, nil
}

func (s *SaleService) DeleteDraft(ctx context.Context, id uint) error {
	if err := s.repo.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteDraft -> %w", err)
	}

	return nil
}

func parseEntry(entry domain.CartEntry, index int) (domain.CartItem, error) {
	id, err := strconv.Atoi(strings.TrimSpace(entry.ProductID))
	if err != nil {
		return domain.CartItem{}, &MalformedEntryError{Index: index}
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(entry.Quantity))
	if err != nil {
		return domain.CartItem{}, &MalformedEntryError{Index: index}
	}

	if quantity <= 0 {
		return domain.CartItem{}, &InvalidQuantityError{Index: index}
	}

	if id <= 0 {
		return domain.CartItem{}, &ProductNotFoundError{ProductID: id}
	}

	return domain.CartItem{
		ProductID: uint(id),
		Quantity:  quantity,
	}, nil
}
