package repository

import (
	"context"
	"fmt"

	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/repository/dao"
)

var (
	ErrSaleNotFound      = dao.ErrSaleNotFound
	ErrDraftNotFound     = dao.ErrDraftNotFound
	ErrInsufficientStock = dao.ErrInsufficientStock
)

// anonymousUsername is shown for sales whose actor is unset or deleted.
const anonymousUsername = "-"

type SaleDAO interface {
	Insert(ctx context.Context, sale dao.Sale, lines []dao.SaleLine, decrements []dao.StockDecrement) (dao.Sale, error)
	FindAllWithUsername(ctx context.Context) ([]dao.SaleWithUsername, error)
	FindByID(ctx context.Context, id uint) (dao.Sale, error)
	FindLines(ctx context.Context, saleID uint) ([]dao.SaleLineWithName, error)
}

type DraftDAO interface {
	Insert(ctx context.Context, draft dao.DraftSale) (dao.DraftSale, error)
	FindAll(ctx context.Context) ([]dao.DraftSale, error)
	FindByID(ctx context.Context, id uint) (dao.DraftSale, error)
	Delete(ctx context.Context, id uint) error
}

type SaleRepository struct {
	dao      SaleDAO
	draftDAO DraftDAO
}

func NewSaleRepository(saleDAO SaleDAO, draftDAO DraftDAO) *SaleRepository {
	return &SaleRepository{
		dao:      saleDAO,
		draftDAO: draftDAO,
	}
}

// CreateSale persists the sale header, its lines and the stock decrements
// atomically. Lines and decrements must already be validated.
func (r *SaleRepository) CreateSale(ctx context.Context, sale domain.Sale, lines []domain.SaleLine, items []domain.CartItem) (domain.Sale, error) {
	daoLines := make([]dao.SaleLine, len(lines))
	for i, l := range lines {
		daoLines[i] = dao.SaleLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		}
	}

	created, err := r.dao.Insert(ctx, dao.Sale{
		Reference:  sale.Reference,
		OccurredAt: sale.OccurredAt,
		Total:      sale.Total,
		UserID:     sale.UserID,
	}, daoLines, sumDecrements(items))
	if err != nil {
		return domain.Sale{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	sale.ID = created.ID

	return sale, nil
}

func (r *SaleRepository) FindAll(ctx context.Context) ([]domain.Sale, error) {
	rows, err := r.dao.FindAllWithUsername(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllWithUsername -> %w", err)
	}

	sales := make([]domain.Sale, len(rows))
	for i, row := range rows {
		username := anonymousUsername
		if row.Username != nil && *row.Username != "" {
			username = *row.Username
		}
		sales[i] = domain.Sale{
			ID:         row.ID,
			Reference:  row.Reference,
			OccurredAt: row.OccurredAt,
			Total:      row.Total,
			UserID:     row.UserID,
			Username:   username,
		}
	}

	return sales, nil
}

func (r *SaleRepository) FindLines(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error) {
	rows, err := r.dao.FindLines(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindLines -> %w", err)
	}

	details := make([]domain.SaleLineDetail, len(rows))
	for i, row := range rows {
		details[i] = domain.SaleLineDetail{
			ID:       row.ID,
			Name:     row.Name,
			Quantity: row.Quantity,
			Subtotal: row.Subtotal,
		}
	}

	return details, nil
}

func (r *SaleRepository) CreateDraft(ctx context.Context, draft domain.DraftSale) (domain.DraftSale, error) {
	daoLines := make([]dao.DraftLine, len(draft.Lines))
	for i, l := range draft.Lines {
		daoLines[i] = dao.DraftLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Subtotal:  l.Subtotal,
		}
	}

	created, err := r.draftDAO.Insert(ctx, dao.DraftSale{
		SavedAt: draft.SavedAt,
		Total:   draft.Total,
		UserID:  draft.UserID,
		Lines:   daoLines,
	})
	if err != nil {
		return domain.DraftSale{}, fmt.Errorf("r.draftDAO.Insert -> %w", err)
	}

	return r.draftDaoToDomain(created), nil
}

func (r *SaleRepository) FindAllDrafts(ctx context.Context) ([]domain.DraftSale, error) {
	found, err := r.draftDAO.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.draftDAO.FindAll -> %w", err)
	}

	drafts := make([]domain.DraftSale, len(found))
	for i, d := range found {
		drafts[i] = r.draftDaoToDomain(d)
	}

	return drafts, nil
}

func (r *SaleRepository) FindDraftByID(ctx context.Context, id uint) (domain.DraftSale, error) {
	found, err := r.draftDAO.FindByID(ctx, id)
	if err != nil {
		return domain.DraftSale{}, fmt.Errorf("r.draftDAO.FindByID -> %w", err)
	}

	return r.draftDaoToDomain(found), nil
}

func (r *SaleRepository) DeleteDraft(ctx context.Context, id uint) error {
	if err := r.draftDAO.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.draftDAO.Delete -> %w", err)
	}

	return nil
}

func (r *SaleRepository) draftDaoToDomain(d dao.DraftSale) domain.DraftSale {
	lines := make([]domain.DraftLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = domain.DraftLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Subtotal:  l.Subtotal,
		}
	}

	return domain.DraftSale{
		ID:      d.ID,
		SavedAt: d.SavedAt,
		Total:   d.Total,
		UserID:  d.UserID,
		Lines:   lines,
	}
}

// sumDecrements folds duplicate cart entries for the same product into a
// single decrement, keeping first-seen order.
func sumDecrements(items []domain.CartItem) []dao.StockDecrement {
	index := make(map[uint]int, len(items))
	decrements := make([]dao.StockDecrement, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			decrements[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(decrements)
		decrements = append(decrements, dao.StockDecrement{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return decrements
}
