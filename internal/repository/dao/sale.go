package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInsufficientStock is returned when the guarded stock decrement
	// inside the sale transaction affects no rows, i.e. another checkout
	// won the race since validation.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Sale struct {
	ID uint `gorm:"primaryKey"`

	Reference  string  `gorm:"not null"`
	OccurredAt string  `gorm:"not null;index"` // "YYYY-MM-DD HH:MM:SS", sortable
	Total      float64 `gorm:"not null"`
	UserID     *uint   `gorm:"index"`
}

type SaleLine struct {
	ID uint `gorm:"primaryKey"`

	SaleID    uint    `gorm:"not null;index"`
	ProductID uint    `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
	Subtotal  float64 `gorm:"not null"`
}

// StockDecrement is one product's summed quantity within a checkout.
type StockDecrement struct {
	ProductID uint
	Quantity  int
}

// SaleWithUsername is a sale row joined with its actor's username.
// Username is nil when the sale is anonymous or the user was deleted.
type SaleWithUsername struct {
	ID         uint
	Reference  string
	OccurredAt string
	Total      float64
	UserID     *uint
	Username   *string
}

// SaleLineWithName is a sale line joined with the product name.
type SaleLineWithName struct {
	ID       uint
	Name     string
	Quantity int
	Subtotal float64
}

type SaleDAO struct {
	db *gorm.DB
}

func NewSaleDAO(db *gorm.DB) *SaleDAO {
	return &SaleDAO{
		db: db,
	}
}

// Insert persists a sale header, its lines, and the stock decrements in
// one transaction. Every decrement is guarded: it only applies while the
// product still holds enough stock, so a concurrent checkout that drained
// the shelf since validation rolls the whole sale back instead of
// overselling.
func (d *SaleDAO) Insert(ctx context.Context, sale Sale, lines []SaleLine, decrements []StockDecrement) (Sale, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].SaleID = sale.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		for _, dec := range decrements {
			result := tx.Model(&Product{}).
				Where("id = ? AND stock >= ?", dec.ProductID, dec.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", dec.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		return nil
	})
	if err != nil {
		return Sale{}, err
	}

	return sale, nil
}

func (d *SaleDAO) FindAllWithUsername(ctx context.Context) ([]SaleWithUsername, error) {
	var rows []SaleWithUsername

	result := d.db.WithContext(ctx).
		Table("sales").
		Select("sales.id, sales.reference, sales.occurred_at, sales.total, sales.user_id, users.username").
		Joins("LEFT JOIN users ON users.id = sales.user_id").
		Order("sales.occurred_at DESC, sales.id DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *SaleDAO) FindByID(ctx context.Context, id uint) (Sale, error) {
	var sale Sale

	result := d.db.WithContext(ctx).First(&sale, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Sale{}, ErrSaleNotFound
		}

		return Sale{}, result.Error
	}

	return sale, nil
}

func (d *SaleDAO) FindLines(ctx context.Context, saleID uint) ([]SaleLineWithName, error) {
	var rows []SaleLineWithName

	result := d.db.WithContext(ctx).
		Table("sale_lines").
		Select("sale_lines.id, products.name, sale_lines.quantity, sale_lines.subtotal").
		Joins("JOIN products ON products.id = sale_lines.product_id").
		Where("sale_lines.sale_id = ?", saleID).
		Order("sale_lines.id ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
