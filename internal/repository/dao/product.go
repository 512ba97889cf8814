package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBarcodeExists   = errors.New("barcode already in use")
)

type Product struct {
	ID uint `gorm:"primaryKey"`

	Name     string  `gorm:"not null"`
	Price    float64 `gorm:"not null"`
	Stock    int     `gorm:"not null"`
	Category string

	// Barcode is optional but unique when present. A pointer keeps
	// absent barcodes out of the unique index.
	Barcode *string `gorm:"unique"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *ProductDAO {
	return &ProductDAO{
		db: db,
	}
}

func (d *ProductDAO) Insert(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		if isBarcodeViolation(result.Error) {
			return Product{}, ErrBarcodeExists
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByID(ctx context.Context, id uint) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByBarcode(ctx context.Context, barcode string) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindAll(ctx context.Context) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).Order("name asc").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) FindLowStock(ctx context.Context, limit int) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).
		Where("stock <= ?", limit).
		Order("name asc").
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) Update(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", product.ID).
		Select("Name", "Price", "Stock", "Category", "Barcode").
		Updates(&product)
	if result.Error != nil {
		if isBarcodeViolation(result.Error) {
			return Product{}, ErrBarcodeExists
		}

		return Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Product{}, ErrProductNotFound
	}

	return d.FindByID(ctx, product.ID)
}

func (d *ProductDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func isBarcodeViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		strings.Contains(pgErr.Message, `unique constraint "uni_products_barcode"`)
}
