package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrDraftNotFound = errors.New("draft not found")

type DraftSale struct {
	ID uint `gorm:"primaryKey"`

	SavedAt string  `gorm:"not null"` // "YYYY-MM-DD HH:MM:SS"
	Total   float64 `gorm:"not null"`
	UserID  *uint   `gorm:"index"`

	Lines []DraftLine `gorm:"foreignKey:DraftSaleID"`
}

// DraftLine snapshots name, price and subtotal at save time so later
// product edits do not rewrite stored drafts.
type DraftLine struct {
	ID uint `gorm:"primaryKey"`

	DraftSaleID uint    `gorm:"not null;index"`
	ProductID   uint
	Name        string
	Quantity    int     `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Subtotal    float64 `gorm:"not null"`
}

type DraftDAO struct {
	db *gorm.DB
}

func NewDraftDAO(db *gorm.DB) *DraftDAO {
	return &DraftDAO{
		db: db,
	}
}

func (d *DraftDAO) Insert(ctx context.Context, draft DraftSale) (DraftSale, error) {
	result := d.db.WithContext(ctx).Create(&draft)
	if result.Error != nil {
		return DraftSale{}, result.Error
	}

	return draft, nil
}

func (d *DraftDAO) FindAll(ctx context.Context) ([]DraftSale, error) {
	var drafts []DraftSale

	result := d.db.WithContext(ctx).
		Preload("Lines").
		Order("id desc").
		Find(&drafts)
	if result.Error != nil {
		return nil, result.Error
	}

	return drafts, nil
}

func (d *DraftDAO) FindByID(ctx context.Context, id uint) (DraftSale, error) {
	var draft DraftSale

	result := d.db.WithContext(ctx).Preload("Lines").First(&draft, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return DraftSale{}, ErrDraftNotFound
		}

		return DraftSale{}, result.Error
	}

	return draft, nil
}

func (d *DraftDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&DraftSale{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDraftNotFound
		}

		return tx.Where("draft_sale_id = ?", id).Delete(&DraftLine{}).Error
	})
}
