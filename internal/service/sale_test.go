package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/repository"
	"github.com/puntoventa/pos-api/internal/repository/dao"
)

func setupSaleService(t *testing.T) (*SaleService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	saleRepo := repository.NewSaleRepository(dao.NewSaleDAO(db), dao.NewDraftDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))

	return NewSaleService(saleRepo, productRepo), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) dao.Product {
	t.Helper()

	product := dao.Product{
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&product).Error)

	return product
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var product dao.Product
	require.NoError(t, db.First(&product, id).Error)

	return product.Stock
}

func TestRegisterSale(t *testing.T) {
	svc, db := setupSaleService(t)
	laptop := seedProduct(t, db, "Laptop", 1000, 10)

	sale, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "3"},
	}, nil)

	require.NoError(t, err)
	assert.NotZero(t, sale.ID)
	assert.NotEmpty(t, sale.Reference)
	assert.Equal(t, 3000.0, sale.Total)
	assert.Equal(t, 7, productStock(t, db, laptop.ID))

	lines, err := svc.GetSaleLines(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Laptop", lines[0].Name)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3000.0, lines[0].Subtotal)
}

func TestRegisterSale_EmptyCart(t *testing.T) {
	svc, _ := setupSaleService(t)

	_, err := svc.RegisterSale(context.Background(), nil, nil)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestRegisterSale_MalformedEntry(t *testing.T) {
	svc, db := setupSaleService(t)
	seedProduct(t, db, "Laptop", 1000, 10)

	_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "2"},
		{ProductID: "abc", Quantity: "1"},
	}, nil)

	var malformed *MalformedEntryError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Index)
}

func TestRegisterSale_InvalidQuantity(t *testing.T) {
	svc, db := setupSaleService(t)
	seedProduct(t, db, "Laptop", 1000, 10)

	_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "0"},
	}, nil)

	var invalid *InvalidQuantityError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, invalid.Index)
}

func TestRegisterSale_ProductNotFound(t *testing.T) {
	svc, _ := setupSaleService(t)

	_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "999", Quantity: "1"},
	}, nil)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 999, notFound.ProductID)
}

func TestRegisterSale_InsufficientStock(t *testing.T) {
	svc, db := setupSaleService(t)
	mouse := seedProduct(t, db, "Mouse", 25, 2)

	_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "5"},
	}, nil)

	var outOfStock *InsufficientStockError
	require.ErrorAs(t, err, &outOfStock)
	assert.Equal(t, "Mouse", outOfStock.ProductName)
	assert.Equal(t, 2, outOfStock.Available)
	assert.Equal(t, 5, outOfStock.Requested)

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&dao.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 2, productStock(t, db, mouse.ID))
}

func TestRegisterSale_ValidEntriesBeforeFailureAreNotApplied(t *testing.T) {
	svc, db := setupSaleService(t)
	laptop := seedProduct(t, db, "Laptop", 1000, 10)

	_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "2"},
		{ProductID: "999", Quantity: "1"},
	}, nil)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 10, productStock(t, db, laptop.ID))
}

func TestRegisterSale_DuplicateEntriesAreCumulative(t *testing.T) {
	svc, db := setupSaleService(t)
	mouse := seedProduct(t, db, "Mouse", 25, 5)

	t.Run("combined quantity over stock is rejected", func(t *testing.T) {
		_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
			{ProductID: "1", Quantity: "3"},
			{ProductID: "1", Quantity: "3"},
		}, nil)

		var outOfStock *InsufficientStockError
		require.ErrorAs(t, err, &outOfStock)
		assert.Equal(t, 6, outOfStock.Requested)
		assert.Equal(t, 5, productStock(t, db, mouse.ID))
	})

	t.Run("combined quantity within stock decrements once", func(t *testing.T) {
		sale, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
			{ProductID: "1", Quantity: "2"},
			{ProductID: "1", Quantity: "2"},
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 100.0, sale.Total)
		assert.Equal(t, 1, productStock(t, db, mouse.ID))
	})
}

func TestRegisterSale_WhitespaceTokensAreAccepted(t *testing.T) {
	svc, db := setupSaleService(t)
	laptop := seedProduct(t, db, "Laptop", 1000, 10)

	sale, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: " 1 ", Quantity: " 2 "},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2000.0, sale.Total)
	assert.Equal(t, 8, productStock(t, db, laptop.ID))
}

func TestListSales_ResolvesUsernames(t *testing.T) {
	svc, db := setupSaleService(t)
	seedProduct(t, db, "Laptop", 1000, 10)

	user := dao.User{Name: "Alice", Username: "alice", Password: "x", Role: domain.RoleSeller}
	require.NoError(t, db.Create(&user).Error)

	_, err := svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "1"},
	}, &user.ID)
	require.NoError(t, err)

	_, err = svc.RegisterSale(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "1"},
	}, nil)
	require.NoError(t, err)

	sales, err := svc.ListSales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 2)

	// Newest first; the anonymous sale was registered last.
	assert.Equal(t, "-", sales[0].Username)
	assert.Equal(t, "alice", sales[1].Username)
}

func TestSaveDraft_SnapshotsCurrentPrices(t *testing.T) {
	svc, db := setupSaleService(t)
	laptop := seedProduct(t, db, "Laptop", 1000, 10)

	draft, err := svc.SaveDraft(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "2"},
	}, nil)

	require.NoError(t, err)
	assert.NotZero(t, draft.ID)
	assert.Equal(t, 2000.0, draft.Total)
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "Laptop", draft.Lines[0].Name)
	assert.Equal(t, 1000.0, draft.Lines[0].Price)

	// Stock is untouched.
	assert.Equal(t, 10, productStock(t, db, laptop.ID))

	// A later price change does not rewrite the snapshot.
	require.NoError(t, db.Model(&dao.Product{}).Where("id = ?", laptop.ID).
		UpdateColumn("price", 1500).Error)

	reloaded, err := svc.GetDraft(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, reloaded.Lines[0].Price)
	assert.Equal(t, 2000.0, reloaded.Total)
}

func TestSaveDraft_MissingProductBecomesPlaceholder(t *testing.T) {
	svc, _ := setupSaleService(t)

	draft, err := svc.SaveDraft(context.Background(), []domain.CartEntry{
		{ProductID: "42", Quantity: "3"},
	}, nil)

	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "-", draft.Lines[0].Name)
	assert.Zero(t, draft.Lines[0].Price)
	assert.Zero(t, draft.Total)
}

func TestDeleteDraft(t *testing.T) {
	svc, db := setupSaleService(t)
	seedProduct(t, db, "Laptop", 1000, 10)

	draft, err := svc.SaveDraft(context.Background(), []domain.CartEntry{
		{ProductID: "1", Quantity: "1"},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDraft(context.Background(), draft.ID))

	_, err = svc.GetDraft(context.Background(), draft.ID)
	assert.True(t, errors.Is(err, ErrDraftNotFound))

	// Lines are gone with the header.
	var count int64
	require.NoError(t, db.Model(&dao.DraftLine{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteDraft_Unknown(t *testing.T) {
	svc, _ := setupSaleService(t)

	err := svc.DeleteDraft(context.Background(), 123)

	assert.ErrorIs(t, err, ErrDraftNotFound)
}
