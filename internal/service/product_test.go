package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/repository"
	"github.com/puntoventa/pos-api/internal/repository/dao"
)

func setupProductService(t *testing.T) *ProductService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	return NewProductService(repository.NewProductRepository(dao.NewProductDAO(db)))
}

func TestProductService_CreateAndGet(t *testing.T) {
	svc := setupProductService(t)

	created, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:     "Laptop",
		Price:    1000,
		Stock:    10,
		Category: "electronics",
		Barcode:  "7501000000001",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", found.Name)
	assert.Equal(t, 1000.0, found.Price)
	assert.Equal(t, "7501000000001", found.Barcode)
}

func TestProductService_Get_NotFound(t *testing.T) {
	svc := setupProductService(t)

	_, err := svc.GetProduct(context.Background(), 99)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetByBarcode(t *testing.T) {
	svc := setupProductService(t)

	_, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:    "Soda",
		Price:   2.5,
		Stock:   40,
		Barcode: "7501000000002",
	})
	require.NoError(t, err)

	found, err := svc.GetProductByBarcode(context.Background(), "7501000000002")
	require.NoError(t, err)
	assert.Equal(t, "Soda", found.Name)

	_, err = svc.GetProductByBarcode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_List_OrderedByName(t *testing.T) {
	svc := setupProductService(t)

	for _, name := range []string{"Zucchini", "Apple", "Milk"} {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Name: name, Price: 1, Stock: 1})
		require.NoError(t, err)
	}

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Apple", products[0].Name)
	assert.Equal(t, "Milk", products[1].Name)
	assert.Equal(t, "Zucchini", products[2].Name)
}

func TestProductService_ListLowStock(t *testing.T) {
	svc := setupProductService(t)

	_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Scarce", Price: 1, Stock: 3})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), domain.Product{Name: "Plenty", Price: 1, Stock: 50})
	require.NoError(t, err)

	t.Run("explicit limit", func(t *testing.T) {
		products, err := svc.ListLowStock(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		products, err := svc.ListLowStock(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Scarce", products[0].Name)
	})
}

func TestProductService_Update(t *testing.T) {
	svc := setupProductService(t)

	created, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Laptop", Price: 1000, Stock: 10})
	require.NoError(t, err)

	created.Price = 900
	created.Stock = 12
	updated, err := svc.UpdateProduct(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, 900.0, updated.Price)
	assert.Equal(t, 12, updated.Stock)
}

func TestProductService_Update_NotFound(t *testing.T) {
	svc := setupProductService(t)

	_, err := svc.UpdateProduct(context.Background(), domain.Product{ID: 99, Name: "Ghost"})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Delete(t *testing.T) {
	svc := setupProductService(t)

	created, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Laptop", Price: 1000, Stock: 10})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	_, err = svc.GetProduct(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), created.ID), ErrProductNotFound)
}
