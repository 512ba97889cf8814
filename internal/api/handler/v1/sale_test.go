package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/puntoventa/pos-api/internal/repository"
	"github.com/puntoventa/pos-api/internal/repository/dao"
	"github.com/puntoventa/pos-api/internal/service"
)

func setupSaleRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	saleRepo := repository.NewSaleRepository(dao.NewSaleDAO(db), dao.NewDraftDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	handler := NewSaleHandler(service.NewSaleService(saleRepo, productRepo))

	router := gin.New()
	router.POST("/api/v1/sales", handler.HandleRegisterSale)
	router.GET("/api/v1/sales", handler.HandleListSales)

	return router, db
}

func seedSaleProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) {
	t.Helper()

	require.NoError(t, db.Create(&dao.Product{
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}).Error)
}

func postSale(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	return resp
}

func TestHandleRegisterSale(t *testing.T) {
	router, db := setupSaleRouter(t)
	seedSaleProduct(t, db, "Laptop", 1000, 10)

	resp := postSale(t, router, `{"items":[{"id":1,"quantity":3}]}`)

	require.Equal(t, http.StatusCreated, resp.Code)

	var body struct {
		Message string `json:"message"`
		Sale    struct {
			ID    uint    `json:"id"`
			Total float64 `json:"total"`
		} `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Sale registered successfully.", body.Message)
	assert.NotZero(t, body.Sale.ID)
	assert.Equal(t, 3000.0, body.Sale.Total)
}

func TestHandleRegisterSale_ErrorStatuses(t *testing.T) {
	router, db := setupSaleRouter(t)
	seedSaleProduct(t, db, "Laptop", 1000, 2)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "empty cart",
			body:       `{"items":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed entry",
			body:       `{"items":[{"id":"abc","quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero quantity",
			body:       `{"items":[{"id":1,"quantity":0}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown product",
			body:       `{"items":[{"id":999,"quantity":1}]}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "insufficient stock",
			body:       `{"items":[{"id":1,"quantity":5}]}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postSale(t, router, tt.body)

			assert.Equal(t, tt.wantStatus, resp.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleListSales_Pagination(t *testing.T) {
	router, db := setupSaleRouter(t)
	seedSaleProduct(t, db, "Laptop", 10, 100)

	for i := 0; i < 15; i++ {
		resp := postSale(t, router, `{"items":[{"id":1,"quantity":1}]}`)
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales?page=2&per_page=10", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Sales      []json.RawMessage `json:"sales"`
		Page       int               `json:"page"`
		PerPage    int               `json:"per_page"`
		TotalItems int               `json:"total_items"`
		TotalPages int               `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Sales, 5)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 10, body.PerPage)
	assert.Equal(t, 15, body.TotalItems)
	assert.Equal(t, 2, body.TotalPages)
}
