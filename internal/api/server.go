package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/puntoventa/pos-api/docs"
	v1 "github.com/puntoventa/pos-api/internal/api/handler/v1"
	"github.com/puntoventa/pos-api/internal/api/middleware"
	"github.com/puntoventa/pos-api/internal/config"
	"github.com/puntoventa/pos-api/internal/repository"
	"github.com/puntoventa/pos-api/internal/repository/dao"
	"github.com/puntoventa/pos-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	productHandler := s.initProductHandler(db)
	saleHandler := s.initSaleHandler(db)
	reportHandler := s.initReportHandler(db)
	s.MountHandlers(authHandler, userHandler, productHandler, saleHandler, reportHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initProductHandler(db *gorm.DB) *v1.ProductHandler {
	productDAO := dao.NewProductDAO(db)
	repo := repository.NewProductRepository(productDAO)
	svc := service.NewProductService(repo)
	handler := v1.NewProductHandler(svc)

	return handler
}

func (s *Server) initSaleHandler(db *gorm.DB) *v1.SaleHandler {
	saleRepo := repository.NewSaleRepository(dao.NewSaleDAO(db), dao.NewDraftDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	svc := service.NewSaleService(saleRepo, productRepo)
	handler := v1.NewSaleHandler(svc)

	return handler
}

func (s *Server) initReportHandler(db *gorm.DB) *v1.ReportHandler {
	saleRepo := repository.NewSaleRepository(dao.NewSaleDAO(db), dao.NewDraftDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	svc := service.NewSaleService(saleRepo, productRepo)
	handler := v1.NewReportHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	productHandler *v1.ProductHandler,
	saleHandler *v1.SaleHandler,
	reportHandler *v1.ReportHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	products := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		products.GET("/products", productHandler.HandleListProducts)
		products.GET("/products/low-stock", productHandler.HandleListLowStock)
		products.GET("/products/barcode/:barcode", productHandler.HandleGetProductByBarcode)
		products.GET("/products/:productID", productHandler.HandleGetProduct)
		products.POST("/products", productHandler.HandleCreateProduct)
		products.PUT("/products/:productID", productHandler.HandleUpdateProduct)
	}

	sales := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		sales.GET("/sales", saleHandler.HandleListSales)
		sales.GET("/sales/:saleID/lines", saleHandler.HandleGetSaleLines)
		sales.POST("/sales", saleHandler.HandleRegisterSale)
		sales.GET("/drafts", saleHandler.HandleListDrafts)
		sales.GET("/drafts/:draftID", saleHandler.HandleGetDraft)
		sales.POST("/drafts", saleHandler.HandleSaveDraft)
		sales.DELETE("/drafts/:draftID", saleHandler.HandleDeleteDraft)
	}

	reports := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		reports.GET("/reports/summary", reportHandler.HandleSummary)
		reports.GET("/reports/daily", reportHandler.HandleDaily)
		reports.GET("/reports/monthly", reportHandler.HandleMonthly)
		reports.GET("/reports/weekly", reportHandler.HandleWeekly)
		reports.GET("/reports/top-products", reportHandler.HandleTopProducts)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireAdmin())
	{
		admin.GET("/users", userHandler.HandleListUsers)
		admin.GET("/users/:userID", userHandler.HandleGetUser)
		admin.PUT("/users/:userID", userHandler.HandleUpdateUser)
		admin.DELETE("/users/:userID", userHandler.HandleDeleteUser)
		admin.DELETE("/products/:productID", productHandler.HandleDeleteProduct)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Point of Sale API"
	docs.SwaggerInfo.Description = "Sales, inventory and reporting API for small shops."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
