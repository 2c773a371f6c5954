package router

import (
	"time"

	"retailing/internal/config"
	"retailing/internal/handler"
	"retailing/internal/infra"
	"retailing/internal/middleware"
	"retailing/internal/repository"
	"retailing/internal/service"
	"retailing/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries the process-wide infrastructure built by the composition root.
// Rdb and Mailer may be nil; the API then runs without cache and notifications.
type Deps struct {
	DB         *gorm.DB
	Rdb        *redis.Client
	Mailer     *infra.Mailer
	Metrics    *infra.Metrics
	Dispatcher *worker.Dispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter("global", 1000, time.Minute).Middleware()) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(d.DB)
	supplierRepo := repository.NewSupplierRepository(d.DB)
	countryRepo := repository.NewCountryRepository(d.DB)
	categoryRepo := repository.NewCategoryRepository(d.DB)
	productRepo := repository.NewProductRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)
	warehouseRepo := repository.NewWarehouseRepository(d.DB)
	payableRepo := repository.NewPayableRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	identitySvc := service.NewIdentityService(userRepo)
	authSvc := service.NewAuthService(userRepo, supplierRepo, cfg)
	supplierSvc := service.NewSupplierService(supplierRepo, userRepo, countryRepo)
	countrySvc := service.NewCountryService(countryRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo)
	inventory := service.NewInventoryLedger(warehouseRepo)
	payables := service.NewPayableLedger(payableRepo)
	orderSvc := service.NewOrderService(orderRepo, supplierRepo, productRepo, inventory, payables, d.Dispatcher, d.Metrics)
	reconciler := service.NewReconciler(orderRepo, warehouseRepo, d.Metrics)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	countriesH := handler.NewCountriesHandler(countrySvc, d.Rdb, time.Duration(cfg.CountryCacheTTLMinutes)*time.Minute)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	ledgerH := handler.NewLedgerHandler(inventory, payables, reconciler)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Rdb, d.Mailer))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	loginLimiter := middleware.NewRateLimiter("login", 5, time.Minute)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}
	r.POST("/v1/users/register", loginLimiter.Middleware(), authH.Register)

	pub := r.Group("/v1")
	{
		pub.GET("/countries", countriesH.List)
		pub.GET("/countries/:id", countriesH.Get)
		pub.GET("/suppliers", suppliersH.List)
		pub.GET("/suppliers/:id", suppliersH.Get)
		pub.GET("/categories", categoriesH.List)
		pub.GET("/categories/:id", categoriesH.Get)
		pub.GET("/products", productsH.List)
		pub.GET("/products/:id", productsH.Get)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret, identitySvc))
	{
		users := v1.Group("/users")
		{
			users.GET("", middleware.RequireSuperuser(), authH.ListUsers)
			users.GET("/:id", authH.GetUser)
			users.PATCH("/:id", authH.UpdateUser)
			users.DELETE("/:id", middleware.RequireSuperuser(), authH.DeleteUser)
		}

		// Registration is open to any authenticated user; the gate itself
		// rejects callers who already belong to a supplier.
		v1.POST("/suppliers", suppliersH.Register)
		v1.PATCH("/suppliers/:id", suppliersH.Update)
		v1.DELETE("/suppliers/:id", suppliersH.Delete)

		v1.POST("/categories", categoriesH.Create)
		v1.PUT("/categories/:id", categoriesH.Update)
		v1.DELETE("/categories/:id", categoriesH.Delete)

		v1.POST("/products", productsH.Create)
		v1.PATCH("/products/:id", productsH.Update)
		v1.DELETE("/products/:id", productsH.Delete)

		// Orders are immutable for every authenticated caller, administrators included.
		v1.PUT("/orders/:id", ordersH.Update)
		v1.PATCH("/orders/:id", ordersH.Update)
		v1.DELETE("/orders/:id", ordersH.Delete)

		trading := v1.Group("", middleware.RequireTradingParty())
		{
			trading.POST("/orders", ordersH.Submit)
			trading.GET("/orders", ordersH.List)
			trading.GET("/orders/:id", ordersH.Get)
			trading.GET("/orders/:id/receipt", ordersH.Receipt)

			trading.GET("/warehouse", ledgerH.ListWarehouse)
			trading.GET("/warehouse/:id", ledgerH.GetWarehouse)
			trading.GET("/payables", ledgerH.ListPayables)
			trading.GET("/payables/:id", ledgerH.GetPayable)
			for _, ro := range []string{"/warehouse", "/payables"} {
				trading.POST(ro, handler.NotPermitted)
				trading.PUT(ro+"/:id", handler.NotPermitted)
				trading.PATCH(ro+"/:id", handler.NotPermitted)
				trading.DELETE(ro+"/:id", handler.NotPermitted)
			}
		}

		admin := v1.Group("/admin", middleware.RequireSuperuser())
		{
			admin.GET("/payables", ledgerH.AdminListPayables)
			admin.POST("/payables/:id/settle", ledgerH.SettlePayable)
			admin.POST("/reconcile", ledgerH.Reconcile)
		}
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
