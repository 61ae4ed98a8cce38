package httpserver

import (
	"context"
	"net/http"
	"time"

	"mini-shop/internal/domain"
	"mini-shop/internal/ratelimit"
	authsvc "mini-shop/internal/service/auth"
	bannersvc "mini-shop/internal/service/banner"
	cartsvc "mini-shop/internal/service/cart"
	categorysvc "mini-shop/internal/service/category"
	ordersvc "mini-shop/internal/service/order"
	productsvc "mini-shop/internal/service/product"
	usersvc "mini-shop/internal/service/user"
	"mini-shop/internal/telemetry"
	"mini-shop/internal/upload"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type authService interface {
	WechatLogin(ctx context.Context, in authsvc.WechatLoginInput) (*authsvc.Session, error)
	Register(ctx context.Context, in authsvc.RegisterInput) (*authsvc.Session, error)
	Login(ctx context.Context, in authsvc.LoginInput) (*authsvc.Session, error)
	Logout(ctx context.Context, claims *authsvc.Claims) error
	Me(ctx context.Context, userID string) (*domain.User, error)
	Authenticate(ctx context.Context, raw string) (*domain.User, *authsvc.Claims, error)
}

type catalogService interface {
	List(ctx context.Context, q productsvc.ListQuery) (*productsvc.Page, error)
	Recommended(ctx context.Context) ([]domain.Product, error)
	ByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Detail(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]domain.Product, error)
}

type cartService interface {
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.CartLine, error)
	List(ctx context.Context, userID string) ([]domain.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, cartID string, quantity int) (*domain.CartLine, error)
	Remove(ctx context.Context, userID, cartID string) error
	RemoveMany(ctx context.Context, userID string, cartIDs []string) (int64, error)
}

type userService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in usersvc.ProfileInput) (*domain.User, error)
	Addresses(ctx context.Context, userID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, userID string, in usersvc.AddressInput) ([]domain.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, in usersvc.AddressInput) ([]domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error)
	SetDefaultAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error)
}

type categoryService interface {
	Create(ctx context.Context, in categorysvc.CreateInput) (*domain.Category, error)
	ListByShop(ctx context.Context, shopID string) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, id string, in categorysvc.UpdateInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, active bool) (*domain.Category, error)
}

type orderService interface {
	Create(ctx context.Context, userID string, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, caller domain.User, orderID string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string, page, limit int) (*ordersvc.Page, error)
	ListForShop(ctx context.Context, caller domain.User, status domain.OrderStatus, page, limit int) (*ordersvc.Page, error)
	UpdateStatus(ctx context.Context, caller domain.User, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdatePayment(ctx context.Context, userID, orderID string, status domain.PaymentStatus) (*domain.Order, error)
}

type bannerService interface {
	ListActive(ctx context.Context) ([]domain.Banner, error)
	ListAll(ctx context.Context) ([]domain.Banner, error)
	Get(ctx context.Context, id string) (*domain.Banner, error)
	Create(ctx context.Context, in bannersvc.Input) (*domain.Banner, error)
	Update(ctx context.Context, id string, in bannersvc.Input) (*domain.Banner, error)
	Delete(ctx context.Context, id string) error
}

type shopService interface {
	List(ctx context.Context) ([]domain.Shop, error)
	Get(ctx context.Context, id string) (*domain.Shop, error)
}

type fileStorage interface {
	Save(src upload.Source) (*upload.File, error)
	SaveMany(srcs []upload.Source) ([]upload.File, error)
	Delete(name string) error
	Dir() string
	MaxBytes() int64
}

type rateLimiter interface {
	Allow(ctx context.Context, id string) (ratelimit.Result, error)
}

// Deps groups the services the router dispatches to.
type Deps struct {
	Auth       authService
	Catalog    catalogService
	Cart       cartService
	Users      userService
	Categories categoryService
	Orders     orderService
	Banners    bannerService
	Shops      shopService
	Files      fileStorage
	// Limiter is optional; requests are not throttled when nil.
	Limiter rateLimiter
}

// Options carries the HTTP-facing configuration.
type Options struct {
	Production  bool
	CORSOrigins []string
}

type handler struct {
	deps       Deps
	logger     *zap.Logger
	production bool
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	logger = telemetry.OrNop(logger).Named("http")
	if err := registerValidators(); err != nil {
		logger.Error("register validators", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	h := &handler{deps: deps, logger: logger, production: opts.Production}

	router.Use(requestLogger(logger), h.recovery(), cors.New(corsConfig(opts.CORSOrigins)))

	router.GET("/health", healthHandler)
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Files != nil {
		router.Static("/uploads", deps.Files.Dir())
	}

	api := router.Group("/api")
	if deps.Limiter != nil {
		api.Use(h.rateLimit(deps.Limiter))
	}
	authed := h.requireAuth()

	a := api.Group("/auth")
	a.POST("/wechat-login", h.wechatLogin)
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.POST("/logout", authed, h.logout)
	a.GET("/me", authed, h.me)

	p := api.Group("/products")
	p.GET("", h.listProducts)
	p.GET("/recommend", h.recommendedProducts)
	p.GET("/detail", h.productDetail)
	p.GET("/category", h.productsByCategory)
	p.GET("/search", h.searchProducts)

	cart := api.Group("/cart", authed)
	cart.POST("/add", h.addToCart)
	cart.GET("/list", h.listCart)
	cart.PUT("/update", h.updateCartLine)
	cart.DELETE("/remove", h.removeCartLine)
	cart.DELETE("/remove-multiple", h.removeCartLines)

	users := api.Group("/users", authed)
	users.GET("/profile", h.profile)
	users.PUT("/profile", h.updateProfile)
	users.GET("/address", h.listAddresses)
	users.POST("/address", h.addAddress)
	users.PUT("/address/:addressId", h.updateAddress)
	users.DELETE("/address/:addressId", h.deleteAddress)
	users.PATCH("/address/:addressId/default", h.setDefaultAddress)

	cat := api.Group("/categories")
	cat.POST("", authed, h.createCategory)
	cat.GET("/shop/:shopId", h.listCategories)
	cat.GET("/:id", h.getCategory)
	cat.PUT("/:id", authed, h.updateCategory)
	cat.DELETE("/:id", authed, h.deleteCategory)
	cat.PATCH("/:id/status", authed, h.setCategoryStatus)

	orders := api.Group("/orders", authed)
	orders.POST("", h.createOrder)
	orders.GET("/user", h.listUserOrders)
	orders.GET("/shop", h.listShopOrders)
	orders.GET("/:id", h.getOrder)
	orders.PUT("/:id/status", h.updateOrderStatus)
	orders.PUT("/:id/payment", h.updatePaymentStatus)
	orders.DELETE("/:id", h.cancelOrder)

	b := api.Group("/banners")
	b.GET("", h.listBanners)
	b.GET("/shop/all", authed, h.listAllBanners)
	b.GET("/:id", h.getBanner)
	b.POST("", authed, h.createBanner)
	b.PUT("/:id", authed, h.updateBanner)
	b.DELETE("/:id", authed, h.deleteBanner)

	shops := api.Group("/shops")
	shops.GET("", h.listShops)
	shops.GET("/:id", h.getShop)

	up := api.Group("/upload", authed)
	up.POST("/single", h.uploadSingle)
	up.POST("/multiple", h.uploadMultiple)
	up.DELETE("/:filename", h.deleteUpload)

	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
