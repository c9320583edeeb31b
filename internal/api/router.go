package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/commerce-api/docs"
	"github.com/storefront/commerce-api/internal/api/handler"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Products ports.ProductService
	Orders   ports.OrderService
	Coupons  ports.CouponService
	Tokens   ports.TokenIssuer

	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handlers.Check
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("commerce"))

	authn := middleware.Auth(d.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	userOnly := middleware.RBAC(domain.RoleUser)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleUser)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	auth.POST("/admin/login", authHandler.LoginAdmin)
	auth.POST("/login", authHandler.LoginUser)
	auth.POST("/admin/change-password", authHandler.ChangePasswordOfAdmin, authn, adminOnly)
	auth.POST("/change-password", authHandler.ChangePasswordOfUser, authn, userOnly)
	auth.GET("/me", authHandler.GetMe, authn, userOnly)

	// --- Users and cart ---
	userHandler := handler.NewUserHandler(d.Users)
	users := e.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List, authn, adminOnly)
	users.GET("/:id", userHandler.Get, authn, adminOnly)
	users.PATCH("/:id", userHandler.Update, authn, adminOnly)
	users.POST("/cart", userHandler.AddToCart, authn, userOnly)
	users.DELETE("/cart/:productId", userHandler.RemoveFromCart, authn, userOnly)
	users.PATCH("/cart/:productId/:quantity", userHandler.SetCartQuantity, authn, userOnly)

	// --- Products ---
	productHandler := handler.NewProductHandler(d.Products)
	products := e.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, authn, adminOnly)
	products.PATCH("/:id", productHandler.Update, authn, adminOnly)
	products.DELETE("/:id", productHandler.Delete, authn, adminOnly)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(d.Orders)
	orders := e.Group("/orders", authn)
	orders.POST("", orderHandler.Create, userOnly)
	orders.GET("", orderHandler.List, anyRole)
	orders.GET("/:id", orderHandler.Get, anyRole)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus, adminOnly)
	orders.DELETE("/:id", orderHandler.Delete, adminOnly)

	// --- Coupons ---
	couponHandler := handler.NewCouponHandler(d.Coupons)
	coupons := e.Group("/coupons")
	coupons.GET("/code/:code", couponHandler.GetByCode)
	coupons.POST("", couponHandler.Create, authn, adminOnly)
	coupons.GET("", couponHandler.List, authn, adminOnly)
	coupons.GET("/:id", couponHandler.Get, authn, adminOnly)
	coupons.PATCH("/:id", couponHandler.Update, authn, adminOnly)
	coupons.DELETE("/:id", couponHandler.Delete, authn, adminOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
