package routes

import (
	"time"

	"storehub/api/handler"
	"storehub/api/middleware"
	"storehub/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Challenge      *handler.ChallengeHandler
	Stores         *handler.StoreHandler
	Products       *handler.ProductHandler
	Orders         *handler.OrderHandler
	Admin          *handler.AdminHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	challenge *handler.ChallengeHandler,
	stores *handler.StoreHandler,
	products *handler.ProductHandler,
	orders *handler.OrderHandler,
	admin *handler.AdminHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           auth,
		Challenge:      challenge,
		Stores:         stores,
		Products:       products,
		Orders:         orders,
		Admin:          admin,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	// One shared login handler; the guard-pinned routes skip resolution.
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.POST("/admin/login", r.Auth.LoginGuard(entity.GuardAdmin), r.LoginRate.Middleware())
	e.POST("/store-owner/login", r.Auth.LoginGuard(entity.GuardStoreOwner), r.LoginRate.Middleware())
	e.POST("/store-staff/login", r.Auth.LoginGuard(entity.GuardStoreStaff), r.LoginRate.Middleware())

	// The two-factor challenge routes are shared by every guard and carry
	// their own token, so no auth middleware here.
	e.GET("/auth/two-factor", r.Challenge.Show, r.AuthRate.Middleware())
	e.POST("/auth/two-factor", r.Challenge.Verify, r.LoginRate.Middleware())
	e.POST("/auth/two-factor/resend", r.Challenge.Resend, r.LoginRate.Middleware())

	e.POST("/auth/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)

	// Two-factor self-service for the signed-in user.
	e.POST("/auth/two-factor/totp", r.Auth.EnrollTOTP, r.AuthMiddleware.RequireAuth)
	e.POST("/auth/two-factor/totp/confirm", r.Auth.ConfirmTOTP, r.AuthMiddleware.RequireAuth)
	e.POST("/auth/two-factor/email", r.Auth.EnableEmailTwoFactor, r.AuthMiddleware.RequireAuth)
	e.DELETE("/auth/two-factor", r.Auth.DisableTwoFactor, r.AuthMiddleware.RequireAuth)
	e.POST("/auth/two-factor/recovery-codes", r.Auth.RegenerateRecoveryCodes, r.AuthMiddleware.RequireAuth)

	admin := e.Group("/admin", r.AuthMiddleware.RequireAuth, middleware.RequireGuard(entity.GuardAdmin))
	admin.POST("/stores", r.Stores.Create)
	admin.GET("/stores", r.Stores.List)
	admin.GET("/stores/:id", r.Stores.Get)
	admin.PUT("/stores/:id", r.Stores.Update)
	admin.DELETE("/stores/:id", r.Stores.Delete)
	admin.POST("/principals/:guard", r.Admin.Provision)
	admin.GET("/principals/:guard", r.Admin.List)
	admin.DELETE("/principals/:guard/:id", r.Admin.Revoke)

	stores := e.Group("/stores/:store_id",
		r.AuthMiddleware.RequireAuth,
		middleware.RequireGuard(entity.GuardAdmin, entity.GuardStoreOwner, entity.GuardStoreStaff),
	)

	products := stores.Group("/products", middleware.RequirePermission("products.manage"))
	products.POST("", r.Products.Create)
	products.GET("", r.Products.List)
	products.GET("/:id", r.Products.Get)
	products.PUT("/:id", r.Products.Update)
	products.DELETE("/:id", r.Products.Delete)

	orders := stores.Group("/orders", middleware.RequirePermission("orders.manage"))
	orders.POST("", r.Orders.Create)
	orders.GET("", r.Orders.List)
	orders.GET("/:id", r.Orders.Get)
	orders.PATCH("/:id/status", r.Orders.UpdateStatus)
	orders.DELETE("/:id", r.Orders.Delete)
}
