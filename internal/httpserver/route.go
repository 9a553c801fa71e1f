package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/restaurant_admin/pkg/middleware/auth"
)

type Deps struct {
	MenuHandler  *MenuHTTP
	OrderHandler *OrderHTTP
	AuthHandler  *AuthHTTP
	JWTSecret    []byte
	Refresher    middleware.Refresher
	Ready        func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)
	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.GET("/status", d.AuthHandler.Status)
	auth.POST("/logout", d.AuthHandler.Logout, authMW.RequireAuth)
	auth.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)

	menus := api.Group("/menus")
	menus.GET("", d.MenuHandler.ListMenus)
	menus.GET("/categories", d.MenuHandler.Categories)
	menus.GET("/search", d.MenuHandler.SearchMenus)
	menus.GET("/:id", d.MenuHandler.GetMenu)

	menuAdmin := menus.Group("", authMW.RequireAdmin)
	menuAdmin.POST("", d.MenuHandler.CreateMenu)
	menuAdmin.PUT("/:id", d.MenuHandler.UpdateMenu)
	menuAdmin.PATCH("/:id", d.MenuHandler.UpdateMenu)
	menuAdmin.DELETE("/:id", d.MenuHandler.DeleteMenu)

	orders := api.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder)

	staff := orders.Group("", authMW.RequireAdmin)
	staff.GET("", d.OrderHandler.ListOrders)
	staff.GET("/export-pdf", d.OrderHandler.ExportOrders)
	staff.GET("/:id", d.OrderHandler.GetOrder)
	staff.PUT("/:id", d.OrderHandler.UpdateOrder)
	staff.PUT("/:id/status", d.OrderHandler.UpdateStatus)
	staff.DELETE("/:id", d.OrderHandler.DeleteOrder)
	staff.GET("/:id/export-pdf", d.OrderHandler.ExportOrder)
}
