package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_admin/internal/service"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
	jwthelp "github.com/Skotchmaster/restaurant_admin/pkg/jwt"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
	authmw "github.com/Skotchmaster/restaurant_admin/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_failed", "invalid body", err)
	}

	pair, admin, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	authmw.SetAuthCookies(c, pair)
	return c.JSON(http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    transport.NewAdminResponse(*admin),
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_failed", "status", http.StatusUnauthorized, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		authmw.ClearAuthCookies(c)
		return fail(l, "refresh_failed", err)
	}

	authmw.SetAuthCookies(c, pair)
	return c.JSON(http.StatusOK, map[string]string{"message": "tokens refreshed"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			return fail(l, "logout_failed", err)
		}
	}

	authmw.ClearAuthCookies(c)
	l.Info("logout_success", "user_id", c.Get(authmw.CtxUserID))
	return c.JSON(http.StatusOK, map[string]string{"message": "logout successful"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	sub, _ := c.Get(authmw.CtxUserID).(string)
	admin, err := h.Svc.CurrentAdmin(ctx, sub)
	if err != nil {
		return fail(l, "me_failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": transport.NewAdminResponse(*admin)})
}

// Status never fails; it only reports whether the access cookie is currently valid.
func (h *AuthHTTP) Status(c echo.Context) error {
	var token string
	if ck, err := c.Cookie(jwthelp.AccessCookie); err == nil {
		token = ck.Value
	}

	claims, ok := h.Svc.Session(token)
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]string{
			"id":       claims.Subject,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}
