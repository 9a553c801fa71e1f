package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/report"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	"github.com/Skotchmaster/restaurant_admin/internal/service"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
	pkgdb "github.com/Skotchmaster/restaurant_admin/pkg/db"
	jwthelp "github.com/Skotchmaster/restaurant_admin/pkg/jwt"
)

type testEnv struct {
	E     *echo.Echo
	Repo  *repo.GormRepo
	Auth  *service.AuthService
	Menus *MenuHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := pkgdb.SQLitePrefix + "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	_, err = authSvc.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	menus := &MenuHTTP{Svc: &service.MenuService{Repo: r}}
	e := echo.New()
	Register(e, &Deps{
		MenuHandler: menus,
		OrderHandler: &OrderHTTP{
			Svc:     &service.OrderService{Repo: r},
			Reports: &report.Renderer{Now: func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }},
		},
		AuthHandler: &AuthHTTP{Svc: authSvc},
		JWTSecret:   authSvc.JWTSecret,
		Refresher:   authSvc,
		Ready:       func(ctx context.Context) error { return pkgdb.Ping(ctx, gdb) },
	})

	return &testEnv{E: e, Repo: r, Auth: authSvc, Menus: menus}
}

func (env *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out []*http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == jwthelp.AccessCookie || ck.Name == jwthelp.RefreshCookie {
			out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	require.Len(t, out, 2)
	return out
}

func (env *testEnv) seedMenu(t *testing.T, name, price string, available bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Category: "Beverage", IsAvailable: available}
	require.NoError(t, env.Repo.CreateMenu(context.Background(), &item))
	return item
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) transport.OrderResponse {
	t.Helper()
	var body struct {
		Order *transport.OrderResponse `json:"order"`
	}
	decodeJSON(t, rec, &body)
	require.NotNil(t, body.Order, rec.Body.String())
	return *body.Order
}

func decodeMenu(t *testing.T, rec *httptest.ResponseRecorder) models.MenuItem {
	t.Helper()
	var body struct {
		Menu *models.MenuItem `json:"menu"`
	}
	decodeJSON(t, rec, &body)
	require.NotNil(t, body.Menu, rec.Body.String())
	return *body.Menu
}
