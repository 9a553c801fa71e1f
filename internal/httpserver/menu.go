package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	"github.com/Skotchmaster/restaurant_admin/internal/service"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) ListMenus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list_menus")

	page, offset, limit := pageWindow(c)
	filter := repo.MenuFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}

	total, items, err := h.Svc.ListMenus(ctx, filter, offset, limit)
	if err != nil {
		return fail(l, "list_menus_failed", err)
	}
	return paged(c, items, page, offset, limit, total)
}

func (h *MenuHTTP) SearchMenus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search_menus")

	page, offset, limit := pageWindow(c)
	total, items, err := h.Svc.SearchMenus(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_menus_failed", err)
	}
	return paged(c, items, page, offset, limit, total)
}

func (h *MenuHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(l, "categories_failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": cats})
}

func (h *MenuHTTP) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "get_menu_failed", err.Error(), err)
	}

	item, err := h.Svc.GetMenu(ctx, id)
	if err != nil {
		return fail(l, "get_menu_failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"menu": item})
}

func (h *MenuHTTP) CreateMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create_menu")

	var req transport.CreateMenuRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_menu_failed", "invalid body", err)
	}

	item, err := h.Svc.CreateMenu(ctx, req)
	if err != nil {
		return fail(l, "create_menu_failed", err)
	}

	l.Info("create_menu_success", "menu_id", item.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "menu created", "menu": item})
}

func (h *MenuHTTP) UpdateMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update_menu")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "update_menu_failed", err.Error(), err)
	}

	var req transport.PatchMenuRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_menu_failed", "invalid body", err)
	}

	item, err := h.Svc.PatchMenu(ctx, id, req)
	if err != nil {
		return fail(l, "update_menu_failed", err)
	}

	l.Info("update_menu_success", "menu_id", item.ID)
	return c.JSON(http.StatusOK, map[string]any{"message": "menu updated", "menu": item})
}

func (h *MenuHTTP) DeleteMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete_menu")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "delete_menu_failed", err.Error(), err)
	}

	if err := h.Svc.DeleteMenu(ctx, id); err != nil {
		return fail(l, "delete_menu_failed", err)
	}

	l.Info("delete_menu_success", "menu_id", id)
	return c.NoContent(http.StatusNoContent)
}
