package httpserver

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/report"
	"github.com/Skotchmaster/restaurant_admin/internal/service"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
)

type OrderHTTP struct {
	Svc     *service.OrderService
	Reports *report.Renderer
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_failed", "invalid body", err)
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "create_order_failed", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, orderBody("order created", *order))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	page, offset, limit := pageWindow(c)
	total, orders, err := h.Svc.ListOrders(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return paged(c, transport.NewOrderResponses(orders), page, offset, limit, total)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "get_order_failed", err.Error(), err)
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, orderBody("", *order))
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "update_order_failed", err.Error(), err)
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_failed", "invalid body", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, id, req)
	if err != nil {
		return fail(l, "update_order_failed", err)
	}

	l.Info("update_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, orderBody("order updated", *order))
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "update_status_failed", err.Error(), err)
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_status_failed", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_status_failed", err)
	}

	l.Info("update_status_success", "order_id", order.ID, "status", string(order.Status))
	return c.JSON(http.StatusOK, orderBody("order status updated", *order))
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "delete_order_failed", err.Error(), err)
	}

	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		return fail(l, "delete_order_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) ExportOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export_orders")

	status := strings.TrimSpace(c.QueryParam("status"))
	orders, err := h.Svc.OrdersForReport(ctx, status)
	if err != nil {
		return fail(l, "export_orders_failed", err)
	}

	var buf bytes.Buffer
	if err := h.Reports.OrdersReport(&buf, orders, models.OrderStatus(status)); err != nil {
		return fail(l, "export_orders_failed", err)
	}

	l.Info("export_orders_success", "orders", len(orders), "bytes", buf.Len())
	return sendPDF(c, report.ReportFilename(models.OrderStatus(status), h.Reports.GeneratedAt()), buf.Bytes())
}

func (h *OrderHTTP) ExportOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export_order")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "export_order_failed", err.Error(), err)
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "export_order_failed", err)
	}

	var buf bytes.Buffer
	if err := h.Reports.OrderReceipt(&buf, *order); err != nil {
		return fail(l, "export_order_failed", err)
	}
	return sendPDF(c, report.ReceiptFilename(order.ID, h.Reports.GeneratedAt()), buf.Bytes())
}

// orderBody wraps a single order under "order", the shape the admin frontend reads.
func orderBody(message string, o models.Order) map[string]any {
	body := map[string]any{"order": transport.NewOrderResponse(o)}
	if message != "" {
		body["message"] = message
	}
	return body
}

func sendPDF(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", body)
}
