package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/middleware/auth"
	"github.com/Skotchmaster/artshop/internal/service"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

type OrdersHTTP struct {
	Orders *service.OrderService
}

func (h *OrdersHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "order_create_failed", invalidBody(err))
	}

	order, err := h.Orders.Create(ctx, auth.CurrentUser(c), req)
	if err != nil {
		return fail(l, "order_create_failed", err)
	}

	l.Info("order_create_success", "order_id", order.ID)
	return ok(c, nil)
}

func (h *OrdersHTTP) ListOwn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list_own")

	orders, err := h.Orders.ListOwn(ctx, auth.CurrentUser(c))
	if err != nil {
		return fail(l, "get_orders_failed", err)
	}
	return ok(c, orders)
}

func (h *OrdersHTTP) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list_all")

	orders, err := h.Orders.ListAll(ctx)
	if err != nil {
		return fail(l, "get_all_orders_failed", err)
	}
	return ok(c, orders)
}
