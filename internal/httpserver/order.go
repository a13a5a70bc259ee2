package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/mykafka"
	"github.com/oakline/furniture_shop/internal/service"
	"github.com/oakline/furniture_shop/internal/transport"
	"github.com/oakline/furniture_shop/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Payment  *service.PaymentService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("create_order_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	orderID, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		return serviceError(c, l, "create_order_error", err)
	}

	publish(c, h.Producer, "order_events", userID.String(), map[string]interface{}{
		"type":     "order_created",
		"user_id":  userID,
		"order_id": orderID,
	})

	l.Info("order_created", "order_id", orderID)
	return respondData(c, http.StatusCreated, map[string]interface{}{"order_id": orderID})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_order_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, orderID, userID, getRole(c))
	if err != nil {
		return serviceError(c, l, "get_order_error", err)
	}

	return respondData(c, http.StatusOK, order)
}

func (h *OrderHTTP) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("my_orders_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListMyOrders(ctx, userID)
	if err != nil {
		return serviceError(c, l, "my_orders_error", err)
	}

	return respondData(c, http.StatusOK, orders)
}

func (h *OrderHTTP) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListAllOrders(ctx, offset, limit)
	if err != nil {
		return serviceError(c, l, "list_orders_error", err)
	}

	return respondData(c, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

func (h *OrderHTTP) PayOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("pay_order_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("pay_order_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
		PayerEmail    string `json:"payer_email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("pay_order_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	// Ownership gate before the state machine runs.
	if _, err := h.Svc.GetOrder(ctx, orderID, userID, getRole(c)); err != nil {
		return serviceError(c, l, "pay_order_error", err)
	}

	order, err := h.Payment.MarkPaid(ctx, orderID, req.TransactionID, req.PayerEmail)
	if err != nil {
		return serviceError(c, l, "pay_order_error", err)
	}

	publish(c, h.Producer, "order_events", order.UserID.String(), map[string]interface{}{
		"type":     "order_paid",
		"order_id": order.ID,
		"user_id":  order.UserID,
	})

	l.Info("order_paid", "order_id", orderID)
	return respondData(c, http.StatusOK, order)
}

func (h *OrderHTTP) DeliverOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.deliver")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("deliver_order_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Payment.MarkDelivered(ctx, orderID)
	if err != nil {
		return serviceError(c, l, "deliver_order_error", err)
	}

	publish(c, h.Producer, "order_events", order.UserID.String(), map[string]interface{}{
		"type":     "order_delivered",
		"order_id": order.ID,
		"user_id":  order.UserID,
	})

	l.Info("order_delivered", "order_id", orderID)
	return respondData(c, http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		OrderStatus models.OrderStatus `json:"order_status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, orderID, req.OrderStatus)
	if err != nil {
		return serviceError(c, l, "update_status_error", err)
	}

	publish(c, h.Producer, "order_events", order.UserID.String(), map[string]interface{}{
		"type":     "order_status_updated",
		"order_id": order.ID,
		"status":   order.Status,
	})

	return respondData(c, http.StatusOK, order)
}
