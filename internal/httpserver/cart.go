package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/mykafka"
	"github.com/oakline/furniture_shop/internal/service"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	lines, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return serviceError(c, l, "get_cart_error", err)
	}

	return respondData(c, http.StatusOK, lines)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  uint      `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	lines, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, l, "add_to_cart_error", err)
	}

	publish(c, h.Producer, "cart_events", userID.String(), map[string]interface{}{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	l.Info("cart_item_added", "product_id", req.ProductID)
	return respondData(c, http.StatusOK, lines)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("update_cart_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	lines, err := h.Svc.UpdateItemQuantity(ctx, userID, productID, req.Quantity)
	if err != nil {
		return serviceError(c, l, "update_cart_error", err)
	}

	publish(c, h.Producer, "cart_events", userID.String(), map[string]interface{}{
		"type":       "cart_item_updated",
		"user_id":    userID,
		"product_id": productID,
		"quantity":   req.Quantity,
	})

	return respondData(c, http.StatusOK, lines)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("remove_from_cart_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	lines, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return serviceError(c, l, "remove_from_cart_error", err)
	}

	publish(c, h.Producer, "cart_events", userID.String(), map[string]interface{}{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": productID,
	})

	return respondData(c, http.StatusOK, lines)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		return serviceError(c, l, "clear_cart_error", err)
	}

	publish(c, h.Producer, "cart_events", userID.String(), map[string]interface{}{
		"type":    "cart_cleared",
		"user_id": userID,
	})

	l.Info("cart_cleared")
	return respondMessage(c, http.StatusOK, "cart cleared")
}
