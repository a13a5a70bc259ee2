package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/mykafka"
	"github.com/oakline/furniture_shop/internal/service"
)

type ReviewHTTP struct {
	Svc      *service.ReviewService
	Producer *mykafka.Producer
}

func (h *ReviewHTTP) ListByProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("list_reviews_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	reviews, err := h.Svc.ListByProduct(ctx, productID)
	if err != nil {
		return serviceError(c, l, "list_reviews_error", err)
	}

	return respondData(c, http.StatusOK, reviews)
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("create_review_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("create_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.Create(ctx, userID, getUsername(c), productID, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, l, "create_review_error", err)
	}

	publish(c, h.Producer, "review_events", productID.String(), map[string]interface{}{
		"type":       "review_created",
		"review_id":  review.ID,
		"product_id": productID,
		"user_id":    userID,
		"rating":     review.Rating,
	})

	l.Info("review_created", "product_id", productID)
	return respondData(c, http.StatusCreated, review)
}

func (h *ReviewHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("update_review_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("update_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	targetUserID, err := targetUser(c, userID)
	if err != nil {
		l.Warn("update_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.Update(ctx, productID, targetUserID, userID, getRole(c), req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, l, "update_review_error", err)
	}

	publish(c, h.Producer, "review_events", review.ProductID.String(), map[string]interface{}{
		"type":       "review_updated",
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	})

	return respondData(c, http.StatusOK, review)
}

func (h *ReviewHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("delete_review_error", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("delete_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	targetUserID, err := targetUser(c, userID)
	if err != nil {
		l.Warn("delete_review_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}

	if err := h.Svc.Delete(ctx, productID, targetUserID, userID, getRole(c)); err != nil {
		return serviceError(c, l, "delete_review_error", err)
	}

	publish(c, h.Producer, "review_events", productID.String(), map[string]interface{}{
		"type":       "review_deleted",
		"product_id": productID,
		"user_id":    targetUserID,
	})

	return respondMessage(c, http.StatusOK, "review deleted")
}

// targetUser lets elevated roles address another customer's review via the
// user_id query param; everyone else acts on their own.
func targetUser(c echo.Context, requester uuid.UUID) (uuid.UUID, error) {
	raw := c.QueryParam("user_id")
	if raw == "" {
		return requester, nil
	}
	return uuid.Parse(raw)
}
