package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/service"
	"github.com/oakline/furniture_shop/internal/util"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return serviceError(c, l, "get_product_error", err)
	}

	return respondData(c, http.StatusOK, product)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	total, products, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return serviceError(c, l, "list_products_error", err)
	}

	return respondData(c, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
	})
}
