package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/service"
	"github.com/quoteforge/quoteforge/internal/types"
)

type ProductHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewProductHandler(service service.CatalogService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		response, err := h.service.SearchProducts(ctx, q)
		if err != nil {
			h.log.Error("Failed to search products", "error", err)
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	if t := c.Query("type"); t != "" {
		response, err := h.service.GetProductsByType(ctx, types.ProductType(t))
		if err != nil {
			h.log.Error("Failed to list products by type", "error", err)
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	response, err := h.service.ListProducts(ctx)
	if err != nil {
		h.log.Error("Failed to list products", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("product ID is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.service.GetProduct(ctx, id)
	if err != nil {
		h.log.Error("Failed to get product", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}
