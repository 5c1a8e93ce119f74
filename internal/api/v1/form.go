package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quoteforge/quoteforge/internal/api/dto"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/service"
)

type FormHandler struct {
	service service.QuoteService
	log     *logger.Logger
}

func NewFormHandler(service service.QuoteService, log *logger.Logger) *FormHandler {
	return &FormHandler{service: service, log: log}
}

func (h *FormHandler) SelectProduct(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.SelectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.SelectProduct(ctx, req)
	if err != nil {
		h.log.Error("Failed to select product", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *FormHandler) UpdateField(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.UpdateField(ctx, req)
	if err != nil {
		h.log.Error("Failed to update field", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *FormHandler) GetFormState(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.service.GetFormState(ctx)
	if err != nil {
		h.log.Error("Failed to get form state", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *FormHandler) ValidateForm(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.service.ValidateForm(ctx)
	if err != nil {
		h.log.Error("Failed to validate form", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *FormHandler) CalculatePrice(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.service.CalculateFinalPrice(ctx)
	if err != nil {
		h.log.Error("Failed to calculate price", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}
