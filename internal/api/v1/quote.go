package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/service"
)

type QuoteHandler struct {
	service service.QuoteService
	log     *logger.Logger
}

func NewQuoteHandler(service service.QuoteService, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{service: service, log: log}
}

func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.service.CreateQuote(ctx)
	if err != nil {
		h.log.Error("Failed to create quote", "error", err)
		c.Error(err)
		return
	}

	// A failed validation is a handled outcome, not an error.
	status := http.StatusCreated
	if !response.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, response)
}

func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.service.ListQuotes(ctx)
	if err != nil {
		h.log.Error("Failed to list quotes", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("quote ID is required").
			WithHint("Quote ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.service.GetQuote(ctx, id)
	if err != nil {
		h.log.Error("Failed to get quote", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *QuoteHandler) ExportQuote(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	data, err := h.service.ExportQuote(ctx, id)
	if err != nil {
		h.log.Error("Failed to export quote", "error", err)
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (h *QuoteHandler) RemoveQuote(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	if err := h.service.RemoveQuote(ctx, id); err != nil {
		h.log.Error("Failed to remove quote", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quote removed successfully"})
}

func (h *QuoteHandler) ClearQuotes(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.ClearQuotes(ctx); err != nil {
		h.log.Error("Failed to clear quotes", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotes cleared successfully"})
}

func (h *QuoteHandler) GetStatistics(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.service.GetQuoteStatistics(ctx)
	if err != nil {
		h.log.Error("Failed to get quote statistics", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}
