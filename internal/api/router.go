package api

import (
	"github.com/gin-gonic/gin"

	"github.com/quoteforge/quoteforge/internal/api/middleware"
	v1 "github.com/quoteforge/quoteforge/internal/api/v1"
)

type Handlers struct {
	Product *v1.ProductHandler
	Form    *v1.FormHandler
	Quote   *v1.QuoteHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Product catalog routes
	products := router.Group("/products")
	{
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:id", handlers.Product.GetProduct)
	}

	// Form session routes
	form := router.Group("/form")
	{
		form.POST("/select", handlers.Form.SelectProduct)
		form.POST("/fields", handlers.Form.UpdateField)
		form.GET("/state", handlers.Form.GetFormState)
		form.POST("/validate", handlers.Form.ValidateForm)
		form.POST("/price", handlers.Form.CalculatePrice)
	}

	// Quote routes
	quotes := router.Group("/quotes")
	{
		quotes.POST("", handlers.Quote.CreateQuote)
		quotes.GET("", handlers.Quote.ListQuotes)
		quotes.GET("/stats", handlers.Quote.GetStatistics)
		quotes.GET("/:id", handlers.Quote.GetQuote)
		quotes.GET("/:id/export", handlers.Quote.ExportQuote)
		quotes.DELETE("/:id", handlers.Quote.RemoveQuote)
		quotes.DELETE("", handlers.Quote.ClearQuotes)
	}
}
