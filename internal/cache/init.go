package cache

import (
	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/logger"
)

// Initialize initializes the cache system
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Info("Initializing cache system")
	return NewInMemoryCache(cfg)
}
