package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quoteforge/quoteforge/internal/cache"
	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/domain/quote"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	"github.com/quoteforge/quoteforge/internal/engine"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
	"github.com/quoteforge/quoteforge/internal/types"
	"github.com/quoteforge/quoteforge/internal/validator"
)

// Stores holds all the repository interfaces for testing.
type Stores struct {
	ProductRepo product.Repository
	FieldRepo   formfield.Repository
	RuleRepo    rule.Repository
	QuoteRepo   quote.Repository
}

// BaseServiceTestSuite provides common functionality for all service test
// suites: fresh in-memory stores per test, a test logger and an engine.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	engine *engine.Engine
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite.
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	s.cache = cache.Initialize(cfg, s.logger)
}

// SetupTest is called before each test.
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test.
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		ProductRepo: store.NewInMemoryStore[*product.Product](),
		FieldRepo:   store.NewInMemoryStore[*formfield.FormField](),
		RuleRepo:    store.NewInMemoryStore[*rule.BusinessRule](),
		QuoteRepo:   store.NewInMemoryStore[*quote.Quote](),
	}
	s.engine = engine.New(s.stores.RuleRepo, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	_ = s.stores.ProductRepo.Clear(s.ctx)
	_ = s.stores.FieldRepo.Clear(s.ctx)
	_ = s.stores.RuleRepo.Clear(s.ctx)
	_ = s.stores.QuoteRepo.Clear(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context.
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration.
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories.
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetEngine returns the test rule engine.
func (s *BaseServiceTestSuite) GetEngine() *engine.Engine {
	return s.engine
}

// GetCache returns the test cache.
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger.
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time.
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string.
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
