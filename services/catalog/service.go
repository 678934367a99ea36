package catalog

import (
	"time"

	"github.com/MarcGrol/bookingbackend/lib/mycache"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
	"github.com/MarcGrol/bookingbackend/services/bokun"
)

const (
	DefaultProductListID = "16220"
	defaultCacheTTL      = 5 * time.Minute
)

type Config struct {
	ProductListID string
	CacheTTL      time.Duration
}

type service struct {
	client        bokun.Client
	cache         mycache.Cache
	cacheTTL      time.Duration
	productListID string
	nower         mytime.Nower
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, client bokun.Client, cache mycache.Cache, nower mytime.Nower, logger mylog.Logger) *service {
	if cfg.ProductListID == "" {
		cfg.ProductListID = DefaultProductListID
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	return &service{
		client:        client,
		cache:         cache,
		cacheTTL:      cfg.CacheTTL,
		productListID: cfg.ProductListID,
		nower:         nower,
		logger:        logger,
	}
}
