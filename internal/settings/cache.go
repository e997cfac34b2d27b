package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harborline/loanserve/internal/models"
	"github.com/harborline/loanserve/internal/repository"
	"github.com/sirupsen/logrus"
)

// DefaultTTL bounds how stale a cached config may be.
const DefaultTTL = 60 * time.Second

// Loader fetches the stored organization configuration.
type Loader interface {
	LoadOrgConfig(ctx context.Context) (*models.OrgConfig, error)
}

// Cache is an explicit TTL-bounded cache of the single-row organization
// configuration. One instance is constructed per process; it owns its own
// clock and TTL, and every writer of the underlying settings must call
// Invalidate.
type Cache struct {
	mu        sync.Mutex
	loader    Loader
	ttl       time.Duration
	log       *logrus.Logger
	now       func() time.Time
	cached    *models.OrgConfig
	fetchedAt time.Time
}

// NewCache initializes a config cache with the default 60s TTL.
func NewCache(loader Loader, log *logrus.Logger) *Cache {
	return &Cache{
		loader: loader,
		ttl:    DefaultTTL,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the cached configuration while it is fresh, reloading from
// storage otherwise. When no row has ever been stored the fixed defaults
// are returned (and cached).
func (c *Cache) Get(ctx context.Context) (*models.OrgConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		cp := *c.cached
		return &cp, nil
	}

	cfg, err := c.loader.LoadOrgConfig(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, fmt.Errorf("failed to load org config: %w", err)
	}

	c.cached = cfg
	c.fetchedAt = c.now()
	c.log.Debugf("Org config cache refreshed")
	cp := *cfg
	return &cp, nil
}

// Invalidate clears the cache so the next Get forces a reload. Called by
// any writer of the underlying settings row.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

// DefaultConfig is the configuration served before any settings row exists.
func DefaultConfig() *models.OrgConfig {
	return &models.OrgConfig{
		WireInstructions: models.WireInstructions{
			BankName:  "First Harborline Bank",
			Reference: "Include loan number on all wires",
		},
		FeeSchedule: models.FeeSchedule{
			RecordingFee:        75,
			PayoffProcessingFee: 35,
		},
	}
}
