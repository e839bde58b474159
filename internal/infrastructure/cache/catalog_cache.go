// Package cache keeps the product catalog in memory, refreshed on a timer and
// on PostgreSQL NOTIFY.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderdesk/internal/domain/catalog"
	"orderdesk/pkg/logger"
)

// NotifyChannel is the channel the SAP sync job notifies after rewriting sap_products.
const NotifyChannel = "catalog_changed"

// Metrics receives refresh outcomes. May be nil.
type Metrics interface {
	CatalogRefreshed(products int, took time.Duration)
	CatalogRefreshFailed()
}

// CatalogConfig configures a CatalogCache.
type CatalogConfig struct {
	Source catalog.Source

	// Pool enables LISTEN on NotifyChannel. Optional.
	Pool *pgxpool.Pool

	// Interval between periodic reloads. Zero disables the timer.
	Interval time.Duration

	Metrics Metrics
}

// CatalogCache serves cascade queries from an in-memory catalog.Index.
// Until the first load succeeds every query returns empty options.
type CatalogCache struct {
	src      catalog.Source
	pool     *pgxpool.Pool
	interval time.Duration
	metrics  Metrics

	mu    sync.RWMutex
	index *catalog.Index

	// serialises reloads
	refreshMu sync.Mutex

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewCatalogCache creates an empty cache.
func NewCatalogCache(cfg CatalogConfig) *CatalogCache {
	return &CatalogCache{
		src:      cfg.Source,
		pool:     cfg.Pool,
		interval: cfg.Interval,
		metrics:  cfg.Metrics,
	}
}

// Start loads the catalog and launches the background refreshers. A failed
// initial load is logged, not returned: the timer keeps retrying and the
// cache reports not-loaded meanwhile.
func (c *CatalogCache) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.lifecycleMu.Unlock()

	if err := c.Refresh(c.ctx); err != nil {
		logger.Warn(c.ctx, "initial catalog load failed", "error", err)
	}

	if c.interval > 0 {
		c.wg.Add(1)
		go c.tickLoop()
	}
	if c.pool != nil {
		c.wg.Add(1)
		go c.listenLoop()
	}
	logger.Info(c.ctx, "catalog cache started", "interval", c.interval.String())
	return nil
}

// Stop cancels the refreshers and waits for them.
func (c *CatalogCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	logger.Info(context.Background(), "catalog cache stopped")
}

// Refresh reloads the catalog from the source and swaps the index in.
// On failure the previous index stays in place.
func (c *CatalogCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	started := time.Now()
	ix, err := catalog.Load(ctx, c.src)
	if err != nil {
		if c.metrics != nil {
			c.metrics.CatalogRefreshFailed()
		}
		return fmt.Errorf("load catalog: %w", err)
	}

	c.mu.Lock()
	c.index = ix
	c.mu.Unlock()

	took := time.Since(started)
	if c.metrics != nil {
		c.metrics.CatalogRefreshed(ix.Len(), took)
	}
	logger.Info(ctx, "catalog loaded", "products", ix.Len(), "took", took.String())
	return nil
}

// Index returns the current index; nil before the first load.
func (c *CatalogCache) Index() *catalog.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// IsLoaded reports whether a catalog has been loaded.
func (c *CatalogCache) IsLoaded() bool {
	return c.Index().IsLoaded()
}

// Filter implements catalog.Filterer.
func (c *CatalogCache) Filter(ctx context.Context, q catalog.Query) (catalog.Options, error) {
	return c.Index().Filter(ctx, q)
}

// Products returns the products under a fully bound query.
func (c *CatalogCache) Products(q catalog.Query) []catalog.Product {
	return c.Index().Products(q)
}

var _ catalog.Filterer = (*CatalogCache)(nil)

func (c *CatalogCache) tickLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(c.ctx); err != nil && c.ctx.Err() == nil {
				logger.Error(c.ctx, "catalog refresh failed", "error", err)
			}
		}
	}
}

func (c *CatalogCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			c.sleep(time.Second)
			continue
		}

		if _, err = conn.Exec(c.ctx, "LISTEN "+NotifyChannel); err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "channel", NotifyChannel, "error", err)
			conn.Release()
			c.sleep(time.Second)
			continue
		}

		logger.Info(c.ctx, "listening for catalog notifications", "channel", NotifyChannel)
		broken := c.waitForNotifications(conn)
		if broken {
			// Closed conns are destroyed by the pool on release.
			_ = conn.Conn().Close(context.Background())
		}
		conn.Release()
		if broken {
			c.sleep(time.Second)
		}
	}
}

type waitOutcome int

const (
	waitStop waitOutcome = iota
	waitPoll
	waitReconnect
)

// classifyWaitErr decides what a failed WaitForNotification means. parent is
// the cache lifetime; a per-wait timeout only ends one poll.
func classifyWaitErr(parent context.Context, err error) waitOutcome {
	switch {
	case parent.Err() != nil:
		return waitStop
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return waitPoll
	default:
		return waitReconnect
	}
}

// waitForNotifications refreshes on every notification until the cache stops
// or the connection fails. It reports whether the connection is unusable.
func (c *CatalogCache) waitForNotifications(conn *pgxpool.Conn) bool {
	for {
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		n, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			switch classifyWaitErr(c.ctx, err) {
			case waitStop:
				return false
			case waitPoll:
				continue
			}
			logger.Warn(c.ctx, "notification wait failed, reconnecting", "error", err)
			return true
		}

		logger.Debug(c.ctx, "received notification", "channel", n.Channel, "payload", n.Payload)
		if err := c.Refresh(c.ctx); err != nil {
			logger.Error(c.ctx, "catalog refresh failed", "error", err)
		}
	}
}

func (c *CatalogCache) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
	case <-t.C:
	}
}
