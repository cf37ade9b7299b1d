package oms

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/matchengine/pkg/matchengine"
)

const depthKeyPrefix = "depth:"

// DepthCache periodically serializes book depth snapshots into Redis so
// market-data readers never touch the matching path.
type DepthCache struct {
	rdb       *redis.Client
	books     *matchengine.BookManager
	interval  time.Duration
	maxLevels int
	ttl       time.Duration

	watched sync.Map
	stopCh  chan struct{}
}

func NewDepthCache(rdb *redis.Client, books *matchengine.BookManager, interval time.Duration, maxLevels int) *DepthCache {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &DepthCache{
		rdb:       rdb,
		books:     books,
		interval:  interval,
		maxLevels: maxLevels,
		ttl:       time.Minute,
		stopCh:    make(chan struct{}),
	}
}

// Watch starts the refresh loop for a symbol. Idempotent.
func (c *DepthCache) Watch(symbol string) {
	if _, loaded := c.watched.LoadOrStore(symbol, struct{}{}); loaded {
		return
	}
	go c.refreshLoop(symbol)
}

func (c *DepthCache) Stop() {
	close(c.stopCh)
}

func (c *DepthCache) refreshLoop(symbol string) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.refresh(symbol); err != nil {
				zap.S().Warnf("refresh depth %s fail: %v", symbol, err)
			}
		case <-c.stopCh:
			return
		}
	}
}

func (c *DepthCache) refresh(symbol string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	snap, err := c.books.Depth(ctx, symbol, c.maxLevels)
	if err != nil {
		return err
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, depthKeyPrefix+symbol, b, c.ttl).Err()
}
