package service

import (
	"sync"
	"time"

	"hugo/internal/team"

	lru "github.com/hashicorp/golang-lru/v2"
)

// reportCache keeps recent team reports keyed by roster fingerprint.
// Entries older than ttl are treated as missing.
type reportCache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, cachedReport]
	ttl time.Duration
}

type cachedReport struct {
	report team.Report
	at     time.Time
}

func newReportCache(size int, ttl time.Duration) *reportCache {
	if size <= 0 {
		return &reportCache{}
	}
	cache, err := lru.New[string, cachedReport](size)
	if err != nil {
		return &reportCache{}
	}
	return &reportCache{lru: cache, ttl: ttl}
}

func (c *reportCache) Get(key string, now time.Time) (team.Report, bool) {
	if c == nil || c.lru == nil {
		return team.Report{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.lru.Get(key)
	if !ok {
		return team.Report{}, false
	}
	if c.ttl > 0 && now.Sub(entry.at) > c.ttl {
		c.lru.Remove(key)
		return team.Report{}, false
	}
	return entry.report, true
}

func (c *reportCache) Set(key string, report team.Report, now time.Time) {
	if c == nil || c.lru == nil {
		return
	}
	c.mu.Lock()
	c.lru.Add(key, cachedReport{report: report, at: now})
	c.mu.Unlock()
}

func (c *reportCache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
