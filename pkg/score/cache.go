package score

import (
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mchmarny/planscore/pkg/plan"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheSize bounds the number of cached entries per stage.
	DefaultCacheSize = 1024

	StageResults   = "results"
	StageStability = "stability"
)

// Recorder observes cache activity.
type Recorder interface {
	CacheHit(stage string)
	CacheMiss(stage string)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)  {}
func (nopRecorder) CacheMiss(string) {}

type cacheKey struct {
	fingerprint string
	elections   string
	party       string
}

func newCacheKey(p plan.Partition, elections []string, party string) cacheKey {
	return cacheKey{
		fingerprint: p.Fingerprint(),
		elections:   strings.Join(elections, "\x00"),
		party:       party,
	}
}

func (k cacheKey) String() string {
	return k.fingerprint + "\x01" + k.party + "\x01" + k.elections
}

// Cache memoizes result matrices and stability vectors per
// (partition fingerprint, ordered elections, party). Concurrent misses on
// the same key compute once.
type Cache struct {
	results   *lru.Cache[cacheKey, [][]float64]
	stability *lru.Cache[cacheKey, []int]
	flight    singleflight.Group
	recorder  Recorder
}

// NewCache creates a cache holding up to size entries per stage. A nil
// recorder discards cache events.
func NewCache(size int, recorder Recorder) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	results, err := lru.New[cacheKey, [][]float64](size)
	if err != nil {
		return nil, fmt.Errorf("creating results cache: %w", err)
	}
	stability, err := lru.New[cacheKey, []int](size)
	if err != nil {
		return nil, fmt.Errorf("creating stability cache: %w", err)
	}

	return &Cache{
		results:   results,
		stability: stability,
		recorder:  recorder,
	}, nil
}

// Results returns the cached result matrix. Callers must not modify it.
func (c *Cache) Results(p plan.Partition, elections []string, party string) ([][]float64, error) {
	key := newCacheKey(p, elections, party)
	return load(c, c.results, StageResults, key, func() ([][]float64, error) {
		return buildResults(p, elections, party)
	})
}

// Stability returns the cached win counts. Callers must not modify them.
func (c *Cache) Stability(p plan.Partition, elections []string, party string) ([]int, error) {
	key := newCacheKey(p, elections, party)
	return load(c, c.stability, StageStability, key, func() ([]int, error) {
		results, err := c.Results(p, elections, party)
		if err != nil {
			return nil, err
		}
		return deriveStability(results), nil
	})
}

// Len returns the number of cached entries per stage.
func (c *Cache) Len() map[string]int {
	return map[string]int{
		StageResults:   c.results.Len(),
		StageStability: c.stability.Len(),
	}
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.results.Purge()
	c.stability.Purge()
}

// load records exactly one hit or miss per call. Callers that join an
// in-flight build share its outcome: a hit when it succeeds, a miss when it
// fails.
func load[V any](c *Cache, store *lru.Cache[cacheKey, V], stage string, key cacheKey, build func() (V, error)) (V, error) {
	if v, ok := store.Get(key); ok {
		c.recorder.CacheHit(stage)
		return v, nil
	}

	leader := false
	v, err, _ := c.flight.Do(stage+"\x02"+key.String(), func() (any, error) {
		leader = true
		if v, ok := store.Get(key); ok {
			c.recorder.CacheHit(stage)
			return v, nil
		}
		c.recorder.CacheMiss(stage)
		slog.Debug("score cache miss", "stage", stage, "fingerprint", key.fingerprint, "party", key.party)

		v, err := build()
		if err != nil {
			return nil, err
		}
		store.Add(key, v)
		return v, nil
	})
	if !leader {
		if err == nil {
			c.recorder.CacheHit(stage)
		} else {
			c.recorder.CacheMiss(stage)
		}
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
