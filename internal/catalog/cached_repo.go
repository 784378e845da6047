package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/repcoach/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	oneHour             = 60 * 60
	exerciseCacheExpire = oneHour
	megabyte            = 1024 * 1024
)

type catalogRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id int64) (*Exercise, error)
	GetMultiple(ctx context.Context, ids []int64) (map[int64]Exercise, error)
	ListByBodyPart(ctx context.Context, bodyPart string) ([]Exercise, error)
}

// CachedRepo keeps exercise lookups by id in memory. Entries expire after
// an hour and are never invalidated, catalog rows are not edited in place.
type CachedRepo struct {
	repo  catalogRepo
	cache *freecache.Cache
}

func NewCachedRepo(repo catalogRepo, cacheSizeMB int) *CachedRepo {
	return &CachedRepo{
		repo:  repo,
		cache: freecache.NewCache(cacheSizeMB * megabyte),
	}
}

func cacheKey(id int64) []byte {
	return []byte(fmt.Sprintf("exercise::%d", id))
}

func (c *CachedRepo) Add(ctx context.Context, exercise Exercise) (*Exercise, error) {
	return c.repo.Add(ctx, exercise)
}

func (c *CachedRepo) Get(ctx context.Context, id int64) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.cache.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if e, ok := c.fromCache(id); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &e, nil
	}

	exercise, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.toCache(*exercise)
	return exercise, nil
}

func (c *CachedRepo) GetMultiple(ctx context.Context, ids []int64) (_ map[int64]Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.cache.getmultiple")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	found := make(map[int64]Exercise, len(ids))
	var missing []int64
	for _, id := range ids {
		if e, ok := c.fromCache(id); ok {
			found[id] = e
		} else {
			missing = append(missing, id)
		}
	}
	span.SetAttributes(
		attribute.Int("cache.hits", len(found)),
		attribute.Int("cache.misses", len(missing)),
	)
	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := c.repo.GetMultiple(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, e := range fetched {
		found[id] = e
		c.toCache(e)
	}
	return found, nil
}

func (c *CachedRepo) ListByBodyPart(ctx context.Context, bodyPart string) ([]Exercise, error) {
	return c.repo.ListByBodyPart(ctx, bodyPart)
}

func (c *CachedRepo) fromCache(id int64) (Exercise, bool) {
	var e Exercise
	cached, err := c.cache.Get(cacheKey(id))
	if err != nil {
		return e, false
	}
	if err := json.Unmarshal(cached, &e); err != nil {
		log.Errorf("failed to unmarshal cached exercise %d: %s", id, err)
		return e, false
	}
	return e, true
}

func (c *CachedRepo) toCache(e Exercise) {
	eBytes, err := json.Marshal(e)
	if err != nil {
		log.Errorf("failed to marshal exercise %d for cache: %s", e.ID, err)
		return
	}
	if err := c.cache.Set(cacheKey(e.ID), eBytes, exerciseCacheExpire); err != nil {
		log.Errorf("failed to cache exercise %d: %s", e.ID, err)
	}
}
