package store

import (
	"context"
	"strconv"
	"time"

	"github.com/karlseguin/ccache/v2"
	"go.uber.org/zap"

	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/models"
)

// Cached keeps recently looked up grades in memory. Listings always go to
// the underlying store; every write drops the affected ids.
type Cached struct {
	Store

	cache  *ccache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(inner Store, ttl time.Duration, maxSize int64, logger *zap.Logger) *Cached {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cached{
		Store:  inner,
		cache:  ccache.New(ccache.Configure().MaxSize(maxSize)),
		ttl:    ttl,
		logger: logger.With(lf.Module("cache")),
	}
}

func cacheKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (c *Cached) FindGrade(ctx context.Context, id uint) (*models.Grade, error) {
	if item := c.cache.Get(cacheKey(id)); item != nil && !item.Expired() {
		grade := item.Value().(models.Grade)
		return &grade, nil
	}

	grade, err := c.Store.FindGrade(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey(id), *grade, c.ttl)
	c.logger.Debug("Cached grade", lf.GradeID(id))
	return grade, nil
}

func (c *Cached) SaveGrade(ctx context.Context, grade *models.Grade) (*models.Grade, error) {
	saved, err := c.Store.SaveGrade(ctx, grade)
	if err != nil {
		return nil, err
	}
	c.cache.Delete(cacheKey(saved.ID))
	return saved, nil
}

func (c *Cached) DeleteGrade(ctx context.Context, id uint) error {
	err := c.Store.DeleteGrade(ctx, id)
	c.cache.Delete(cacheKey(id))
	return err
}

func (c *Cached) DeleteGrades(ctx context.Context, ids []uint) error {
	err := c.Store.DeleteGrades(ctx, ids)
	for _, id := range ids {
		c.cache.Delete(cacheKey(id))
	}
	return err
}

// Stop releases the cache worker goroutine.
func (c *Cached) Stop() {
	c.cache.Stop()
}
