package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
)

const publicFormKeyPrefix = "form:public:"

// FormCache keeps the respondent projection of published forms. Every
// operation is best effort: cache failures are logged and never surface to
// the caller.
type FormCache struct {
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

// NewFormCache returns a cache that is disabled when cache is nil or ttl is zero
func NewFormCache(cache CacheService, ttl time.Duration, logger *slog.Logger) *FormCache {
	return &FormCache{cache: cache, ttl: ttl, logger: logger}
}

func publicFormKey(formID uint) string {
	return fmt.Sprintf("%s%d", publicFormKeyPrefix, formID)
}

func (c *FormCache) enabled() bool {
	return c != nil && c.cache != nil && c.ttl > 0
}

// GetPublic returns the cached projection, or false on a miss
func (c *FormCache) GetPublic(ctx context.Context, formID uint) (*models.PublicForm, bool) {
	if !c.enabled() {
		return nil, false
	}
	var form models.PublicForm
	if err := c.cache.Get(ctx, publicFormKey(formID), &form); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Public form cache read failed", "form_id", formID, "error", err)
		}
		return nil, false
	}
	return &form, true
}

func (c *FormCache) SetPublic(ctx context.Context, form *models.PublicForm) {
	if !c.enabled() || form == nil {
		return
	}
	if err := c.cache.Set(ctx, publicFormKey(form.ID), form, c.ttl); err != nil {
		c.logger.Warn("Public form cache write failed", "form_id", form.ID, "error", err)
	}
}

// Invalidate must be called after every change to a form
func (c *FormCache) Invalidate(ctx context.Context, formID uint) {
	if !c.enabled() {
		return
	}
	if err := c.cache.Delete(ctx, publicFormKey(formID)); err != nil {
		c.logger.Warn("Public form cache invalidation failed", "form_id", formID, "error", err)
	}
}

// Flush drops every cached public form
func (c *FormCache) Flush(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.cache.DeletePattern(ctx, publicFormKeyPrefix+"*")
}
