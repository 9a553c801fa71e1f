package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// MenuIndexer mirrors the catalog into the search cluster.
type MenuIndexer interface {
	IndexMenu(ctx context.Context, m models.MenuItem) error
	DeleteMenu(ctx context.Context, id uint) error
	SearchMenus(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

const sideEffectTimeout = 5 * time.Second

// publish never fails the caller; the write already committed.
func publish(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil || topic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}
