package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	pkgdb "github.com/Skotchmaster/restaurant_admin/pkg/db"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := pkgdb.SQLitePrefix + "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &repo.GormRepo{DB: gdb}
}

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return p.err
}

func (p *recordingPublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uint]models.MenuItem
	deleted []uint
	hits    []uint
	failing bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uint]models.MenuItem{}}
}

func (f *fakeIndex) IndexMenu(_ context.Context, m models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[m.ID] = m
	return nil
}

func (f *fakeIndex) DeleteMenu(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) SearchMenus(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.failing {
		return 0, nil, errors.New("cluster unavailable")
	}
	return int64(len(f.hits)), f.hits, nil
}

func seedMenu(t *testing.T, r *repo.GormRepo, name, price string, available bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Category:    "Beverage",
		IsAvailable: available,
	}
	require.NoError(t, r.CreateMenu(context.Background(), &item))
	return item
}

func countRows(t *testing.T, r *repo.GormRepo, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(model).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}
