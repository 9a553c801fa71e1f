package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
	pkgdb "github.com/Skotchmaster/restaurant_admin/pkg/db"
	jwthelp "github.com/Skotchmaster/restaurant_admin/pkg/jwt"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	dsn := pkgdb.SQLitePrefix + "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &GormRepo{DB: gdb}
}

func menu(name, price string) *models.MenuItem {
	return &models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Category: "Main Course", IsAvailable: true}
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.Transaction(ctx, func(tx *GormRepo) error {
		require.NoError(t, tx.CreateMenu(ctx, menu("Sate Ayam", "30000")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := r.CountMenus(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetMenusByIDs_SkipsMissing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	a := menu("Gado-Gado", "18000")
	require.NoError(t, r.CreateMenu(ctx, a))

	got, err := r.GetMenusByIDs(ctx, []uint{a.ID, a.ID + 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[a.ID].Price.Equal(decimal.RequireFromString("18000")))

	empty, err := r.GetMenusByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteMenu_Missing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	assert.ErrorIs(t, r.DeleteMenu(context.Background(), 42), gorm.ErrRecordNotFound)
}

func TestOrderLines_RoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	m := menu("Mie Ayam Bakso", "20000")
	require.NoError(t, r.CreateMenu(ctx, m))

	o := &models.Order{CustomerName: "Rina", Status: models.OrderStatusPending, Total: decimal.RequireFromString("40000")}
	require.NoError(t, r.CreateOrder(ctx, o))
	require.NoError(t, r.CreateLines(ctx, []models.OrderLine{{OrderID: o.ID, MenuItemID: m.ID, Quantity: 2, UnitPrice: m.Price}}))

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Mie Ayam Bakso", got.Lines[0].MenuName())
	assert.True(t, got.Lines[0].Subtotal().Equal(decimal.RequireFromString("40000")))

	referenced, err := r.MenuReferenced(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	require.NoError(t, r.DeleteOrder(ctx, o.ID))
	_, err = r.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, r.DeleteOrder(ctx, o.ID), gorm.ErrRecordNotFound)
}

func TestRotateRefreshToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	old := &models.RefreshToken{AdminID: 1, Token: jwthelp.Sha256Hex("raw-old"), JTI: "old", ExpiresAt: exp}
	require.NoError(t, r.AddRefreshToken(ctx, old))

	forged := &models.RefreshToken{AdminID: 1, Token: jwthelp.Sha256Hex("raw-x"), JTI: "x", ExpiresAt: exp}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "old", "raw-forged", forged), ErrRefreshUnusable)

	next := &models.RefreshToken{AdminID: 1, Token: jwthelp.Sha256Hex("raw-new"), JTI: "new", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "old", "raw-old", next))

	stored, err := r.FindRefreshByJTI(ctx, "old")
	require.NoError(t, err)
	assert.True(t, stored.Revoked)

	again := &models.RefreshToken{AdminID: 1, Token: jwthelp.Sha256Hex("raw-2"), JTI: "2", ExpiresAt: exp}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "old", "raw-old", again), ErrRefreshUnusable)
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "missing", "raw", again), gorm.ErrRecordNotFound)
}
