package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	usersrepo "github.com/yahyarahhawi/StitchGuard-db/internal/users"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
)

type fixture struct {
	t    *testing.T
	db   *gorm.DB
	svc  Service
	raw  *service
	user *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.InspectedItem{},
		&models.Flaw{},
	))

	svc, err := NewService(NewRepository(conn), usersrepo.NewRepository(conn))
	require.NoError(t, err)

	f := &fixture{t: t, db: conn, svc: svc, raw: svc.(*service)}
	f.user = f.seedUser("Rosa Delgado", "rosa@example.com")
	return f
}

func (f *fixture) seedUser(name, email string) *models.User {
	f.t.Helper()
	user := &models.User{Name: name, Email: email, Role: enums.UserRoleSewer}
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedOrder(quantity, completed int) *models.Order {
	f.t.Helper()
	product := &models.Product{Name: fmt.Sprintf("product-%d", time.Now().UnixNano())}
	require.NoError(f.t, f.db.Create(product).Error)
	order := &models.Order{
		Name:         "batch",
		Quantity:     quantity,
		Completed:    completed,
		Deadline:     time.Now().Add(72 * time.Hour),
		SupervisorID: f.user.ID,
		SewerID:      f.user.ID,
		ProductID:    product.ID,
	}
	require.NoError(f.t, f.db.Create(order).Error)
	return order
}

func (f *fixture) seedItem(order *models.Order, sewerID int, status enums.ItemStatus, inspectedAt time.Time, flawTypes ...string) *models.InspectedItem {
	f.t.Helper()
	item := &models.InspectedItem{
		SerialNumber: fmt.Sprintf("SN-%d-%d", order.ID, time.Now().UnixNano()),
		OrderID:      order.ID,
		SewerID:      sewerID,
		Status:       status,
		InspectedAt:  inspectedAt,
	}
	require.NoError(f.t, f.db.Create(item).Error)
	for _, flawType := range flawTypes {
		flaw := &models.Flaw{ItemID: item.ID, FlawType: flawType, Orientation: "front", DetectedAt: inspectedAt}
		require.NoError(f.t, f.db.Create(flaw).Error)
	}
	return item
}

func TestGetOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := f.seedOrder(2, 2)
	open := f.seedOrder(10, 3)

	now := time.Now().UTC()
	f.seedItem(done, f.user.ID, enums.ItemStatusPassed, now)
	f.seedItem(done, f.user.ID, enums.ItemStatusOverridden, now)
	f.seedItem(open, f.user.ID, enums.ItemStatusFailed, now)
	f.seedItem(open, f.user.ID, enums.ItemStatusPassed, now)

	overview, err := f.svc.GetOverview(ctx, DateRange{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), overview.TotalOrders)
	assert.Equal(t, int64(1), overview.CompletedOrders)
	assert.Equal(t, int64(1), overview.PendingOrders)
	assert.Equal(t, int64(4), overview.TotalItems)
	assert.Equal(t, int64(3), overview.PassedItems)
	assert.Equal(t, int64(1), overview.FailedItems)
	assert.InDelta(t, 75.0, overview.PassRate, 0.001)
}

func TestGetOverviewEmptyHasZeroPassRate(t *testing.T) {
	f := newFixture(t)

	overview, err := f.svc.GetOverview(context.Background(), DateRange{})
	require.NoError(t, err)

	assert.Equal(t, int64(0), overview.TotalItems)
	assert.Equal(t, float64(0), overview.PassRate)
}

func TestGetOverviewDateRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.seedOrder(10, 0)

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -10)
	f.seedItem(order, f.user.ID, enums.ItemStatusPassed, old)
	f.seedItem(order, f.user.ID, enums.ItemStatusFailed, now)

	start := now.AddDate(0, 0, -1)
	overview, err := f.svc.GetOverview(ctx, DateRange{Start: &start})
	require.NoError(t, err)

	assert.Equal(t, int64(1), overview.TotalItems)
	assert.Equal(t, int64(1), overview.FailedItems)
}

func TestGetOverviewRejectsInvertedRange(t *testing.T) {
	f := newFixture(t)

	start := time.Now()
	end := start.AddDate(0, 0, -1)
	_, err := f.svc.GetOverview(context.Background(), DateRange{Start: &start, End: &end})

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetUserStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.seedUser("Marta Silva", "marta@example.com")
	order := f.seedOrder(10, 0)

	now := time.Now().UTC()
	f.seedItem(order, f.user.ID, enums.ItemStatusPassed, now)
	f.seedItem(order, f.user.ID, enums.ItemStatusOverridden, now)
	f.seedItem(order, f.user.ID, enums.ItemStatusFailed, now)
	f.seedItem(order, other.ID, enums.ItemStatusFailed, now)

	stats, err := f.svc.GetUserStats(ctx, f.user.ID, DateRange{})
	require.NoError(t, err)

	assert.Equal(t, f.user.ID, stats.UserID)
	assert.Equal(t, "Rosa Delgado", stats.Name)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Passed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.InDelta(t, 66.666, stats.PassRate, 0.01)
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUserStats(context.Background(), 9999, DateRange{})

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetFlawFrequency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.seedOrder(10, 0)

	now := time.Now().UTC()
	f.seedItem(order, f.user.ID, enums.ItemStatusFailed, now, "loose_thread", "loose_thread")
	f.seedItem(order, f.user.ID, enums.ItemStatusFailed, now, "loose_thread", "missing_button")
	f.seedItem(order, f.user.ID, enums.ItemStatusFailed, now, "stain")

	rows, err := f.svc.GetFlawFrequency(ctx, DateRange{}, 2)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "loose_thread", rows[0].FlawType)
	assert.Equal(t, int64(3), rows[0].Count)
	assert.Equal(t, "missing_button", rows[1].FlawType)
	assert.Equal(t, int64(1), rows[1].Count)
}

func TestGetFlawFrequencyDefaultsLimit(t *testing.T) {
	f := newFixture(t)

	rows, err := f.svc.GetFlawFrequency(context.Background(), DateRange{}, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetDailyTrends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.seedOrder(10, 0)

	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f.raw.now = func() time.Time { return fixed }

	f.seedItem(order, f.user.ID, enums.ItemStatusPassed, fixed)
	f.seedItem(order, f.user.ID, enums.ItemStatusFailed, fixed)
	f.seedItem(order, f.user.ID, enums.ItemStatusOverridden, fixed.AddDate(0, 0, -2))

	trends, err := f.svc.GetDailyTrends(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trends, 3)

	assert.Equal(t, "2026-03-13", trends[0].Date)
	assert.Equal(t, int64(1), trends[0].Total)
	assert.Equal(t, int64(1), trends[0].Passed)
	assert.InDelta(t, 100.0, trends[0].PassRate, 0.001)

	// quiet middle day zero-filled
	assert.Equal(t, "2026-03-14", trends[1].Date)
	assert.Equal(t, int64(0), trends[1].Total)
	assert.Equal(t, float64(0), trends[1].PassRate)

	assert.Equal(t, "2026-03-15", trends[2].Date)
	assert.Equal(t, int64(2), trends[2].Total)
	assert.Equal(t, int64(1), trends[2].Passed)
	assert.Equal(t, int64(1), trends[2].Failed)
	assert.InDelta(t, 50.0, trends[2].PassRate, 0.001)
}

func TestGetDailyTrendsBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, days := range []int{-1, 366} {
		_, err := f.svc.GetDailyTrends(ctx, days)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "days=%d", days)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}

	trends, err := f.svc.GetDailyTrends(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, trends, 30)
}
