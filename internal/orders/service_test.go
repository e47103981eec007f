package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/internal/products"
	"github.com/yahyarahhawi/StitchGuard-db/internal/users"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type fixture struct {
	svc        Service
	raw        *service
	db         *gorm.DB
	supervisor models.User
	sewer      models.User
	product    models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{}, &models.Product{}, &models.ProductOrientation{},
		&models.Order{}, &models.InspectedItem{}, &models.Flaw{},
	))

	svc, err := NewService(
		NewRepository(conn),
		users.NewRepository(conn),
		products.NewRepository(conn),
		db.NewWithConn(conn),
		24*time.Hour,
	)
	require.NoError(t, err)

	f := &fixture{svc: svc, raw: svc.(*service), db: conn}

	f.supervisor = models.User{Name: "Sup", Email: "sup@example.com", Role: enums.UserRoleSupervisor}
	require.NoError(t, conn.Create(&f.supervisor).Error)
	f.sewer = models.User{Name: "Sew", Email: "sew@example.com", Role: enums.UserRoleSewer}
	require.NoError(t, conn.Create(&f.sewer).Error)
	f.product = models.Product{Name: "Jacket"}
	require.NoError(t, conn.Create(&f.product).Error)

	return f
}

func (f *fixture) createOrder(t *testing.T, quantity int) *models.Order {
	t.Helper()

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		Name:         "Batch 7",
		SupervisorID: f.supervisor.ID,
		SewerID:      f.sewer.ID,
		ProductID:    f.product.ID,
		Quantity:     quantity,
		Deadline:     time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) seedItem(t *testing.T, orderID int, serial string, status enums.ItemStatus, createdAt time.Time) models.InspectedItem {
	t.Helper()

	item := models.InspectedItem{
		SerialNumber: serial,
		OrderID:      orderID,
		SewerID:      f.sewer.ID,
		Status:       status,
		InspectedAt:  createdAt,
	}
	require.NoError(t, f.db.Create(&item).Error)
	// autoCreateTime stamps now; pin the record timestamp explicitly
	require.NoError(t, f.db.Model(&models.InspectedItem{}).
		Where("id = ?", item.ID).
		Update("created_at", createdAt).Error)
	return item
}

func TestCreateOrderChecksReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.createOrder(t, 50)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 0, order.Completed)

	_, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		Name: "Bad", SupervisorID: 999, SewerID: f.sewer.ID, ProductID: f.product.ID,
		Quantity: 1, Deadline: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{
		Name: "Bad", SupervisorID: f.supervisor.ID, SewerID: f.sewer.ID, ProductID: 999,
		Quantity: 1, Deadline: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{
		Name: "Bad", SupervisorID: f.supervisor.ID, SewerID: f.sewer.ID, ProductID: f.product.ID,
		Quantity: 0, Deadline: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateProgressBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 10)

	// inclusive boundaries
	updated, err := f.svc.UpdateProgress(ctx, order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Completed)

	updated, err = f.svc.UpdateProgress(ctx, order.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Completed)

	_, err = f.svc.UpdateProgress(ctx, order.ID, -1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodePolicy, pkgerrors.As(err).Code())

	_, err = f.svc.UpdateProgress(ctx, order.ID, 11)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodePolicy, pkgerrors.As(err).Code())

	// rejected updates leave the stored value alone
	current, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.Completed)
}

func TestRecomputeProgressCountsWindowedPasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 100)

	now := time.Now().UTC()
	f.raw.now = func() time.Time { return now }

	f.seedItem(t, order.ID, "SN-1", enums.ItemStatusPassed, now.Add(-time.Hour))
	f.seedItem(t, order.ID, "SN-2", enums.ItemStatusFailed, now.Add(-time.Hour))
	f.seedItem(t, order.ID, "SN-3", enums.ItemStatusOverridden, now.Add(-2*time.Hour))
	f.seedItem(t, order.ID, "SN-4", enums.ItemStatusPassed, now.Add(-3*time.Hour))
	// outside the 24h window
	f.seedItem(t, order.ID, "SN-5", enums.ItemStatusPassed, now.Add(-25*time.Hour))

	updated, err := f.svc.RecomputeProgress(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Completed)

	// recompute overwrites a manually set value
	_, err = f.svc.UpdateProgress(ctx, order.ID, 90)
	require.NoError(t, err)
	updated, err = f.svc.RecomputeProgress(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Completed)
}

func TestRecomputeProgressWindowLowerBoundInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 10)

	now := time.Now().UTC().Truncate(time.Second)
	f.raw.now = func() time.Time { return now }

	f.seedItem(t, order.ID, "SN-EDGE", enums.ItemStatusPassed, now.Add(-24*time.Hour))

	updated, err := f.svc.RecomputeProgress(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Completed)
}

func TestDeleteOrderBlockedByItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 5)

	f.seedItem(t, order.ID, "SN-10", enums.ItemStatusPassed, time.Now())

	err := f.svc.DeleteOrder(ctx, order.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePolicy, typed.Code())

	// cleanup unblocks the delete
	result, err := f.svc.CleanupItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedItems)

	require.NoError(t, f.svc.DeleteOrder(ctx, order.ID))

	_, err = f.svc.GetOrder(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCleanupItemsDeletesFlawsAndResetsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 5)

	item := f.seedItem(t, order.ID, "SN-20", enums.ItemStatusFailed, time.Now())
	flaw := models.Flaw{ItemID: item.ID, FlawType: "stain", Orientation: "front", DetectedAt: time.Now()}
	require.NoError(t, f.db.Create(&flaw).Error)

	_, err := f.svc.UpdateProgress(ctx, order.ID, 3)
	require.NoError(t, err)

	result, err := f.svc.CleanupItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedItems)

	var flawCount, itemCount int64
	require.NoError(t, f.db.Model(&models.Flaw{}).Count(&flawCount).Error)
	require.NoError(t, f.db.Model(&models.InspectedItem{}).Count(&itemCount).Error)
	assert.Zero(t, flawCount)
	assert.Zero(t, itemCount)

	order2, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, order2.Completed)

	// cleanup on an already-clean order reports zero deletions
	again, err := f.svc.CleanupItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Zero(t, again.DeletedItems)
}

func TestGetStatsReportsCachedAndDerived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 20)

	now := time.Now()
	f.seedItem(t, order.ID, "SN-30", enums.ItemStatusPassed, now)
	f.seedItem(t, order.ID, "SN-31", enums.ItemStatusOverridden, now)
	f.seedItem(t, order.ID, "SN-32", enums.ItemStatusFailed, now)

	_, err := f.svc.UpdateProgress(ctx, order.ID, 5)
	require.NoError(t, err)

	stats, err := f.svc.GetStats(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Completed)
	assert.Equal(t, int64(3), stats.TotalInspected)
	assert.Equal(t, int64(1), stats.Passed)
	assert.Equal(t, int64(1), stats.Overridden)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(2), stats.DerivedCompleted)
}

func TestListOrdersFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherSewer := models.User{Name: "Other", Email: "other@example.com", Role: enums.UserRoleSewer}
	require.NoError(t, f.db.Create(&otherSewer).Error)

	f.createOrder(t, 5)
	f.createOrder(t, 5)
	_, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		Name: "Other batch", SupervisorID: f.supervisor.ID, SewerID: otherSewer.ID,
		ProductID: f.product.ID, Quantity: 3, Deadline: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	all, err := f.svc.ListOrders(ctx, pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySewer, err := f.svc.ListOrders(ctx, pagination.Params{}, ListFilters{SewerID: &otherSewer.ID})
	require.NoError(t, err)
	require.Len(t, bySewer, 1)
	assert.Equal(t, "Other batch", bySewer[0].Name)
}

func TestUpdateOrderQuantityBelowCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, 10)

	_, err := f.svc.UpdateProgress(ctx, order.ID, 8)
	require.NoError(t, err)

	five := 5
	_, err = f.svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Quantity: &five})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodePolicy, pkgerrors.As(err).Code())

	twelve := 12
	updated, err := f.svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Quantity: &twelve})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)
}
