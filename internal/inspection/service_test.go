package inspection

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/internal/orders"
	"github.com/yahyarahhawi/StitchGuard-db/internal/users"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type fixture struct {
	svc   Service
	db    *gorm.DB
	sewer models.User
	order models.Order
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
		orders.NewRepository(conn),
		users.NewRepository(conn),
		db.NewWithConn(conn),
	)
	require.NoError(t, err)

	f := &fixture{svc: svc, db: conn}

	f.sewer = models.User{Name: "Sew", Email: "sew@example.com", Role: enums.UserRoleSewer}
	require.NoError(t, conn.Create(&f.sewer).Error)
	supervisor := models.User{Name: "Sup", Email: "sup@example.com", Role: enums.UserRoleSupervisor}
	require.NoError(t, conn.Create(&supervisor).Error)
	product := models.Product{Name: "Jacket"}
	require.NoError(t, conn.Create(&product).Error)
	f.order = models.Order{
		Name: "Batch", SupervisorID: supervisor.ID, SewerID: f.sewer.ID,
		ProductID: product.ID, Quantity: 10, Deadline: time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, conn.Create(&f.order).Error)

	return f
}

func TestRecordPersistsItemWithFlaws(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.Record(ctx, RecordInput{
		SerialNumber: "SN-100",
		OrderID:      f.order.ID,
		SewerID:      f.sewer.ID,
		Status:       enums.ItemStatusFailed,
		Flaws: []FlawInput{
			{FlawType: "loose_thread", Orientation: "front"},
			{FlawType: "stain", Orientation: "back"},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, item.ID)
	require.Len(t, item.Flaws, 2)
	for _, flaw := range item.Flaws {
		assert.Equal(t, item.ID, flaw.ItemID)
		assert.False(t, flaw.DetectedAt.IsZero())
	}

	fetched, err := f.svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-100", fetched.SerialNumber)
	assert.Len(t, fetched.Flaws, 2)
	assert.False(t, fetched.InspectedAt.IsZero())
}

func TestRecordDuplicateSerialConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := RecordInput{
		SerialNumber: "SN-DUP",
		OrderID:      f.order.ID,
		SewerID:      f.sewer.ID,
		Status:       enums.ItemStatusPassed,
	}
	_, err := f.svc.Record(ctx, first)
	require.NoError(t, err)

	_, err = f.svc.Record(ctx, first)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// the earlier record stays intact
	var count int64
	require.NoError(t, f.db.Model(&models.InspectedItem{}).Where("serial_number = ?", "SN-DUP").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, RecordInput{
		SerialNumber: "SN-1", OrderID: 999, SewerID: f.sewer.ID, Status: enums.ItemStatusPassed,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = f.svc.Record(ctx, RecordInput{
		SerialNumber: "SN-2", OrderID: f.order.ID, SewerID: 999, Status: enums.ItemStatusPassed,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = f.svc.Record(ctx, RecordInput{
		SerialNumber: "SN-3", OrderID: f.order.ID, SewerID: f.sewer.ID, Status: enums.ItemStatus("UNKNOWN"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRecordDoesNotTouchOrderProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, RecordInput{
		SerialNumber: "SN-PROG", OrderID: f.order.ID, SewerID: f.sewer.ID, Status: enums.ItemStatusPassed,
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, f.db.First(&order, f.order.ID).Error)
	assert.Equal(t, 0, order.Completed)
}

func TestListItemsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	statuses := []enums.ItemStatus{enums.ItemStatusPassed, enums.ItemStatusFailed, enums.ItemStatusPassed}
	for i, status := range statuses {
		_, err := f.svc.Record(ctx, RecordInput{
			SerialNumber: fmt.Sprintf("SN-L%d", i),
			OrderID:      f.order.ID,
			SewerID:      f.sewer.ID,
			Status:       status,
		})
		require.NoError(t, err)
	}

	all, err := f.svc.ListItems(ctx, pagination.Params{}, ListFilters{OrderID: &f.order.ID})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	passed := enums.ItemStatusPassed
	passedOnly, err := f.svc.ListItems(ctx, pagination.Params{}, ListFilters{Status: &passed})
	require.NoError(t, err)
	assert.Len(t, passedOnly, 2)

	bad := enums.ItemStatus("nope")
	_, err = f.svc.ListItems(ctx, pagination.Params{}, ListFilters{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
