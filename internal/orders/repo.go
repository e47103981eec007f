package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// ListFilters narrows the order listing.
type ListFilters struct {
	SupervisorID *int
	SewerID      *int
	ProductID    *int
}

// Repository defines persistence operations for orders and the inspected
// items hanging off them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateCompleted(ctx context.Context, orderID, completed int) error
	Delete(ctx context.Context, id int) error
	CountItems(ctx context.Context, orderID int) (int64, error)
	CountItemsByStatus(ctx context.Context, orderID int) (map[enums.ItemStatus]int64, error)
	CountPassedItemsSince(ctx context.Context, orderID int, since time.Time) (int64, error)
	DeleteItems(ctx context.Context, orderID int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.SupervisorID != nil {
		query = query.Where("supervisor_id = ?", *filters.SupervisorID)
	}
	if filters.SewerID != nil {
		query = query.Where("sewer_id = ?", *filters.SewerID)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}

	var rows []models.Order
	err := query.
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) UpdateCompleted(ctx context.Context, orderID, completed int) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"completed":  completed,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}

func (r *repository) CountItems(ctx context.Context, orderID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InspectedItem{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountItemsByStatus(ctx context.Context, orderID int) (map[enums.ItemStatus]int64, error) {
	type statusCount struct {
		Status enums.ItemStatus
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.InspectedItem{}).
		Select("status, COUNT(*) AS count").
		Where("order_id = ?", orderID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.ItemStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) CountPassedItemsSince(ctx context.Context, orderID int, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InspectedItem{}).
		Where("order_id = ?", orderID).
		Where("status IN ?", enums.PassedStatuses()).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) DeleteItems(ctx context.Context, orderID int) (int64, error) {
	subquery := r.db.
		Model(&models.InspectedItem{}).
		Select("id").
		Where("order_id = ?", orderID)

	if err := r.db.WithContext(ctx).
		Where("item_id IN (?)", subquery).
		Delete(&models.Flaw{}).Error; err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.InspectedItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
