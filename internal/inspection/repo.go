package inspection

import (
	"context"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// ListFilters narrows the inspected-items listing.
type ListFilters struct {
	OrderID *int
	SewerID *int
	Status  *enums.ItemStatus
}

// Repository defines persistence operations for inspected items and flaws.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateItem(ctx context.Context, item *models.InspectedItem) (*models.InspectedItem, error)
	CreateFlaws(ctx context.Context, flaws []models.Flaw) error
	FindItemByID(ctx context.Context, id int) (*models.InspectedItem, error)
	FindItemBySerial(ctx context.Context, serial string) (*models.InspectedItem, error)
	ListItems(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.InspectedItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inspection repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateItem(ctx context.Context, item *models.InspectedItem) (*models.InspectedItem, error) {
	if err := r.db.WithContext(ctx).Omit("Flaws").Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) CreateFlaws(ctx context.Context, flaws []models.Flaw) error {
	if len(flaws) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&flaws).Error
}

func (r *repository) FindItemByID(ctx context.Context, id int) (*models.InspectedItem, error) {
	var item models.InspectedItem
	err := r.db.WithContext(ctx).
		Preload("Flaws").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemBySerial(ctx context.Context, serial string) (*models.InspectedItem, error) {
	var item models.InspectedItem
	err := r.db.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.InspectedItem, error) {
	query := r.db.WithContext(ctx).Model(&models.InspectedItem{}).Preload("Flaws")
	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
	}
	if filters.SewerID != nil {
		query = query.Where("sewer_id = ?", *filters.SewerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var rows []models.InspectedItem
	err := query.
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
