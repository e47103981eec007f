package shipping

import (
	"context"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
)

// Repository defines persistence operations for shipping records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, detail *models.ShippingDetail) (*models.ShippingDetail, error)
	FindByOrderID(ctx context.Context, orderID int) (*models.ShippingDetail, error)
	Update(ctx context.Context, detail *models.ShippingDetail) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipping repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, detail *models.ShippingDetail) (*models.ShippingDetail, error) {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID int) (*models.ShippingDetail, error) {
	var detail models.ShippingDetail
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&detail).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repository) Update(ctx context.Context, detail *models.ShippingDetail) error {
	return r.db.WithContext(ctx).Save(detail).Error
}
