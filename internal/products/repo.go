package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// Repository defines persistence operations for products, their orientations,
// and their inspection rules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id int) (*models.Product, error)
	List(ctx context.Context, params pagination.Params) ([]models.Product, error)
	CreateOrientation(ctx context.Context, orientation *models.ProductOrientation) (*models.ProductOrientation, error)
	FindOrientationByID(ctx context.Context, id int) (*models.ProductOrientation, error)
	FindOrientation(ctx context.Context, productID int, orientation string) (*models.ProductOrientation, error)
	ListOrientations(ctx context.Context, productID int) ([]models.ProductOrientation, error)
	UpdateOrientation(ctx context.Context, orientation *models.ProductOrientation) error
	DeleteOrientation(ctx context.Context, id int) error
	CreateRule(ctx context.Context, rule *models.InspectionRule) (*models.InspectionRule, error)
	ListRules(ctx context.Context, productID int) ([]models.InspectionRule, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Orientations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Orientations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateOrientation(ctx context.Context, orientation *models.ProductOrientation) (*models.ProductOrientation, error) {
	if err := r.db.WithContext(ctx).Create(orientation).Error; err != nil {
		return nil, err
	}
	return orientation, nil
}

func (r *repository) FindOrientationByID(ctx context.Context, id int) (*models.ProductOrientation, error) {
	var row models.ProductOrientation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindOrientation(ctx context.Context, productID int, orientation string) (*models.ProductOrientation, error) {
	var row models.ProductOrientation
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND orientation = ?", productID, orientation).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListOrientations(ctx context.Context, productID int) ([]models.ProductOrientation, error) {
	var rows []models.ProductOrientation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateOrientation(ctx context.Context, orientation *models.ProductOrientation) error {
	return r.db.WithContext(ctx).Save(orientation).Error
}

func (r *repository) DeleteOrientation(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.ProductOrientation{}, id).Error
}

func (r *repository) CreateRule(ctx context.Context, rule *models.InspectionRule) (*models.InspectionRule, error) {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *repository) ListRules(ctx context.Context, productID int) ([]models.InspectionRule, error) {
	var rows []models.InspectionRule
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
