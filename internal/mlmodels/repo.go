package mlmodels

import (
	"context"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// ListFilters narrows the model listing.
type ListFilters struct {
	Type     *string
	Platform *string
}

// Repository defines persistence operations for ML model metadata.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, model *models.MLModel) (*models.MLModel, error)
	FindByID(ctx context.Context, id int) (*models.MLModel, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.MLModel, error)
	Update(ctx context.Context, model *models.MLModel) error
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a model-metadata repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, model *models.MLModel) (*models.MLModel, error) {
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return model, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.MLModel, error) {
	var row models.MLModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.MLModel, error) {
	query := r.db.WithContext(ctx).Model(&models.MLModel{})
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Platform != nil {
		query = query.Where("platform = ?", *filters.Platform)
	}

	var rows []models.MLModel
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

func (r *repository) Update(ctx context.Context, model *models.MLModel) error {
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *repository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.MLModel{}, id).Error
}
