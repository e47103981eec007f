package tutorials

import (
	"context"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// Repository defines persistence operations for tutorials and their steps.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tutorial *models.Tutorial) (*models.Tutorial, error)
	FindByID(ctx context.Context, id int) (*models.Tutorial, error)
	List(ctx context.Context, params pagination.Params) ([]models.Tutorial, error)
	ListByProduct(ctx context.Context, productID int) ([]models.Tutorial, error)
	FindActiveByProduct(ctx context.Context, productID int) (*models.Tutorial, error)
	Update(ctx context.Context, tutorial *models.Tutorial) error
	Delete(ctx context.Context, id int) error
	DeactivateForProduct(ctx context.Context, productID, exceptID int) error
	CreateStep(ctx context.Context, step *models.TutorialStep) (*models.TutorialStep, error)
	FindStepByID(ctx context.Context, id int) (*models.TutorialStep, error)
	FindStepByNumber(ctx context.Context, tutorialID, stepNumber int) (*models.TutorialStep, error)
	ListSteps(ctx context.Context, tutorialID int) ([]models.TutorialStep, error)
	UpdateStep(ctx context.Context, step *models.TutorialStep) error
	DeleteStep(ctx context.Context, id int) error
	DeleteSteps(ctx context.Context, tutorialID int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tutorials repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, tutorial *models.Tutorial) (*models.Tutorial, error) {
	if err := r.db.WithContext(ctx).Create(tutorial).Error; err != nil {
		return nil, err
	}
	return tutorial, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Tutorial, error) {
	var tutorial models.Tutorial
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Where("id = ?", id).
		First(&tutorial).Error
	if err != nil {
		return nil, err
	}
	return &tutorial, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Tutorial, error) {
	var rows []models.Tutorial
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID int) ([]models.Tutorial, error) {
	var rows []models.Tutorial
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindActiveByProduct(ctx context.Context, productID int) (*models.Tutorial, error) {
	var tutorial models.Tutorial
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("id ASC").
		First(&tutorial).Error
	if err != nil {
		return nil, err
	}
	return &tutorial, nil
}

func (r *repository) Update(ctx context.Context, tutorial *models.Tutorial) error {
	return r.db.WithContext(ctx).Omit("Steps").Save(tutorial).Error
}

func (r *repository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.Tutorial{}, id).Error
}

func (r *repository) DeactivateForProduct(ctx context.Context, productID, exceptID int) error {
	return r.db.WithContext(ctx).
		Model(&models.Tutorial{}).
		Where("product_id = ? AND id <> ?", productID, exceptID).
		Update("is_active", false).Error
}

func (r *repository) CreateStep(ctx context.Context, step *models.TutorialStep) (*models.TutorialStep, error) {
	if err := r.db.WithContext(ctx).Create(step).Error; err != nil {
		return nil, err
	}
	return step, nil
}

func (r *repository) FindStepByID(ctx context.Context, id int) (*models.TutorialStep, error) {
	var step models.TutorialStep
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&step).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *repository) FindStepByNumber(ctx context.Context, tutorialID, stepNumber int) (*models.TutorialStep, error) {
	var step models.TutorialStep
	err := r.db.WithContext(ctx).
		Where("tutorial_id = ? AND step_number = ?", tutorialID, stepNumber).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *repository) ListSteps(ctx context.Context, tutorialID int) ([]models.TutorialStep, error) {
	var rows []models.TutorialStep
	err := r.db.WithContext(ctx).
		Where("tutorial_id = ?", tutorialID).
		Order("step_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStep(ctx context.Context, step *models.TutorialStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *repository) DeleteStep(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.TutorialStep{}, id).Error
}

func (r *repository) DeleteSteps(ctx context.Context, tutorialID int) error {
	return r.db.WithContext(ctx).
		Where("tutorial_id = ?", tutorialID).
		Delete(&models.TutorialStep{}).Error
}
