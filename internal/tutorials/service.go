package tutorials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type productsRepository interface {
	FindByID(ctx context.Context, id int) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateTutorialInput holds the fields accepted when authoring a tutorial.
type CreateTutorialInput struct {
	ProductID   int
	Title       string
	Description *string
	IsActive    bool
}

// UpdateTutorialInput carries partial updates; nil fields are left unchanged.
type UpdateTutorialInput struct {
	Title       *string
	Description *string
	IsActive    *bool
}

// CreateStepInput adds one step to a tutorial.
type CreateStepInput struct {
	TutorialID  int
	StepNumber  int
	Title       string
	Instruction *string
	ImageURL    *string
	VideoURL    *string
}

// UpdateStepInput carries partial step updates.
type UpdateStepInput struct {
	StepNumber  *int
	Title       *string
	Instruction *string
	ImageURL    *string
	VideoURL    *string
}

// Service exposes tutorial and step authoring plus client reads.
type Service interface {
	ListTutorials(ctx context.Context, params pagination.Params) ([]models.Tutorial, error)
	ListByProduct(ctx context.Context, productID int) ([]models.Tutorial, error)
	GetActiveByProduct(ctx context.Context, productID int) (*models.Tutorial, error)
	GetTutorial(ctx context.Context, id int) (*models.Tutorial, error)
	CreateTutorial(ctx context.Context, input CreateTutorialInput) (*models.Tutorial, error)
	UpdateTutorial(ctx context.Context, id int, input UpdateTutorialInput) (*models.Tutorial, error)
	DeleteTutorial(ctx context.Context, id int) error
	ToggleActive(ctx context.Context, id int) (*models.Tutorial, error)
	ListSteps(ctx context.Context, tutorialID int) ([]models.TutorialStep, error)
	CreateStep(ctx context.Context, input CreateStepInput) (*models.TutorialStep, error)
	UpdateStep(ctx context.Context, id int, input UpdateStepInput) (*models.TutorialStep, error)
	DeleteStep(ctx context.Context, id int) error
}

type service struct {
	repo        Repository
	productRepo productsRepository
	tx          txRunner
}

// NewService builds a tutorial service.
func NewService(repo Repository, productRepo productsRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tutorials repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, productRepo: productRepo, tx: tx}, nil
}

func (s *service) ListTutorials(ctx context.Context, params pagination.Params) ([]models.Tutorial, error) {
	rows, err := s.repo.List(ctx, pagination.Normalize(params))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tutorials")
	}
	return rows, nil
}

func (s *service) ListByProduct(ctx context.Context, productID int) ([]models.Tutorial, error) {
	if err := s.lookupProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tutorials")
	}
	return rows, nil
}

func (s *service) GetActiveByProduct(ctx context.Context, productID int) (*models.Tutorial, error) {
	if err := s.lookupProduct(ctx, productID); err != nil {
		return nil, err
	}
	tutorial, err := s.repo.FindActiveByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active tutorial for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup active tutorial")
	}
	return tutorial, nil
}

func (s *service) GetTutorial(ctx context.Context, id int) (*models.Tutorial, error) {
	tutorial, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tutorial not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup tutorial")
	}
	return tutorial, nil
}

func (s *service) CreateTutorial(ctx context.Context, input CreateTutorialInput) (*models.Tutorial, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if err := s.lookupProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	tutorial := &models.Tutorial{
		ProductID:   input.ProductID,
		Title:       title,
		Description: input.Description,
		IsActive:    input.IsActive,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, tutorial); err != nil {
			return err
		}
		if tutorial.IsActive {
			return repo.DeactivateForProduct(ctx, tutorial.ProductID, tutorial.ID)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tutorial")
	}
	return tutorial, nil
}

func (s *service) UpdateTutorial(ctx context.Context, id int, input UpdateTutorialInput) (*models.Tutorial, error) {
	tutorial, err := s.GetTutorial(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		tutorial.Title = title
	}
	if input.Description != nil {
		tutorial.Description = input.Description
	}
	if input.IsActive != nil {
		tutorial.IsActive = *input.IsActive
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, tutorial); err != nil {
			return err
		}
		if tutorial.IsActive {
			return repo.DeactivateForProduct(ctx, tutorial.ProductID, tutorial.ID)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tutorial")
	}
	return tutorial, nil
}

func (s *service) DeleteTutorial(ctx context.Context, id int) error {
	if _, err := s.GetTutorial(ctx, id); err != nil {
		return err
	}

	// steps go with the tutorial even on engines without FK cascade
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteSteps(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tutorial")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, id int) (*models.Tutorial, error) {
	tutorial, err := s.GetTutorial(ctx, id)
	if err != nil {
		return nil, err
	}

	tutorial.IsActive = !tutorial.IsActive
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, tutorial); err != nil {
			return err
		}
		if tutorial.IsActive {
			return repo.DeactivateForProduct(ctx, tutorial.ProductID, tutorial.ID)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle tutorial")
	}
	return tutorial, nil
}

func (s *service) ListSteps(ctx context.Context, tutorialID int) ([]models.TutorialStep, error) {
	if _, err := s.GetTutorial(ctx, tutorialID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListSteps(ctx, tutorialID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tutorial steps")
	}
	return rows, nil
}

func (s *service) CreateStep(ctx context.Context, input CreateStepInput) (*models.TutorialStep, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.StepNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step_number must be positive")
	}
	if _, err := s.GetTutorial(ctx, input.TutorialID); err != nil {
		return nil, err
	}
	if err := s.ensureStepNumberFree(ctx, input.TutorialID, input.StepNumber); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateStep(ctx, &models.TutorialStep{
		TutorialID:  input.TutorialID,
		StepNumber:  input.StepNumber,
		Title:       title,
		Instruction: input.Instruction,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "step number already used")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tutorial step")
	}
	return created, nil
}

func (s *service) UpdateStep(ctx context.Context, id int, input UpdateStepInput) (*models.TutorialStep, error) {
	step, err := s.repo.FindStepByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tutorial step not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup tutorial step")
	}

	if input.StepNumber != nil && *input.StepNumber != step.StepNumber {
		if *input.StepNumber <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "step_number must be positive")
		}
		if err := s.ensureStepNumberFree(ctx, step.TutorialID, *input.StepNumber); err != nil {
			return nil, err
		}
		step.StepNumber = *input.StepNumber
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		step.Title = title
	}
	if input.Instruction != nil {
		step.Instruction = input.Instruction
	}
	if input.ImageURL != nil {
		step.ImageURL = input.ImageURL
	}
	if input.VideoURL != nil {
		step.VideoURL = input.VideoURL
	}

	if err := s.repo.UpdateStep(ctx, step); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tutorial step")
	}
	return step, nil
}

func (s *service) DeleteStep(ctx context.Context, id int) error {
	if _, err := s.repo.FindStepByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "tutorial step not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup tutorial step")
	}
	if err := s.repo.DeleteStep(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tutorial step")
	}
	return nil
}

func (s *service) ensureStepNumberFree(ctx context.Context, tutorialID, stepNumber int) error {
	if _, err := s.repo.FindStepByNumber(ctx, tutorialID, stepNumber); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "step number already used")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup tutorial step")
	}
	return nil
}

func (s *service) lookupProduct(ctx context.Context, productID int) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return nil
}
