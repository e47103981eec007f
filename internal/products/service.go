package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// CreateProductInput holds the fields accepted when registering a product.
// Orientations are created alongside the product, ordered as given.
type CreateProductInput struct {
	Name         string
	Description  *string
	Orientations []string
}

// CreateOrientationInput adds one viewing angle to a product.
type CreateOrientationInput struct {
	ProductID   int
	Orientation string
	Position    int
}

// UpdateOrientationInput renames or reorders an existing viewing angle.
type UpdateOrientationInput struct {
	Orientation string
	Position    *int
}

// CreateRuleInput adds one inspection rule to a product.
type CreateRuleInput struct {
	ProductID        int
	Orientation      string
	FlawType         string
	RuleType         enums.RuleType
	StabilitySeconds *float64
}

// InspectionConfig is the per-product payload the mobile client loads before
// an inspection session.
type InspectionConfig struct {
	ProductID    int                         `json:"product_id"`
	ProductName  string                      `json:"product_name"`
	Orientations []models.ProductOrientation `json:"orientations"`
	Rules        []models.InspectionRule     `json:"rules"`
}

// Service exposes product, orientation, and inspection-rule operations.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ListOrientations(ctx context.Context, productID int) ([]models.ProductOrientation, error)
	CreateOrientation(ctx context.Context, input CreateOrientationInput) (*models.ProductOrientation, error)
	UpdateOrientation(ctx context.Context, id int, input UpdateOrientationInput) (*models.ProductOrientation, error)
	DeleteOrientation(ctx context.Context, id int) error
	ListRules(ctx context.Context, productID int) ([]models.InspectionRule, error)
	CreateRule(ctx context.Context, input CreateRuleInput) (*models.InspectionRule, error)
	GetInspectionConfig(ctx context.Context, productID int) (*InspectionConfig, error)
}

const defaultStabilitySeconds = 3.0

type service struct {
	repo Repository
}

// NewService builds a product service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	rows, err := s.repo.List(ctx, pagination.Normalize(params))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	orientations := make([]string, 0, len(input.Orientations))
	seen := map[string]bool{}
	for _, raw := range input.Orientations {
		orientation := strings.TrimSpace(raw)
		if orientation == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "orientation must not be empty")
		}
		if seen[orientation] {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "duplicate orientation "+orientation)
		}
		seen[orientation] = true
		orientations = append(orientations, orientation)
	}

	product := &models.Product{
		Name:                 name,
		Description:          input.Description,
		OrientationsRequired: orientations,
	}
	for i, orientation := range orientations {
		product.Orientations = append(product.Orientations, models.ProductOrientation{
			Orientation: orientation,
			Position:    i,
		})
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return product, nil
}

func (s *service) ListOrientations(ctx context.Context, productID int) ([]models.ProductOrientation, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOrientations(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orientations")
	}
	return rows, nil
}

func (s *service) CreateOrientation(ctx context.Context, input CreateOrientationInput) (*models.ProductOrientation, error) {
	orientation := strings.TrimSpace(input.Orientation)
	if orientation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orientation is required")
	}
	if _, err := s.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if err := s.ensureOrientationFree(ctx, input.ProductID, orientation); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateOrientation(ctx, &models.ProductOrientation{
		ProductID:   input.ProductID,
		Orientation: orientation,
		Position:    input.Position,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "orientation already exists for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create orientation")
	}
	return created, nil
}

func (s *service) UpdateOrientation(ctx context.Context, id int, input UpdateOrientationInput) (*models.ProductOrientation, error) {
	orientation := strings.TrimSpace(input.Orientation)
	if orientation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orientation is required")
	}

	row, err := s.repo.FindOrientationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "orientation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup orientation")
	}

	if orientation != row.Orientation {
		if err := s.ensureOrientationFree(ctx, row.ProductID, orientation); err != nil {
			return nil, err
		}
	}

	row.Orientation = orientation
	if input.Position != nil {
		row.Position = *input.Position
	}
	if err := s.repo.UpdateOrientation(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update orientation")
	}
	return row, nil
}

func (s *service) DeleteOrientation(ctx context.Context, id int) error {
	if _, err := s.repo.FindOrientationByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "orientation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup orientation")
	}
	if err := s.repo.DeleteOrientation(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete orientation")
	}
	return nil
}

func (s *service) ListRules(ctx context.Context, productID int) ([]models.InspectionRule, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRules(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inspection rules")
	}
	return rows, nil
}

func (s *service) CreateRule(ctx context.Context, input CreateRuleInput) (*models.InspectionRule, error) {
	orientation := strings.TrimSpace(input.Orientation)
	flawType := strings.TrimSpace(input.FlawType)
	if orientation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orientation is required")
	}
	if flawType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flaw_type is required")
	}
	if !input.RuleType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rule_type")
	}
	if _, err := s.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	stability := defaultStabilitySeconds
	if input.StabilitySeconds != nil {
		if *input.StabilitySeconds < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stability_seconds must be non-negative")
		}
		stability = *input.StabilitySeconds
	}

	created, err := s.repo.CreateRule(ctx, &models.InspectionRule{
		ProductID:        input.ProductID,
		Orientation:      orientation,
		FlawType:         flawType,
		RuleType:         input.RuleType,
		StabilitySeconds: stability,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inspection rule")
	}
	return created, nil
}

func (s *service) GetInspectionConfig(ctx context.Context, productID int) (*InspectionConfig, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.ListRules(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inspection rules")
	}
	return &InspectionConfig{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Orientations: product.Orientations,
		Rules:        rules,
	}, nil
}

func (s *service) ensureOrientationFree(ctx context.Context, productID int, orientation string) error {
	if _, err := s.repo.FindOrientation(ctx, productID, orientation); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "orientation already exists for product")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup orientation")
	}
	return nil
}
