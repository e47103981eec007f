package inspection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type ordersRepository interface {
	FindByID(ctx context.Context, id int) (*models.Order, error)
}

type usersRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// FlawInput is one defect observed during the scan.
type FlawInput struct {
	FlawType    string
	Orientation string
	DetectedAt  *time.Time
}

// RecordInput holds one scanned garment unit with its flaws.
type RecordInput struct {
	SerialNumber  string
	OrderID       int
	SewerID       int
	Status        enums.ItemStatus
	FrontImageURL *string
	BackImageURL  *string
	InspectedAt   *time.Time
	Flaws         []FlawInput
}

// Service records and reads inspected items. Recording never touches the
// order's cached progress counter; reconciliation is a separate operation.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.InspectedItem, error)
	GetItem(ctx context.Context, id int) (*models.InspectedItem, error)
	ListItems(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.InspectedItem, error)
}

type service struct {
	repo      Repository
	orderRepo ordersRepository
	userRepo  usersRepository
	tx        txRunner
	now       func() time.Time
}

// NewService builds the inspection recorder.
func NewService(repo Repository, orderRepo ordersRepository, userRepo usersRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inspection repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		tx:        tx,
		now:       time.Now,
	}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.InspectedItem, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "serial_number is required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be PASSED, FAILED, or OVERRIDDEN")
	}
	for _, flaw := range input.Flaws {
		if strings.TrimSpace(flaw.FlawType) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "flaw_type is required")
		}
		if strings.TrimSpace(flaw.Orientation) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "flaw orientation is required")
		}
	}

	if _, err := s.orderRepo.FindByID(ctx, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	if _, err := s.userRepo.FindByID(ctx, input.SewerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sewer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup sewer")
	}

	if _, err := s.repo.FindItemBySerial(ctx, serial); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial number already recorded").
			WithDetails(map[string]any{"serial_number": serial})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup serial number")
	}

	inspectedAt := s.now().UTC()
	if input.InspectedAt != nil {
		inspectedAt = *input.InspectedAt
	}

	item := &models.InspectedItem{
		SerialNumber:  serial,
		OrderID:       input.OrderID,
		SewerID:       input.SewerID,
		Status:        input.Status,
		FrontImageURL: input.FrontImageURL,
		BackImageURL:  input.BackImageURL,
		InspectedAt:   inspectedAt,
	}

	// item and flaws land atomically; a failed flaw insert rolls everything back
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateItem(ctx, item); err != nil {
			return err
		}

		flaws := make([]models.Flaw, 0, len(input.Flaws))
		for _, flaw := range input.Flaws {
			detectedAt := inspectedAt
			if flaw.DetectedAt != nil {
				detectedAt = *flaw.DetectedAt
			}
			flaws = append(flaws, models.Flaw{
				ItemID:      item.ID,
				FlawType:    strings.TrimSpace(flaw.FlawType),
				Orientation: strings.TrimSpace(flaw.Orientation),
				DetectedAt:  detectedAt,
			})
		}
		return repo.CreateFlaws(ctx, flaws)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial number already recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inspected item")
	}

	return s.GetItem(ctx, item.ID)
}

func (s *service) GetItem(ctx context.Context, id int) (*models.InspectedItem, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inspected item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup inspected item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.InspectedItem, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, err := s.repo.ListItems(ctx, pagination.Normalize(params), filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inspected items")
	}
	return rows, nil
}
