package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type usersRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
}

type productsRepository interface {
	FindByID(ctx context.Context, id int) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateOrderInput holds the fields accepted when opening a production run.
type CreateOrderInput struct {
	Name         string
	SupervisorID int
	SewerID      int
	ProductID    int
	Quantity     int
	Deadline     time.Time
}

// UpdateOrderInput carries partial updates; nil fields are left unchanged.
// Progress changes go through UpdateProgress, not here.
type UpdateOrderInput struct {
	Name     *string
	SewerID  *int
	Quantity *int
	Deadline *time.Time
}

// OrderStats reports the cached counter alongside the counts derived from
// inspected items, so drift between the two is visible.
type OrderStats struct {
	OrderID          int   `json:"order_id"`
	Quantity         int   `json:"quantity"`
	Completed        int   `json:"completed"`
	TotalInspected   int64 `json:"total_inspected"`
	Passed           int64 `json:"passed"`
	Failed           int64 `json:"failed"`
	Overridden       int64 `json:"overridden"`
	DerivedCompleted int64 `json:"derived_completed"`
}

// CleanupResult reports what a test-data cleanup removed.
type CleanupResult struct {
	OrderID      int   `json:"order_id"`
	DeletedItems int64 `json:"deleted_items"`
}

// Service exposes order CRUD plus the progress reconciliation operations.
type Service interface {
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	UpdateOrder(ctx context.Context, id int, input UpdateOrderInput) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int) error
	GetStats(ctx context.Context, id int) (*OrderStats, error)
	UpdateProgress(ctx context.Context, orderID, completed int) (*models.Order, error)
	RecomputeProgress(ctx context.Context, orderID int) (*models.Order, error)
	CleanupItems(ctx context.Context, orderID int) (*CleanupResult, error)
}

type service struct {
	repo           Repository
	userRepo       usersRepository
	productRepo    productsRepository
	tx             txRunner
	progressWindow time.Duration
	now            func() time.Time
}

// NewService builds an order service. The progress window bounds which
// inspected items count toward a recompute.
func NewService(repo Repository, userRepo usersRepository, productRepo productsRepository, tx txRunner, progressWindow time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if progressWindow <= 0 {
		return nil, fmt.Errorf("progress window must be positive")
	}
	return &service{
		repo:           repo,
		userRepo:       userRepo,
		productRepo:    productRepo,
		tx:             tx,
		progressWindow: progressWindow,
		now:            time.Now,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error) {
	rows, err := s.repo.List(ctx, pagination.Normalize(params), filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Deadline.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline is required")
	}

	if err := s.lookupUser(ctx, input.SupervisorID, "supervisor"); err != nil {
		return nil, err
	}
	if err := s.lookupUser(ctx, input.SewerID, "sewer"); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	created, err := s.repo.Create(ctx, &models.Order{
		Name:         name,
		SupervisorID: input.SupervisorID,
		SewerID:      input.SewerID,
		ProductID:    input.ProductID,
		Quantity:     input.Quantity,
		Deadline:     input.Deadline,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return created, nil
}

func (s *service) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	return order, nil
}

func (s *service) UpdateOrder(ctx context.Context, id int, input UpdateOrderInput) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		order.Name = name
	}
	if input.SewerID != nil {
		if err := s.lookupUser(ctx, *input.SewerID, "sewer"); err != nil {
			return nil, err
		}
		order.SewerID = *input.SewerID
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if order.Completed > *input.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodePolicy, "quantity cannot drop below completed count")
		}
		order.Quantity = *input.Quantity
	}
	if input.Deadline != nil {
		order.Deadline = *input.Deadline
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return order, nil
}

func (s *service) DeleteOrder(ctx context.Context, id int) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count inspected items")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodePolicy, "order has inspected items; clean them up first").
			WithDetails(map[string]any{"item_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) GetStats(ctx context.Context, id int) (*OrderStats, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountItemsByStatus(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items by status")
	}

	stats := &OrderStats{
		OrderID:    order.ID,
		Quantity:   order.Quantity,
		Completed:  order.Completed,
		Passed:     counts[enums.ItemStatusPassed],
		Failed:     counts[enums.ItemStatusFailed],
		Overridden: counts[enums.ItemStatusOverridden],
	}
	for _, count := range counts {
		stats.TotalInspected += count
	}
	stats.DerivedCompleted = stats.Passed + stats.Overridden
	return stats, nil
}

// UpdateProgress sets the cached counter directly. Both bounds are
// inclusive: 0 and quantity are valid values.
func (s *service) UpdateProgress(ctx context.Context, orderID, completed int) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if completed < 0 || completed > order.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodePolicy, fmt.Sprintf("completed must be between 0 and %d", order.Quantity)).
			WithDetails(map[string]any{"completed": completed, "quantity": order.Quantity})
	}

	if err := s.repo.UpdateCompleted(ctx, orderID, completed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update progress")
	}
	return s.GetOrder(ctx, orderID)
}

// RecomputeProgress overwrites the cached counter with the count of passed
// or overridden items recorded within the trailing window. Items older than
// the window stop counting, so repeated recomputes can lower the value.
func (s *service) RecomputeProgress(ctx context.Context, orderID int) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	since := s.now().Add(-s.progressWindow)
	count, err := s.repo.CountPassedItemsSince(ctx, orderID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count passed items")
	}

	if err := s.repo.UpdateCompleted(ctx, order.ID, int(count)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update progress")
	}
	return s.GetOrder(ctx, orderID)
}

// CleanupItems deletes every inspected item (and its flaws) for the order
// and resets the counter, all in one transaction.
func (s *service) CleanupItems(ctx context.Context, orderID int) (*CleanupResult, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	var deleted int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.DeleteItems(ctx, orderID)
		if err != nil {
			return err
		}
		deleted = count
		return repo.UpdateCompleted(ctx, orderID, 0)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cleanup inspected items")
	}

	return &CleanupResult{OrderID: orderID, DeletedItems: deleted}, nil
}

func (s *service) lookupUser(ctx context.Context, id int, field string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, field+" not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup "+field)
	}
	return nil
}
