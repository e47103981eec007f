package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
)

type ordersRepository interface {
	FindByID(ctx context.Context, id int) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput holds the shipment record for a completed order.
type CreateInput struct {
	OrderID         int
	Address         string
	ShippingMethod  string
	TrackingNumber  string
	CompletionDate  *time.Time
	ShippingCost    *decimal.Decimal
	ReceiptPhotoURL *string
	Notes           *string
}

// Status reports whether an order's shipment has left the facility.
type Status struct {
	OrderID        int        `json:"order_id"`
	Shipped        bool       `json:"shipped"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	TrackingNumber string     `json:"tracking_number"`
	ShippingMethod string     `json:"shipping_method"`
}

// Service gates shipment creation on order completion and enforces one
// shipment per order.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ShippingDetail, error)
	GetStatus(ctx context.Context, orderID int) (*Status, error)
	MarkShipped(ctx context.Context, orderID int) (*models.ShippingDetail, error)
}

type service struct {
	repo      Repository
	orderRepo ordersRepository
	tx        txRunner
	now       func() time.Time
}

// NewService builds the shipping gate.
func NewService(repo Repository, orderRepo ordersRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		tx:        tx,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ShippingDetail, error) {
	address := strings.TrimSpace(input.Address)
	method := strings.TrimSpace(input.ShippingMethod)
	tracking := strings.TrimSpace(input.TrackingNumber)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if method == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping_method is required")
	}
	if tracking == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking_number is required")
	}
	if input.ShippingCost != nil && input.ShippingCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping_cost must be non-negative")
	}

	detail := &models.ShippingDetail{
		OrderID:         input.OrderID,
		Address:         address,
		ShippingMethod:  method,
		TrackingNumber:  tracking,
		CompletionDate:  input.CompletionDate,
		ShippingCost:    input.ShippingCost,
		ReceiptPhotoURL: input.ReceiptPhotoURL,
		Notes:           input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.orderRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
		}
		if order.Completed < order.Quantity {
			return pkgerrors.New(pkgerrors.CodePolicy, "order is not complete").
				WithDetails(map[string]any{"completed": order.Completed, "quantity": order.Quantity})
		}

		// duplicate check applies regardless of payload differences
		if _, err := repo.FindByOrderID(ctx, input.OrderID); err == nil {
			return pkgerrors.New(pkgerrors.CodePolicy, "order already has a shipping record")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shipping record")
		}

		_, err = repo.Create(ctx, detail)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodePolicy, "order already has a shipping record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipping record")
	}
	return detail, nil
}

func (s *service) GetStatus(ctx context.Context, orderID int) (*Status, error) {
	detail, err := s.findDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Status{
		OrderID:        orderID,
		Shipped:        detail.ShippedAt != nil,
		ShippedAt:      detail.ShippedAt,
		TrackingNumber: detail.TrackingNumber,
		ShippingMethod: detail.ShippingMethod,
	}, nil
}

func (s *service) MarkShipped(ctx context.Context, orderID int) (*models.ShippingDetail, error) {
	detail, err := s.findDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if detail.ShippedAt != nil {
		return detail, nil
	}

	shippedAt := s.now().UTC()
	detail.ShippedAt = &shippedAt
	if err := s.repo.Update(ctx, detail); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark shipped")
	}
	return detail, nil
}

func (s *service) findDetail(ctx context.Context, orderID int) (*models.ShippingDetail, error) {
	detail, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shipping record")
	}
	return detail, nil
}
