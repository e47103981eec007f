package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yahyarahhawi/StitchGuard-db/internal/orders"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type stubOrdersService struct {
	orders.Service

	updateProgressFn func(ctx context.Context, orderID, completed int) (*models.Order, error)
	recomputeFn      func(ctx context.Context, orderID int) (*models.Order, error)
	cleanupFn        func(ctx context.Context, orderID int) (*orders.CleanupResult, error)
	listFn           func(ctx context.Context, params pagination.Params, filters orders.ListFilters) ([]models.Order, error)
}

func (s stubOrdersService) UpdateProgress(ctx context.Context, orderID, completed int) (*models.Order, error) {
	return s.updateProgressFn(ctx, orderID, completed)
}

func (s stubOrdersService) RecomputeProgress(ctx context.Context, orderID int) (*models.Order, error) {
	return s.recomputeFn(ctx, orderID)
}

func (s stubOrdersService) CleanupItems(ctx context.Context, orderID int) (*orders.CleanupResult, error) {
	return s.cleanupFn(ctx, orderID)
}

func (s stubOrdersService) ListOrders(ctx context.Context, params pagination.Params, filters orders.ListFilters) ([]models.Order, error) {
	return s.listFn(ctx, params, filters)
}

func TestUpdateOrderProgress(t *testing.T) {
	svc := stubOrdersService{
		updateProgressFn: func(ctx context.Context, orderID, completed int) (*models.Order, error) {
			if orderID != 5 || completed != 0 {
				t.Fatalf("unexpected args order=%d completed=%d", orderID, completed)
			}
			return &models.Order{ID: 5, Completed: 0}, nil
		},
	}

	// zero is a valid boundary and must survive the required check
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"completed":0}`)), "orderId", "5")
	resp := httptest.NewRecorder()
	UpdateOrderProgress(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateOrderProgressPolicyViolation(t *testing.T) {
	svc := stubOrdersService{
		updateProgressFn: func(ctx context.Context, orderID, completed int) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodePolicy, "completed out of range")
		},
	}

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"completed":11}`)), "orderId", "5")
	resp := httptest.NewRecorder()
	UpdateOrderProgress(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateOrderProgressMissingCompleted(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`)), "orderId", "5")
	resp := httptest.NewRecorder()
	UpdateOrderProgress(stubOrdersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCleanupOrderItems(t *testing.T) {
	svc := stubOrdersService{
		cleanupFn: func(ctx context.Context, orderID int) (*orders.CleanupResult, error) {
			return &orders.CleanupResult{OrderID: orderID, DeletedItems: 4}, nil
		},
	}

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "orderId", "9")
	resp := httptest.NewRecorder()
	CleanupOrderItems(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orders.CleanupResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DeletedItems != 4 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestListOrdersFilters(t *testing.T) {
	svc := stubOrdersService{
		listFn: func(ctx context.Context, params pagination.Params, filters orders.ListFilters) ([]models.Order, error) {
			if filters.SewerID == nil || *filters.SewerID != 3 {
				t.Fatalf("unexpected filters %+v", filters)
			}
			if filters.SupervisorID != nil || filters.ProductID != nil {
				t.Fatalf("unexpected filters %+v", filters)
			}
			return []models.Order{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?sewer_id=3", nil)
	resp := httptest.NewRecorder()
	ListOrders(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListOrdersRejectsBadFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?sewer_id=nope", nil)
	resp := httptest.NewRecorder()
	ListOrders(stubOrdersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
