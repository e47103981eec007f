package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yahyarahhawi/StitchGuard-db/internal/admin"
	"github.com/yahyarahhawi/StitchGuard-db/internal/analytics"
	"github.com/yahyarahhawi/StitchGuard-db/internal/inspection"
	"github.com/yahyarahhawi/StitchGuard-db/internal/mlmodels"
	"github.com/yahyarahhawi/StitchGuard-db/internal/orders"
	"github.com/yahyarahhawi/StitchGuard-db/internal/products"
	"github.com/yahyarahhawi/StitchGuard-db/internal/shipping"
	"github.com/yahyarahhawi/StitchGuard-db/internal/tutorials"
	"github.com/yahyarahhawi/StitchGuard-db/internal/users"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/config"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubUsersService struct {
	users.Service
}

func (stubUsersService) ListUsers(ctx context.Context, params pagination.Params) ([]models.User, error) {
	return []models.User{}, nil
}

type stubShippingService struct {
	shipping.Service
}

func (stubShippingService) GetStatus(ctx context.Context, orderID int) (*shipping.Status, error) {
	return &shipping.Status{OrderID: orderID}, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return NewRouter(cfg, nil, stubPinger{}, nil, nil, Services{
		Users:      stubUsersService{},
		Products:   struct{ products.Service }{},
		Orders:     struct{ orders.Service }{},
		Inspection: struct{ inspection.Service }{},
		Shipping:   stubShippingService{},
		Models:     struct{ mlmodels.Service }{},
		Tutorials:  struct{ tutorials.Service }{},
		Analytics:  struct{ analytics.Service }{},
		Admin:      struct{ admin.Service }{},
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if env := resp.Header().Get("X-StitchGuard-Env"); env != "test" {
			t.Fatalf("%s: unexpected env header %q", path, env)
		}
	}
}

func TestMetricsEndpointRegistered(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestVersionedRoutesRegistered(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"data"`) {
		t.Fatalf("expected data envelope, got %s", resp.Body.String())
	}
}

func TestShippingRouteBindsOrderParam(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/12/shipping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"order_id":12`) {
		t.Fatalf("expected bound order id, got %s", resp.Body.String())
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
