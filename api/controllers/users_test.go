package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yahyarahhawi/StitchGuard-db/internal/users"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

type stubUsersService struct {
	listFn   func(ctx context.Context, params pagination.Params) ([]models.User, error)
	createFn func(ctx context.Context, input users.CreateUserInput) (*models.User, error)
	getFn    func(ctx context.Context, id int) (*models.User, error)
}

func (s stubUsersService) ListUsers(ctx context.Context, params pagination.Params) ([]models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, nil
}

func (s stubUsersService) CreateUser(ctx context.Context, input users.CreateUserInput) (*models.User, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.User{}, nil
}

func (s stubUsersService) GetUser(ctx context.Context, id int) (*models.User, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &models.User{}, nil
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateUser(t *testing.T) {
	svc := stubUsersService{
		createFn: func(ctx context.Context, input users.CreateUserInput) (*models.User, error) {
			if input.Role != enums.UserRoleSewer {
				t.Fatalf("unexpected role %s", input.Role)
			}
			return &models.User{ID: 7, Name: input.Name, Email: input.Email, Role: input.Role}, nil
		},
	}

	body := `{"name":"Rosa","email":"rosa@example.com","role":"sewer"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateUser(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data models.User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != 7 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	body := `{"name":"Rosa","email":"rosa@example.com","role":"manager"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateUser(stubUsersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateUserMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	resp := httptest.NewRecorder()
	CreateUser(stubUsersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := stubUsersService{
		getFn: func(ctx context.Context, id int) (*models.User, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		},
	}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "userId", "42")
	resp := httptest.NewRecorder()
	GetUser(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGetUserRejectsNonNumericID(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "userId", "abc")
	resp := httptest.NewRecorder()
	GetUser(stubUsersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListUsersPagination(t *testing.T) {
	svc := stubUsersService{
		listFn: func(ctx context.Context, params pagination.Params) ([]models.User, error) {
			if params.Limit != 5 || params.Offset != 10 {
				t.Fatalf("unexpected params %+v", params)
			}
			return []models.User{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil)
	resp := httptest.NewRecorder()
	ListUsers(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
