package mlmodels

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/config"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

// CreateModelInput holds the metadata accepted when registering a model.
type CreateModelInput struct {
	Name        string
	Type        *string
	Version     *string
	Description *string
	Platform    *enums.ModelPlatform
	FileURL     *string
	ProductID   *int
}

// UpdateModelInput carries partial updates; nil fields are left unchanged.
type UpdateModelInput struct {
	Name        *string
	Type        *string
	Version     *string
	Description *string
	Platform    *enums.ModelPlatform
	FileURL     *string
	ProductID   *int
}

// ModelFileURL is one downloadable weight file advertised to the client.
type ModelFileURL struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Service exposes model metadata CRUD plus weight-file access.
type Service interface {
	ListModels(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.MLModel, error)
	CreateModel(ctx context.Context, input CreateModelInput) (*models.MLModel, error)
	GetModel(ctx context.Context, id int) (*models.MLModel, error)
	UpdateModel(ctx context.Context, id int, input UpdateModelInput) (*models.MLModel, error)
	DeleteModel(ctx context.Context, id int) error
	ListFileURLs() []ModelFileURL
	ResolveFile(filename string) (path string, contentType string, err error)
}

type service struct {
	repo     Repository
	filesDir string
	fileURLs map[string]string
}

// NewService builds a model service backed by the provided repository and
// file configuration.
func NewService(repo Repository, cfg config.ModelsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("models repository required")
	}
	return &service{
		repo:     repo,
		filesDir: cfg.FilesDir,
		fileURLs: cfg.FileURLs,
	}, nil
}

func (s *service) ListModels(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.MLModel, error) {
	rows, err := s.repo.List(ctx, pagination.Normalize(params), filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list models")
	}
	return rows, nil
}

func (s *service) CreateModel(ctx context.Context, input CreateModelInput) (*models.MLModel, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Platform != nil && !input.Platform.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform must be coreml, onnx, or pt")
	}

	created, err := s.repo.Create(ctx, &models.MLModel{
		Name:        name,
		Type:        input.Type,
		Version:     input.Version,
		Description: input.Description,
		Platform:    input.Platform,
		FileURL:     input.FileURL,
		ProductID:   input.ProductID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create model")
	}
	return created, nil
}

func (s *service) GetModel(ctx context.Context, id int) (*models.MLModel, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup model")
	}
	return row, nil
}

func (s *service) UpdateModel(ctx context.Context, id int, input UpdateModelInput) (*models.MLModel, error) {
	row, err := s.GetModel(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		row.Name = name
	}
	if input.Type != nil {
		row.Type = input.Type
	}
	if input.Version != nil {
		row.Version = input.Version
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Platform != nil {
		if !input.Platform.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform must be coreml, onnx, or pt")
		}
		row.Platform = input.Platform
	}
	if input.FileURL != nil {
		row.FileURL = input.FileURL
	}
	if input.ProductID != nil {
		row.ProductID = input.ProductID
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update model")
	}
	return row, nil
}

func (s *service) DeleteModel(ctx context.Context, id int) error {
	if _, err := s.GetModel(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete model")
	}
	return nil
}

func (s *service) ListFileURLs() []ModelFileURL {
	urls := make([]ModelFileURL, 0, len(s.fileURLs))
	for name, url := range s.fileURLs {
		urls = append(urls, ModelFileURL{Name: name, URL: url})
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].Name < urls[j].Name })
	return urls
}

func (s *service) ResolveFile(filename string) (string, string, error) {
	cleaned := filepath.Base(strings.TrimSpace(filename))
	if cleaned == "" || cleaned == "." || cleaned == string(filepath.Separator) {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}

	path := filepath.Join(s.filesDir, cleaned)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", "", pkgerrors.New(pkgerrors.CodeNotFound, "model file not found")
	}
	return path, contentTypeForFile(cleaned), nil
}

func contentTypeForFile(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mlmodel", ".mlmodelc", ".mlpackage":
		return "application/x-coreml"
	case ".onnx":
		return "application/x-onnx"
	case ".pt", ".pth":
		return "application/x-pytorch"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
