package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yahyarahhawi/StitchGuard-db/api/responses"
	"github.com/yahyarahhawi/StitchGuard-db/api/validators"
	"github.com/yahyarahhawi/StitchGuard-db/internal/mlmodels"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

type createModelRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=100"`
	Version     *string `json:"version,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	FileURL     *string `json:"file_url,omitempty"`
	ProductID   *int    `json:"product_id,omitempty" validate:"omitempty,gt=0"`
}

type updateModelRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=100"`
	Version     *string `json:"version,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	FileURL     *string `json:"file_url,omitempty"`
	ProductID   *int    `json:"product_id,omitempty" validate:"omitempty,gt=0"`
}

func parsePlatform(raw *string) (*enums.ModelPlatform, error) {
	if raw == nil {
		return nil, nil
	}
	platform := enums.ModelPlatform(strings.ToLower(strings.TrimSpace(*raw)))
	if !platform.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid platform").WithDetails(map[string]any{"field": "platform"})
	}
	return &platform, nil
}

// ListModels returns stored model metadata, optionally filtered by type or
// platform.
func ListModels(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters mlmodels.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			filters.Type = &raw
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("platform")); raw != "" {
			filters.Platform = &raw
		}

		list, err := svc.ListModels(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateModel stores metadata for an ML model build.
func CreateModel(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}

		var body createModelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		platform, err := parsePlatform(body.Platform)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		model, err := svc.CreateModel(r.Context(), mlmodels.CreateModelInput{
			Name:        body.Name,
			Type:        body.Type,
			Version:     body.Version,
			Description: body.Description,
			Platform:    platform,
			FileURL:     body.FileURL,
			ProductID:   body.ProductID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, model)
	}
}

// GetModel fetches one model's metadata.
func GetModel(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}

		id, err := parseIDParam(r, "modelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		model, err := svc.GetModel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, model)
	}
}

// UpdateModel applies a partial metadata update.
func UpdateModel(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}

		id, err := parseIDParam(r, "modelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateModelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		platform, err := parsePlatform(body.Platform)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		model, err := svc.UpdateModel(r.Context(), id, mlmodels.UpdateModelInput{
			Name:        body.Name,
			Type:        body.Type,
			Version:     body.Version,
			Description: body.Description,
			Platform:    platform,
			FileURL:     body.FileURL,
			ProductID:   body.ProductID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, model)
	}
}

// DeleteModel removes a model's metadata.
func DeleteModel(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}

		id, err := parseIDParam(r, "modelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteModel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListModelFiles returns the configured downloadable weight-file URLs.
func ListModelFiles(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.ListFileURLs())
	}
}

// DownloadModelFile serves a weight file from the local model directory.
func DownloadModelFile(svc mlmodels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "models service unavailable"))
			return
		}

		filename := strings.TrimSpace(chi.URLParam(r, "filename"))
		if filename == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "filename is required"))
			return
		}

		path, contentType, err := svc.ResolveFile(filename)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, path)
	}
}
