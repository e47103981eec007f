package controllers

import (
	"net/http"

	"github.com/yahyarahhawi/StitchGuard-db/api/responses"
	"github.com/yahyarahhawi/StitchGuard-db/api/validators"
	"github.com/yahyarahhawi/StitchGuard-db/internal/tutorials"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

type createTutorialRequest struct {
	ProductID   int     `json:"product_id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}

type updateTutorialRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type createStepRequest struct {
	TutorialID  int     `json:"tutorial_id" validate:"required,gt=0"`
	StepNumber  int     `json:"step_number" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,max=200"`
	Instruction *string `json:"instruction,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	VideoURL    *string `json:"video_url,omitempty"`
}

type updateStepRequest struct {
	StepNumber  *int    `json:"step_number,omitempty" validate:"omitempty,gt=0"`
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Instruction *string `json:"instruction,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	VideoURL    *string `json:"video_url,omitempty"`
}

// ListTutorials returns all tutorials, paginated.
func ListTutorials(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListTutorials(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListProductTutorials returns the tutorials attached to a product.
func ListProductTutorials(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetActiveProductTutorial returns the product's single active tutorial.
func GetActiveProductTutorial(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.GetActiveByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tutorial)
	}
}

// GetTutorial fetches one tutorial with its steps.
func GetTutorial(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		id, err := parseIDParam(r, "tutorialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.GetTutorial(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tutorial)
	}
}

// CreateTutorial attaches a tutorial to a product. An active tutorial
// deactivates its siblings.
func CreateTutorial(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		var body createTutorialRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.CreateTutorial(r.Context(), tutorials.CreateTutorialInput{
			ProductID:   body.ProductID,
			Title:       body.Title,
			Description: body.Description,
			IsActive:    body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tutorial)
	}
}

// UpdateTutorial applies a partial update.
func UpdateTutorial(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		id, err := parseIDParam(r, "tutorialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateTutorialRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.UpdateTutorial(r.Context(), id, tutorials.UpdateTutorialInput{
			Title:       body.Title,
			Description: body.Description,
			IsActive:    body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tutorial)
	}
}

// DeleteTutorial removes a tutorial and its steps.
func DeleteTutorial(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		id, err := parseIDParam(r, "tutorialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTutorial(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleTutorialActive flips a tutorial's active flag, deactivating
// siblings when it turns on.
func ToggleTutorialActive(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		id, err := parseIDParam(r, "tutorialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tutorial)
	}
}

// ListTutorialSteps returns a tutorial's steps in order.
func ListTutorialSteps(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		tutorialID, err := parseIDParam(r, "tutorialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		steps, err := svc.ListSteps(r.Context(), tutorialID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, steps)
	}
}

// CreateTutorialStep adds a step, unique per tutorial by step number.
func CreateTutorialStep(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		var body createStepRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step, err := svc.CreateStep(r.Context(), tutorials.CreateStepInput{
			TutorialID:  body.TutorialID,
			StepNumber:  body.StepNumber,
			Title:       body.Title,
			Instruction: body.Instruction,
			ImageURL:    body.ImageURL,
			VideoURL:    body.VideoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, step)
	}
}

// UpdateTutorialStep applies a partial step update.
func UpdateTutorialStep(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		id, err := parseIDParam(r, "stepId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStepRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step, err := svc.UpdateStep(r.Context(), id, tutorials.UpdateStepInput{
			StepNumber:  body.StepNumber,
			Title:       body.Title,
			Instruction: body.Instruction,
			ImageURL:    body.ImageURL,
			VideoURL:    body.VideoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, step)
	}
}

// DeleteTutorialStep removes one step.
func DeleteTutorialStep(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorials service unavailable"))
			return
		}

		id, err := parseIDParam(r, "stepId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteStep(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
