package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/yahyarahhawi/StitchGuard-db/api/responses"
	"github.com/yahyarahhawi/StitchGuard-db/api/validators"
	"github.com/yahyarahhawi/StitchGuard-db/internal/inspection"
	"github.com/yahyarahhawi/StitchGuard-db/internal/products"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

type recordFlawRequest struct {
	FlawType    string     `json:"flaw_type" validate:"required,max=100"`
	Orientation string     `json:"orientation" validate:"required,max=100"`
	DetectedAt  *time.Time `json:"detected_at,omitempty"`
}

type recordItemRequest struct {
	SerialNumber  string              `json:"serial_number" validate:"required,max=200"`
	OrderID       int                 `json:"order_id" validate:"required,gt=0"`
	SewerID       int                 `json:"sewer_id" validate:"required,gt=0"`
	Status        string              `json:"status" validate:"required"`
	FrontImageURL *string             `json:"front_image_url,omitempty"`
	BackImageURL  *string             `json:"back_image_url,omitempty"`
	InspectedAt   *time.Time          `json:"inspected_at,omitempty"`
	Flaws         []recordFlawRequest `json:"flaws" validate:"omitempty,dive"`
}

// GetInspectionConfig returns the orientations and rules the mobile client
// needs before inspecting a product.
func GetInspectionConfig(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		config, err := svc.GetInspectionConfig(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, config)
	}
}

// RecordInspectedItem persists one scanned unit and its flaws atomically.
func RecordInspectedItem(svc inspection.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inspection service unavailable"))
			return
		}

		var body recordItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseItemStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		flaws := make([]inspection.FlawInput, 0, len(body.Flaws))
		for _, flaw := range body.Flaws {
			flaws = append(flaws, inspection.FlawInput{
				FlawType:    validators.SanitizeString(flaw.FlawType, 100),
				Orientation: validators.SanitizeString(flaw.Orientation, 100),
				DetectedAt:  flaw.DetectedAt,
			})
		}

		// Barcode scanners pad serials with whitespace on some devices.
		item, err := svc.Record(r.Context(), inspection.RecordInput{
			SerialNumber:  validators.SanitizeString(body.SerialNumber, 200),
			OrderID:       body.OrderID,
			SewerID:       body.SewerID,
			Status:        status,
			FrontImageURL: body.FrontImageURL,
			BackImageURL:  body.BackImageURL,
			InspectedAt:   body.InspectedAt,
			Flaws:         flaws,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// GetInspectedItem fetches one recorded unit with its flaws.
func GetInspectedItem(svc inspection.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inspection service unavailable"))
			return
		}

		id, err := parseIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ListInspectedItems returns recorded units, optionally filtered by order,
// sewer, or status.
func ListInspectedItems(svc inspection.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inspection service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters inspection.ListFilters
		if filters.OrderID, err = parseOptionalQueryInt(r, "order_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.SewerID, err = parseOptionalQueryInt(r, "sewer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseItemStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.ListItems(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
