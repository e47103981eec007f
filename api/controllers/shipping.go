package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yahyarahhawi/StitchGuard-db/api/responses"
	"github.com/yahyarahhawi/StitchGuard-db/api/validators"
	"github.com/yahyarahhawi/StitchGuard-db/internal/shipping"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

type createShippingRequest struct {
	Address         string           `json:"address" validate:"required,max=500"`
	ShippingMethod  string           `json:"shipping_method" validate:"required,max=100"`
	TrackingNumber  string           `json:"tracking_number" validate:"required,max=100"`
	CompletionDate  *time.Time       `json:"completion_date,omitempty"`
	ShippingCost    *decimal.Decimal `json:"shipping_cost,omitempty"`
	ReceiptPhotoURL *string          `json:"receipt_photo_url,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// CreateShipping records shipment details for a completed order.
func CreateShipping(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createShippingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), shipping.CreateInput{
			OrderID:         orderID,
			Address:         body.Address,
			ShippingMethod:  body.ShippingMethod,
			TrackingNumber:  body.TrackingNumber,
			CompletionDate:  body.CompletionDate,
			ShippingCost:    body.ShippingCost,
			ReceiptPhotoURL: body.ReceiptPhotoURL,
			Notes:           body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// GetShippingStatus reports whether an order's shipment has gone out.
func GetShippingStatus(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.GetStatus(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// MarkShipped stamps the shipment as handed off. Repeated calls keep the
// original timestamp.
func MarkShipped(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.MarkShipped(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
