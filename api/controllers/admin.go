package controllers

import (
	"net/http"

	"github.com/yahyarahhawi/StitchGuard-db/api/responses"
	"github.com/yahyarahhawi/StitchGuard-db/internal/admin"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

// AdminMigrateOrderAssignment triggers the one-shot legacy schema
// reconciliation and reports per-step outcomes.
func AdminMigrateOrderAssignment(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		result, err := svc.MigrateOrderAssignment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
