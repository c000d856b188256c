package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/donamatch/internal/service"
)

// ReportsHandler handles report moderation endpoints.
type ReportsHandler struct {
	Svc *service.Service
}

// List handles GET /api/reports?donation_id=.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	donationID, ok := queryID(r, "donation_id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation_id")
		return
	}

	reports, err := h.Svc.ListReports(r.Context(), GetActor(r.Context()), donationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(reports))
}

// Resolve handles DELETE /api/reports/{id}?clear_flag=. The donation stays
// flagged unless clear_flag is true and no other reports remain.
func (h *ReportsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	clearFlag := false
	if v := r.URL.Query().Get("clear_flag"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid clear_flag")
			return
		}
		clearFlag = b
	}

	cleared, err := h.Svc.ResolveReport(r.Context(), GetActor(r.Context()), id, clearFlag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"flag_cleared": cleared})
}
