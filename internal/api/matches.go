package api

import (
	"net/http"

	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/service"
)

// MatchesHandler handles match and admin overview endpoints.
type MatchesHandler struct {
	Svc *service.Service
}

type createMatchRequest struct {
	DonationID int64  `json:"donation_id" validate:"required,gt=0"`
	NeedID     int64  `json:"need_id" validate:"required,gt=0"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// Create handles POST /api/matches.
func (h *MatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.Svc.CreateMatch(r.Context(), GetActor(r.Context()), req.DonationID, req.NeedID, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, m)
}

// List handles GET /api/matches?donation_id=&need_id=.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	donationID, ok := queryID(r, "donation_id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation_id")
		return
	}
	needID, ok := queryID(r, "need_id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid need_id")
		return
	}

	matches, err := h.Svc.ListMatches(r.Context(), GetActor(r.Context()), model.MatchFilter{
		DonationID: donationID,
		NeedID:     needID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(matches))
}

// Get handles GET /api/matches/{id}.
func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	m, err := h.Svc.GetMatch(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *MatchesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Dashboard(r.Context(), GetActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	d.UnmatchedDonations = emptyIfNil(d.UnmatchedDonations)
	d.ActiveNeeds = emptyIfNil(d.ActiveNeeds)
	d.OpenReports = emptyIfNil(d.OpenReports)
	d.RecentMatches = emptyIfNil(d.RecentMatches)
	jsonResponse(w, http.StatusOK, d)
}
