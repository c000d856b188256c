package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/donamatch/internal/media"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/service"
)

// DonationsHandler handles donation, donation report and media endpoints.
type DonationsHandler struct {
	Svc *service.Service
}

type createDonationRequest struct {
	Item                 string  `json:"item" validate:"required,max=200"`
	Type                 string  `json:"donation_type" validate:"omitempty,oneof=goods monetary services"`
	Quantity             float64 `json:"quantity" validate:"gte=0"`
	Unit                 string  `json:"unit" validate:"max=50"`
	Description          string  `json:"description" validate:"max=2000"`
	Location             string  `json:"location" validate:"max=200"`
	DeliveryAddress      string  `json:"delivery_address" validate:"max=500"`
	DeliveryInstructions string  `json:"delivery_instructions" validate:"max=2000"`
}

// updateDonationRequest has no enum validation: unknown donation types and
// statuses are ignored rather than rejected.
type updateDonationRequest struct {
	Item                 *string  `json:"item"`
	Type                 *string  `json:"donation_type"`
	Quantity             *float64 `json:"quantity"`
	Unit                 *string  `json:"unit"`
	Description          *string  `json:"description"`
	Location             *string  `json:"location"`
	DeliveryAddress      *string  `json:"delivery_address"`
	DeliveryInstructions *string  `json:"delivery_instructions"`
	DeliveryDate         *string  `json:"delivery_date"`
	Status               *string  `json:"status"`
}

type setMatchedRequest struct {
	Matched *bool `json:"matched" validate:"required"`
}

type reportRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// List handles GET /api/donations (admin).
func (h *DonationsHandler) List(w http.ResponseWriter, r *http.Request) {
	donations, err := h.Svc.ListAllDonations(r.Context(), GetActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(donations))
}

// Unmatched handles GET /api/donations/unmatched (admin).
func (h *DonationsHandler) Unmatched(w http.ResponseWriter, r *http.Request) {
	donations, err := h.Svc.ListUnmatchedDonations(r.Context(), GetActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(donations))
}

// Search handles GET /api/donations/search?q=&location=.
func (h *DonationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	donations, err := h.Svc.SearchDonations(r.Context(), GetActor(r.Context()), q.Get("q"), q.Get("location"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(donations))
}

// Mine handles GET /api/donations/mine.
func (h *DonationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	donations, err := h.Svc.ListDonationsByDonor(r.Context(), actor, actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(donations))
}

// Create handles POST /api/donations.
func (h *DonationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.Svc.SubmitDonation(r.Context(), GetActor(r.Context()), model.DonationInput{
		Item:                 req.Item,
		Type:                 req.Type,
		Quantity:             req.Quantity,
		Unit:                 req.Unit,
		Description:          req.Description,
		Location:             req.Location,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, d)
}

// Get handles GET /api/donations/{id}.
func (h *DonationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	d, err := h.Svc.GetDonation(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Update handles PUT /api/donations/{id}.
func (h *DonationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	var req updateDonationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.Svc.UpdateDonation(r.Context(), GetActor(r.Context()), id, model.DonationPatch{
		Item:                 req.Item,
		Type:                 req.Type,
		Quantity:             req.Quantity,
		Unit:                 req.Unit,
		Description:          req.Description,
		Location:             req.Location,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		DeliveryDate:         req.DeliveryDate,
		Status:               req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Delete handles DELETE /api/donations/{id}.
func (h *DonationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	if err := h.Svc.DeleteDonation(r.Context(), GetActor(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/donations/{id}/toggle (admin).
func (h *DonationsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	d, err := h.Svc.ToggleDonationMatched(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// SetMatched handles PUT /api/donations/{id}/matched (admin).
func (h *DonationsHandler) SetMatched(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	var req setMatchedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.Svc.ForceSetDonationMatched(r.Context(), GetActor(r.Context()), id, *req.Matched)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Report handles POST /api/donations/{id}/reports.
func (h *DonationsHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.ReportDonation(r.Context(), GetActor(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, report)
}

// ListMedia handles GET /api/donations/{id}/media.
func (h *DonationsHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	list, err := h.Svc.ListMedia(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}

// UploadMedia handles POST /api/donations/{id}/media as a multipart form
// with an "image" file field.
func (h *DonationsHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	// Leave headroom for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	m, err := h.Svc.AttachMedia(r.Context(), GetActor(r.Context()), id, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, m)
}

// GetMedia handles GET /api/media/{id}.
func (h *DonationsHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	data, mime, err := h.Svc.GetMedia(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
