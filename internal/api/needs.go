package api

import (
	"net/http"

	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/service"
)

// NeedsHandler handles need endpoints.
type NeedsHandler struct {
	Svc *service.Service
}

type createNeedRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"omitempty,oneof=food clothing shelter medical education transport other"`
	Urgency     string  `json:"urgency_level" validate:"omitempty,oneof=low medium high critical"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"max=50"`
	Location    string  `json:"location" validate:"max=200"`
}

// updateNeedRequest has no enum validation: unknown values are ignored
// rather than rejected.
type updateNeedRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Urgency     *string  `json:"urgency_level"`
	Status      *string  `json:"status"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Location    *string  `json:"location"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active fulfilled cancelled"`
}

// List handles GET /api/needs?category=&urgency=&status=.
func (h *NeedsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	needs, err := h.Svc.ListNeeds(r.Context(), GetActor(r.Context()), model.NeedFilter{
		Category: q.Get("category"),
		Urgency:  q.Get("urgency"),
		Status:   q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(needs))
}

// Unfulfilled handles GET /api/needs/unfulfilled (admin).
func (h *NeedsHandler) Unfulfilled(w http.ResponseWriter, r *http.Request) {
	needs, err := h.Svc.ListUnfulfilledNeeds(r.Context(), GetActor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(needs))
}

// Mine handles GET /api/needs/mine.
func (h *NeedsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	needs, err := h.Svc.ListNeedsByRecipient(r.Context(), actor, actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(needs))
}

// Create handles POST /api/needs.
func (h *NeedsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNeedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.Svc.SubmitNeed(r.Context(), GetActor(r.Context()), model.NeedInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Urgency:     req.Urgency,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, n)
}

// Get handles GET /api/needs/{id}.
func (h *NeedsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid need id")
		return
	}

	n, err := h.Svc.GetNeed(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, n)
}

// Update handles PUT /api/needs/{id}.
func (h *NeedsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid need id")
		return
	}

	var req updateNeedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.Svc.UpdateNeed(r.Context(), GetActor(r.Context()), id, model.NeedPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Urgency:     req.Urgency,
		Status:      req.Status,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, n)
}

// Delete handles DELETE /api/needs/{id}.
func (h *NeedsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid need id")
		return
	}

	if err := h.Svc.DeleteNeed(r.Context(), GetActor(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/needs/{id}/toggle (admin).
func (h *NeedsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid need id")
		return
	}

	n, err := h.Svc.ToggleNeedFulfilled(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, n)
}

// SetStatus handles PUT /api/needs/{id}/status (admin).
func (h *NeedsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid need id")
		return
	}

	var req setStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.Svc.ForceSetNeedStatus(r.Context(), GetActor(r.Context()), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, n)
}
