package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// NeedStatusAll disables the status filter of ListNeeds.
const NeedStatusAll = "all"

// SubmitNeed records a new active need for a recipient.
func (s *Service) SubmitNeed(ctx context.Context, actor model.Actor, in model.NeedInput) (*model.Need, error) {
	if err := requireRole(actor, model.RoleRecipient, "submit needs"); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if in.Category != "" && !model.ValidCategory(in.Category) {
		return nil, apperr.Validation("invalid category %q", in.Category)
	}
	if in.Urgency != "" && !model.ValidUrgency(in.Urgency) {
		return nil, apperr.Validation("invalid urgency level %q", in.Urgency)
	}
	if in.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}

	n, err := store.CreateNeed(ctx, s.DB, actor.UserID, in)
	if err != nil {
		return nil, err
	}

	s.Metrics.IncNeedSubmitted()
	slog.Info("need submitted", "id", n.ID, "title", n.Title, "recipient", actor.Username)
	return n, nil
}

// GetNeed returns a need to any signed-in user.
func (s *Service) GetNeed(ctx context.Context, actor model.Actor, id int64) (*model.Need, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.loadNeed(ctx, id)
}

// ListNeeds browses needs, newest first. An empty status means active;
// NeedStatusAll lists every status.
func (s *Service) ListNeeds(ctx context.Context, actor model.Actor, f model.NeedFilter) ([]model.Need, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	switch {
	case f.Status == "":
		f.Status = model.NeedStatusActive
	case f.Status == NeedStatusAll:
		f.Status = ""
	case !model.ValidNeedStatus(f.Status):
		return nil, apperr.Validation("invalid status %q", f.Status)
	}
	if f.Category != "" && !model.ValidCategory(f.Category) {
		return nil, apperr.Validation("invalid category %q", f.Category)
	}
	if f.Urgency != "" && !model.ValidUrgency(f.Urgency) {
		return nil, apperr.Validation("invalid urgency level %q", f.Urgency)
	}

	return store.ListNeeds(ctx, s.DB, f)
}

// ListUnfulfilledNeeds returns active needs, newest first. Admin only.
func (s *Service) ListUnfulfilledNeeds(ctx context.Context, actor model.Actor) ([]model.Need, error) {
	if err := requireAdmin(actor, "list unfulfilled needs"); err != nil {
		return nil, err
	}
	return store.ListNeeds(ctx, s.DB, model.NeedFilter{Status: model.NeedStatusActive})
}

// ListNeedsByRecipient returns one recipient's needs in every status.
func (s *Service) ListNeedsByRecipient(ctx context.Context, actor model.Actor, recipientID int64) ([]model.Need, error) {
	if err := requireSelfOrAdmin(actor, recipientID, "list these needs"); err != nil {
		return nil, err
	}
	return store.ListNeeds(ctx, s.DB, model.NeedFilter{RecipientID: recipientID})
}

// ForceSetNeedStatus sets a need's status without going through the
// matching engine. No match row is written or removed.
func (s *Service) ForceSetNeedStatus(ctx context.Context, actor model.Actor, id int64, status string) (*model.Need, error) {
	if err := requireAdmin(actor, "override need status"); err != nil {
		return nil, err
	}
	if !model.ValidNeedStatus(status) {
		return nil, apperr.Validation("invalid status %q", status)
	}
	if err := store.SetNeedStatus(ctx, s.DB, id, status); err != nil {
		return nil, translate(err)
	}

	s.Metrics.IncOverride("need")
	slog.Info("need status overridden", "id", id, "status", status, "by", actor.Username)
	return s.loadNeed(ctx, id)
}

// ToggleNeedFulfilled flips between fulfilled and active. A cancelled need
// becomes fulfilled.
func (s *Service) ToggleNeedFulfilled(ctx context.Context, actor model.Actor, id int64) (*model.Need, error) {
	if err := requireAdmin(actor, "override need status"); err != nil {
		return nil, err
	}
	n, err := s.loadNeed(ctx, id)
	if err != nil {
		return nil, err
	}
	next := model.NeedStatusFulfilled
	if n.Fulfilled {
		next = model.NeedStatusActive
	}
	return s.ForceSetNeedStatus(ctx, actor, id, next)
}

// UpdateNeed applies a partial update. Owners may cancel or reopen their
// own need; only admins may move a need into or out of fulfilled, and that
// is recorded as an override. A non-admin status change touching fulfilled
// is dropped while the rest of the patch still applies.
func (s *Service) UpdateNeed(ctx context.Context, actor model.Actor, id int64, patch model.NeedPatch) (*model.Need, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	n, err := s.loadNeed(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsOrAdmin(n.RecipientID) {
		return nil, apperr.Forbidden("only the recipient or an admin can edit this need")
	}

	if !actor.IsAdmin() && patch.Status != nil && *patch.Status != n.Status &&
		(n.Status == model.NeedStatusFulfilled || *patch.Status == model.NeedStatusFulfilled) {
		slog.Debug("ignoring fulfilled status change from non-admin", "id", id, "by", actor.Username)
		patch.Status = nil
	}

	if patch.Apply(n) {
		if actor.IsAdmin() {
			n.StatusVia = model.ViaOverride
			s.Metrics.IncOverride("need")
		} else {
			n.StatusVia = model.ViaOwner
		}
	}

	if err := store.UpdateNeed(ctx, s.DB, n); err != nil {
		return nil, translate(err)
	}

	slog.Info("need updated", "id", id, "status", n.Status, "by", actor.Username)
	return s.loadNeed(ctx, id)
}

// DeleteNeed removes a need. Needs that are part of a match are kept.
func (s *Service) DeleteNeed(ctx context.Context, actor model.Actor, id int64) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	n, err := s.loadNeed(ctx, id)
	if err != nil {
		return err
	}
	if !actor.OwnsOrAdmin(n.RecipientID) {
		return apperr.Forbidden("only the recipient or an admin can delete this need")
	}

	if err := store.DeleteNeed(ctx, s.DB, id); err != nil {
		return translate(err)
	}
	slog.Info("need deleted", "id", id, "title", n.Title, "by", actor.Username)
	return nil
}

func (s *Service) loadNeed(ctx context.Context, id int64) (*model.Need, error) {
	n, err := store.GetNeed(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound("need %d not found", id)
	}
	return n, nil
}
