package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// SubmitDonation records a new, unmatched donation for a donor.
func (s *Service) SubmitDonation(ctx context.Context, actor model.Actor, in model.DonationInput) (*model.Donation, error) {
	if err := requireRole(actor, model.RoleDonor, "submit donations"); err != nil {
		return nil, err
	}

	in.Item = strings.TrimSpace(in.Item)
	if in.Item == "" {
		return nil, apperr.Validation("item is required")
	}
	if in.Type != "" && !model.ValidDonationType(in.Type) {
		return nil, apperr.Validation("invalid donation type %q", in.Type)
	}
	if in.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}

	d, err := store.CreateDonation(ctx, s.DB, actor.UserID, in)
	if err != nil {
		return nil, err
	}

	s.Metrics.IncDonationSubmitted()
	slog.Info("donation submitted", "id", d.ID, "item", d.Item, "donor", actor.Username)
	return d, nil
}

// GetDonation returns a donation. Owners and admins see any of their
// donations; other users may only view donations that are still open.
func (s *Service) GetDonation(ctx context.Context, actor model.Actor, id int64) (*model.Donation, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	d, err := s.loadDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Matched && !actor.OwnsOrAdmin(d.DonorID) {
		return nil, apperr.Forbidden("donation %d is no longer available", id)
	}
	return d, nil
}

// ListUnmatchedDonations returns open donations, newest first. Admin only.
func (s *Service) ListUnmatchedDonations(ctx context.Context, actor model.Actor) ([]model.Donation, error) {
	if err := requireAdmin(actor, "list unmatched donations"); err != nil {
		return nil, err
	}
	return store.ListDonations(ctx, s.DB, store.DonationFilter{UnmatchedOnly: true})
}

// ListDonationsByDonor returns one donor's donations, newest first.
func (s *Service) ListDonationsByDonor(ctx context.Context, actor model.Actor, donorID int64) ([]model.Donation, error) {
	if err := requireSelfOrAdmin(actor, donorID, "list these donations"); err != nil {
		return nil, err
	}
	return store.ListDonations(ctx, s.DB, store.DonationFilter{DonorID: donorID})
}

// ListAllDonations returns every donation, newest first. Admin only.
func (s *Service) ListAllDonations(ctx context.Context, actor model.Actor) ([]model.Donation, error) {
	if err := requireAdmin(actor, "list all donations"); err != nil {
		return nil, err
	}
	return store.ListDonations(ctx, s.DB, store.DonationFilter{})
}

// SearchDonations finds open donations whose item or description contains
// text and whose location contains location. Matching is case-insensitive
// and empty terms match everything.
func (s *Service) SearchDonations(ctx context.Context, actor model.Actor, text, location string) ([]model.Donation, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return store.ListDonations(ctx, s.DB, store.DonationFilter{
		UnmatchedOnly: true,
		Text:          text,
		Location:      location,
	})
}

// ForceSetDonationMatched sets the matched flag without going through the
// matching engine. No match row is written or removed.
func (s *Service) ForceSetDonationMatched(ctx context.Context, actor model.Actor, id int64, matched bool) (*model.Donation, error) {
	if err := requireAdmin(actor, "override donation status"); err != nil {
		return nil, err
	}
	if err := store.SetDonationMatched(ctx, s.DB, id, matched); err != nil {
		return nil, translate(err)
	}

	s.Metrics.IncOverride("donation")
	slog.Info("donation status overridden", "id", id, "matched", matched, "by", actor.Username)
	return s.loadDonation(ctx, id)
}

// ToggleDonationMatched flips the matched flag through ForceSetDonationMatched.
func (s *Service) ToggleDonationMatched(ctx context.Context, actor model.Actor, id int64) (*model.Donation, error) {
	if err := requireAdmin(actor, "override donation status"); err != nil {
		return nil, err
	}
	d, err := s.loadDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ForceSetDonationMatched(ctx, actor, id, !d.Matched)
}

// UpdateDonation applies a partial update. Match and flag state cannot be
// changed here.
func (s *Service) UpdateDonation(ctx context.Context, actor model.Actor, id int64, patch model.DonationPatch) (*model.Donation, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	d, err := s.loadDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsOrAdmin(d.DonorID) {
		return nil, apperr.Forbidden("only the donor or an admin can edit this donation")
	}

	if err := patch.Apply(d); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	if err := store.UpdateDonation(ctx, s.DB, d); err != nil {
		return nil, translate(err)
	}

	slog.Info("donation updated", "id", id, "by", actor.Username)
	return s.loadDonation(ctx, id)
}

// DeleteDonation removes a donation with its media and reports. Donations
// that are part of a match are kept.
func (s *Service) DeleteDonation(ctx context.Context, actor model.Actor, id int64) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	d, err := s.loadDonation(ctx, id)
	if err != nil {
		return err
	}
	if !actor.OwnsOrAdmin(d.DonorID) {
		return apperr.Forbidden("only the donor or an admin can delete this donation")
	}

	if err := store.DeleteDonation(ctx, s.DB, id); err != nil {
		return translate(err)
	}
	slog.Info("donation deleted", "id", id, "item", d.Item, "by", actor.Username)
	return nil
}

func (s *Service) loadDonation(ctx context.Context, id int64) (*model.Donation, error) {
	d, err := store.GetDonation(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("donation %d not found", id)
	}
	return d, nil
}
