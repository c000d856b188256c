package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// CreateMatch links an open donation to an active need. The donation
// becomes matched, the need fulfilled and one match row is recorded, all
// in one transaction.
func (s *Service) CreateMatch(ctx context.Context, actor model.Actor, donationID, needID int64, notes string) (*model.Match, error) {
	if err := requireAdmin(actor, "create matches"); err != nil {
		s.Metrics.IncMatchFailure("forbidden")
		return nil, err
	}

	matchedBy := actor.UserID
	m, err := store.CreateMatch(ctx, s.DB, donationID, needID, notes, &matchedBy)
	if err != nil {
		err = translate(err)
		if kind := apperr.KindOf(err); kind != "" {
			s.Metrics.IncMatchFailure(string(kind))
		}
		slog.Warn("match rejected", "donation", donationID, "need", needID, "by", actor.Username, "error", err)
		return nil, err
	}

	s.Metrics.IncMatchCreated()
	slog.Info("match created", "id", m.ID, "donation", donationID, "need", needID, "by", actor.Username)
	return m, nil
}

// GetMatch returns a match. Admin only.
func (s *Service) GetMatch(ctx context.Context, actor model.Actor, id int64) (*model.Match, error) {
	if err := requireAdmin(actor, "view matches"); err != nil {
		return nil, err
	}
	m, err := store.GetMatch(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("match %d not found", id)
	}
	return m, nil
}

// ListMatches returns matches newest first. Admin only.
func (s *Service) ListMatches(ctx context.Context, actor model.Actor, f model.MatchFilter) ([]model.Match, error) {
	if err := requireAdmin(actor, "list matches"); err != nil {
		return nil, err
	}
	return store.ListMatches(ctx, s.DB, f)
}

// Dashboard is the admin overview of open work.
type Dashboard struct {
	UnmatchedDonations []model.Donation       `json:"unmatched_donations"`
	ActiveNeeds        []model.Need           `json:"active_needs"`
	OpenReports        []model.DonationReport `json:"open_reports"`
	RecentMatches      []model.Match          `json:"recent_matches"`
}

// RecentMatchLimit bounds Dashboard.RecentMatches.
const RecentMatchLimit = 10

// Dashboard loads the admin overview. The lists are read concurrently and
// the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context, actor model.Actor) (*Dashboard, error) {
	if err := requireAdmin(actor, "view the dashboard"); err != nil {
		return nil, err
	}

	d := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		d.UnmatchedDonations, err = store.ListDonations(ctx, s.DB, store.DonationFilter{UnmatchedOnly: true})
		return err
	})
	g.Go(func() error {
		var err error
		d.ActiveNeeds, err = store.ListNeeds(ctx, s.DB, model.NeedFilter{Status: model.NeedStatusActive})
		return err
	})
	g.Go(func() error {
		var err error
		d.OpenReports, err = store.ListReports(ctx, s.DB, 0)
		return err
	})
	g.Go(func() error {
		var err error
		d.RecentMatches, err = store.ListMatches(ctx, s.DB, model.MatchFilter{Limit: RecentMatchLimit})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
