package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// MaxReportReason bounds the length of a report reason.
const MaxReportReason = 1000

// ReportDonation files a report against a donation and flags it.
func (s *Service) ReportDonation(ctx context.Context, actor model.Actor, donationID int64, reason string) (*model.DonationReport, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("reason is required")
	}
	if len(reason) > MaxReportReason {
		return nil, apperr.Validation("reason must be at most %d characters", MaxReportReason)
	}

	r, err := store.CreateReport(ctx, s.DB, donationID, actor.UserID, reason)
	if err != nil {
		return nil, translate(err)
	}

	s.Metrics.IncReportFiled()
	slog.Info("donation reported", "report", r.ID, "donation", donationID, "by", actor.Username)
	return r, nil
}

// ListReports returns open reports, optionally for one donation. Admin only.
func (s *Service) ListReports(ctx context.Context, actor model.Actor, donationID int64) ([]model.DonationReport, error) {
	if err := requireAdmin(actor, "list reports"); err != nil {
		return nil, err
	}
	return store.ListReports(ctx, s.DB, donationID)
}

// ResolveReport deletes a report. The donation stays flagged unless
// clearFlag is set and it has no other open reports. It reports whether
// the flag was cleared.
func (s *Service) ResolveReport(ctx context.Context, actor model.Actor, reportID int64, clearFlag bool) (bool, error) {
	if err := requireAdmin(actor, "resolve reports"); err != nil {
		return false, err
	}

	r, cleared, err := store.DeleteReport(ctx, s.DB, reportID, clearFlag)
	if err != nil {
		return false, translate(err)
	}

	s.Metrics.IncReportResolved(cleared)
	slog.Info("report resolved", "report", reportID, "donation", r.DonationID, "flag_cleared", cleared, "by", actor.Username)
	return cleared, nil
}
