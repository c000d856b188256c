package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/model"
)

func TestRiceScenario(t *testing.T) {
	f := newFixture(t)

	d := f.donation(t, model.DonationInput{Item: "Rice", Quantity: 10, Unit: "kg"})
	n := f.need(t, model.NeedInput{Title: "Rice", Category: model.CategoryFood})

	unmatched, err := f.svc.ListUnmatchedDonations(f.ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, unmatched, 1)

	m, err := f.svc.CreateMatch(f.ctx, f.admin, d.ID, n.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.MatchStatusMatched, m.Status)
	require.NotNil(t, m.MatchedBy)
	assert.Equal(t, f.admin.UserID, *m.MatchedBy)

	gotD, err := f.svc.GetDonation(f.ctx, f.admin, d.ID)
	require.NoError(t, err)
	assert.True(t, gotD.Matched)
	assert.Equal(t, model.ViaMatch, gotD.MatchedVia)

	gotN, err := f.svc.GetNeed(f.ctx, f.recipient, n.ID)
	require.NoError(t, err)
	assert.True(t, gotN.Fulfilled)

	unmatched, err = f.svc.ListUnmatchedDonations(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, unmatched)

	active, err := f.svc.ListUnfulfilledNeeds(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, active)

	matches, err := f.svc.ListMatches(f.ctx, f.admin, model.MatchFilter{DonationID: d.ID})
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.svc.Metrics.MatchesCreated))
}

func TestCreateMatchRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Rice"})
	n := f.need(t, model.NeedInput{Title: "Rice"})

	for _, actor := range []model.Actor{f.donor, f.recipient} {
		_, err := f.svc.CreateMatch(f.ctx, actor, d.ID, n.ID, "")
		assert.True(t, apperr.Is(err, apperr.KindAuthorization), "role %s: %v", actor.Role, err)
	}

	// Authorization fails before any lookup, even for unknown ids.
	_, err := f.svc.CreateMatch(f.ctx, f.donor, 9999, 9999, "")
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	gotD, _ := f.svc.GetDonation(f.ctx, f.admin, d.ID)
	assert.False(t, gotD.Matched)
	gotN, _ := f.svc.GetNeed(f.ctx, f.admin, n.ID)
	assert.Equal(t, model.NeedStatusActive, gotN.Status)

	matches, _ := f.svc.ListMatches(f.ctx, f.admin, model.MatchFilter{})
	assert.Empty(t, matches)
	assert.Equal(t, 3.0, testutil.ToFloat64(f.svc.Metrics.MatchFailures.WithLabelValues("forbidden")))
}

func TestCreateMatchNotFound(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Rice"})
	n := f.need(t, model.NeedInput{Title: "Rice"})

	_, err := f.svc.CreateMatch(f.ctx, f.admin, 9999, n.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "%v", err)

	_, err = f.svc.CreateMatch(f.ctx, f.admin, d.ID, 9999, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "%v", err)

	matches, _ := f.svc.ListMatches(f.ctx, f.admin, model.MatchFilter{})
	assert.Empty(t, matches)
}

func TestCreateMatchConflict(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Rice"})
	d2 := f.donation(t, model.DonationInput{Item: "Beans"})
	n := f.need(t, model.NeedInput{Title: "Rice"})
	n2 := f.need(t, model.NeedInput{Title: "Beans"})

	_, err := f.svc.CreateMatch(f.ctx, f.admin, d.ID, n.ID, "")
	require.NoError(t, err)

	_, err = f.svc.CreateMatch(f.ctx, f.admin, d.ID, n2.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindConflict), "rematching a donation: %v", err)

	_, err = f.svc.CreateMatch(f.ctx, f.admin, d2.ID, n.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindConflict), "rematching a need: %v", err)

	_, err = f.svc.UpdateNeed(f.ctx, f.recipient, n2.ID, model.NeedPatch{Status: strPtr(model.NeedStatusCancelled)})
	require.NoError(t, err)
	_, err = f.svc.CreateMatch(f.ctx, f.admin, d2.ID, n2.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindConflict), "cancelled need: %v", err)
}

func TestGetMatch(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Rice"})
	n := f.need(t, model.NeedInput{Title: "Rice"})
	m, err := f.svc.CreateMatch(f.ctx, f.admin, d.ID, n.ID, "handover at depot")
	require.NoError(t, err)

	got, err := f.svc.GetMatch(f.ctx, f.admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "handover at depot", got.Notes)

	_, err = f.svc.GetMatch(f.ctx, f.donor, m.ID)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = f.svc.GetMatch(f.ctx, f.admin, 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Rice"})
	f.donation(t, model.DonationInput{Item: "Tent"})
	n := f.need(t, model.NeedInput{Title: "Rice"})
	f.need(t, model.NeedInput{Title: "Coats"})
	_, err := f.svc.CreateMatch(f.ctx, f.admin, d.ID, n.ID, "")
	require.NoError(t, err)
	_, err = f.svc.ReportDonation(f.ctx, f.recipient, d.ID, "wrong weight")
	require.NoError(t, err)

	dash, err := f.svc.Dashboard(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, dash.UnmatchedDonations, 1)
	assert.Len(t, dash.ActiveNeeds, 1)
	assert.Len(t, dash.OpenReports, 1)
	assert.Len(t, dash.RecentMatches, 1)

	_, err = f.svc.Dashboard(f.ctx, f.donor)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
}

func TestDashboardCapsRecentMatches(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < RecentMatchLimit+2; i++ {
		d := f.donation(t, model.DonationInput{Item: "Rice"})
		n := f.need(t, model.NeedInput{Title: "Rice"})
		_, err := f.svc.CreateMatch(f.ctx, f.admin, d.ID, n.ID, "")
		require.NoError(t, err)
	}

	dash, err := f.svc.Dashboard(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, dash.RecentMatches, RecentMatchLimit)
}

func strPtr(s string) *string { return &s }
