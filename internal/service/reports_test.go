package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/model"
)

func TestReportResolveScenario(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Canned soup"})

	r, err := f.svc.ReportDonation(f.ctx, f.recipient, d.ID, "expired")
	require.NoError(t, err)

	got, err := f.svc.GetDonation(f.ctx, f.admin, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Flagged)

	reports, err := f.svc.ListReports(f.ctx, f.admin, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "expired", reports[0].Reason)

	cleared, err := f.svc.ResolveReport(f.ctx, f.admin, r.ID, false)
	require.NoError(t, err)
	assert.False(t, cleared)

	reports, err = f.svc.ListReports(f.ctx, f.admin, d.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)

	got, _ = f.svc.GetDonation(f.ctx, f.admin, d.ID)
	assert.True(t, got.Flagged, "resolving keeps the flag unless asked to clear it")
}

func TestResolveReportClearFlag(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Canned soup"})
	r, err := f.svc.ReportDonation(f.ctx, f.recipient, d.ID, "expired")
	require.NoError(t, err)

	cleared, err := f.svc.ResolveReport(f.ctx, f.admin, r.ID, true)
	require.NoError(t, err)
	assert.True(t, cleared)

	got, _ := f.svc.GetDonation(f.ctx, f.admin, d.ID)
	assert.False(t, got.Flagged)

	_, err = f.svc.ResolveReport(f.ctx, f.admin, r.ID, true)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReportDonationErrors(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t, model.DonationInput{Item: "Canned soup"})

	_, err := f.svc.ReportDonation(f.ctx, f.recipient, d.ID, "   ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.ReportDonation(f.ctx, f.recipient, 9999, "spam")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.ListReports(f.ctx, f.recipient, 0)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	r, err := f.svc.ReportDonation(f.ctx, f.donor, d.ID, "duplicate listing")
	require.NoError(t, err)
	_, err = f.svc.ResolveReport(f.ctx, f.donor, r.ID, true)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
}
