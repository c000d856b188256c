package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/donamatch/internal/db"
	"github.com/erazemk/donamatch/internal/metrics"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

type fixture struct {
	svc       *Service
	ctx       context.Context
	admin     model.Actor
	donor     model.Actor
	recipient model.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	f := &fixture{
		svc: New(database, metrics.New(prometheus.NewRegistry()), "test-secret", 0),
		ctx: context.Background(),
	}
	f.admin = f.actor(t, "admin", model.RoleAdmin)
	f.donor = f.actor(t, "dana", model.RoleDonor)
	f.recipient = f.actor(t, "rita", model.RoleRecipient)
	return f
}

// actor creates a user directly in the store and returns its Actor.
func (f *fixture) actor(t *testing.T, username, role string) model.Actor {
	t.Helper()
	u, err := store.CreateUser(f.ctx, f.svc.DB, username, username+"@example.org", "unused", role)
	require.NoError(t, err)
	return model.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (f *fixture) donation(t *testing.T, in model.DonationInput) *model.Donation {
	t.Helper()
	d, err := f.svc.SubmitDonation(f.ctx, f.donor, in)
	require.NoError(t, err)
	return d
}

func (f *fixture) need(t *testing.T, in model.NeedInput) *model.Need {
	t.Helper()
	n, err := f.svc.SubmitNeed(f.ctx, f.recipient, in)
	require.NoError(t, err)
	return n
}
