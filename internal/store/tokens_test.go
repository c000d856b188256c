package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/donamatch/internal/db"
	"github.com/erazemk/donamatch/internal/model"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	u := mustUser(t, database, "dana", model.RoleDonor)

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not to be revoked")
	}

	if err := RevokeToken(ctx, database, "jti-1", u.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}

	revoked, _ = IsTokenRevoked(ctx, database, "jti-2")
	if revoked {
		t.Error("expected other token not to be revoked")
	}
}

func TestRevokeTokenIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	u := mustUser(t, database, "dana", model.RoleDonor)

	for i := 0; i < 2; i++ {
		if err := RevokeToken(ctx, database, "jti-1", u.ID, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("RevokeToken #%d: %v", i+1, err)
		}
	}

	n, err := CountRevokedTokens(ctx, database, u.ID)
	if err != nil {
		t.Fatalf("CountRevokedTokens: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 revocation, got %d", n)
	}
}

func TestRevokeTokenPurgesExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	u := mustUser(t, database, "dana", model.RoleDonor)

	if err := RevokeToken(ctx, database, "old", u.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if err := RevokeToken(ctx, database, "new", u.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ := IsTokenRevoked(ctx, database, "old")
	if revoked {
		t.Error("expected expired revocation to be purged")
	}
	revoked, _ = IsTokenRevoked(ctx, database, "new")
	if !revoked {
		t.Error("expected fresh revocation to remain")
	}
}

func TestRevokeTokenUnknownUser(t *testing.T) {
	database := db.NewTestDB(t)

	err := RevokeToken(context.Background(), database, "jti-1", 999, time.Now().Add(time.Hour))
	if err == nil {
		t.Error("expected error for a token of an unknown user")
	}
}
