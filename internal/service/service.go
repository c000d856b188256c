// Package service implements the donation matching operations. Every
// operation takes the calling model.Actor explicitly, checks authorization
// before touching the store and returns apperr-classified errors.
package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/metrics"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// Service bundles the dependencies of the core operations.
type Service struct {
	DB        *sql.DB
	Metrics   *metrics.Metrics
	JWTSecret string
	TokenTTL  time.Duration
}

// New returns a Service. m may be nil.
func New(db *sql.DB, m *metrics.Metrics, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{DB: db, Metrics: m, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

// translate turns store sentinels into classified errors. Other errors are
// returned unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDonationNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "donation not found")
	case errors.Is(err, store.ErrNeedNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "need not found")
	case errors.Is(err, store.ErrReportNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "report not found")
	case errors.Is(err, store.ErrUserNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "user not found")
	case errors.Is(err, store.ErrDonationMatched):
		return apperr.Wrap(apperr.KindConflict, err, "donation is already matched")
	case errors.Is(err, store.ErrNeedNotActive):
		return apperr.Wrap(apperr.KindConflict, err, "need is not active")
	case errors.Is(err, store.ErrDonationHasMatch):
		return apperr.Wrap(apperr.KindConflict, err, "donation is part of a match and cannot be deleted")
	case errors.Is(err, store.ErrNeedHasMatch):
		return apperr.Wrap(apperr.KindConflict, err, "need is part of a match and cannot be deleted")
	case errors.Is(err, store.ErrDuplicateUsername):
		return apperr.Wrap(apperr.KindConflict, err, "username already taken")
	case errors.Is(err, store.ErrDuplicateEmail):
		return apperr.Wrap(apperr.KindConflict, err, "email already registered")
	}
	return err
}

func requireAuthenticated(actor model.Actor) error {
	if !actor.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// requireRole checks the actor's role; action completes the message
// "only <role>s can <action>".
func requireRole(actor model.Actor, role, action string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if actor.Role != role {
		return apperr.Forbidden("only %ss can %s", role, action)
	}
	return nil
}

func requireAdmin(actor model.Actor, action string) error {
	return requireRole(actor, model.RoleAdmin, action)
}

// requireSelfOrAdmin allows the owner of a record or an admin.
func requireSelfOrAdmin(actor model.Actor, ownerID int64, action string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.OwnsOrAdmin(ownerID) {
		return apperr.Forbidden("only the owner or an admin can %s", action)
	}
	return nil
}
