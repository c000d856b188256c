package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/media"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// AttachMedia normalizes an uploaded photo and stores it with a donation.
func (s *Service) AttachMedia(ctx context.Context, actor model.Actor, donationID int64, r io.Reader) (*model.DonationMedia, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	d, err := s.loadDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsOrAdmin(d.DonorID) {
		return nil, apperr.Forbidden("only the donor or an admin can add photos")
	}

	photo, err := media.Normalize(r)
	if errors.Is(err, media.ErrUnsupported) {
		return nil, apperr.Wrap(apperr.KindValidation, err, "only JPEG and PNG images are accepted")
	}
	if errors.Is(err, media.ErrTooLarge) {
		return nil, apperr.Wrap(apperr.KindValidation, err, "image is too large")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "image could not be read")
	}

	m, err := store.AddDonationMedia(ctx, s.DB, donationID, photo.Data, photo.MIME)
	if err != nil {
		return nil, translate(err)
	}

	slog.Info("donation media attached", "donation", donationID, "media", m.ID, "size", m.Size, "by", actor.Username)
	return m, nil
}

// ListMedia returns the photo metadata of a donation.
func (s *Service) ListMedia(ctx context.Context, actor model.Actor, donationID int64) ([]model.DonationMedia, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if _, err := s.loadDonation(ctx, donationID); err != nil {
		return nil, err
	}
	return store.ListDonationMedia(ctx, s.DB, donationID)
}

// GetMedia returns a photo's bytes and MIME type.
func (s *Service) GetMedia(ctx context.Context, actor model.Actor, id int64) ([]byte, string, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, "", err
	}
	data, mime, err := store.GetDonationMedia(ctx, s.DB, id)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", apperr.NotFound("media %d not found", id)
	}
	return data, mime, nil
}
