package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

var (
	errDonorRequired     = errors.New("donor name is required")
	errNonPositiveAmount = errors.New("amount must be positive")
	errInvalidTimeRange  = errors.New("invalid time range: from must be <= to")
)

type DonationService struct {
	repo repository.Donations
}

func NewDonationService(repo repository.Donations) *DonationService {
	return &DonationService{repo: repo}
}

var _ Donations = (*DonationService)(nil)

func (s *DonationService) Create(ctx context.Context, d models.Donation) (int, error) {
	if err := normalizeDonation(&d); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, d)
}

func (s *DonationService) Get(ctx context.Context, id int) (*models.Donation, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the page, the total matching count, and the filtered running
// total in cents.
func (s *DonationService) List(ctx context.Context, p DonationParams) ([]models.Donation, int, int64, error) {
	from, to := normalizeToUTC(p.From), normalizeToUTC(p.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, 0, 0, errInvalidTimeRange
	}
	q := repository.DonationQuery{ListQuery: p.query(), From: from, To: to}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, 0, err
	}
	sum, err := s.repo.Total(ctx, q)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, sum, nil
}

func (s *DonationService) Update(ctx context.Context, d models.Donation) error {
	if err := normalizeDonation(&d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *DonationService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func normalizeDonation(d *models.Donation) error {
	d.DonorName = strings.TrimSpace(d.DonorName)
	if d.DonorName == "" {
		return errDonorRequired
	}
	if d.AmountCents <= 0 {
		return errNonPositiveAmount
	}
	if d.DonatedAt.IsZero() {
		d.DonatedAt = time.Now().UTC()
	}
	return nil
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
