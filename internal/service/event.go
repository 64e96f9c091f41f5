package service

import (
	"context"
	"errors"
	"strings"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

var (
	errTitleRequired    = errors.New("title is required")
	errStartsAtRequired = errors.New("start time is required")
	errNegativeCapacity = errors.New("capacity cannot be negative")
)

type EventService struct {
	repo repository.Events
}

func NewEventService(repo repository.Events) *EventService {
	return &EventService{repo: repo}
}

var _ Events = (*EventService)(nil)

func (s *EventService) Create(ctx context.Context, e models.Event) (int, error) {
	if err := normalizeEvent(&e); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, e)
}

func (s *EventService) Get(ctx context.Context, id int) (*models.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, p ListParams) ([]models.Event, int, error) {
	return s.repo.List(ctx, p.query())
}

func (s *EventService) Update(ctx context.Context, e models.Event) error {
	if err := normalizeEvent(&e); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

func (s *EventService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func normalizeEvent(e *models.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return errTitleRequired
	}
	if e.StartsAt.IsZero() {
		return errStartsAtRequired
	}
	if e.Capacity < 0 {
		return errNegativeCapacity
	}
	e.Location = strings.TrimSpace(e.Location)
	return nil
}
