package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

var errNameRequired = errors.New("name is required")

type ParticipantService struct {
	repo repository.Participants
}

func NewParticipantService(repo repository.Participants) *ParticipantService {
	return &ParticipantService{repo: repo}
}

var _ Participants = (*ParticipantService)(nil)

func (s *ParticipantService) Create(ctx context.Context, p models.Participant) (int, error) {
	if err := normalizeParticipant(&p); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, p)
}

func (s *ParticipantService) Get(ctx context.Context, id int) (*models.Participant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ParticipantService) List(ctx context.Context, p ListParams) ([]models.Participant, int, error) {
	return s.repo.List(ctx, p.query())
}

func (s *ParticipantService) Update(ctx context.Context, p models.Participant) error {
	if err := normalizeParticipant(&p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *ParticipantService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func normalizeParticipant(p *models.Participant) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errNameRequired
	}
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	return nil
}
