package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

var errParticipantRequired = errors.New("participant is required")

type MilestoneService struct {
	repo repository.Milestones
}

func NewMilestoneService(repo repository.Milestones) *MilestoneService {
	return &MilestoneService{repo: repo}
}

var _ Milestones = (*MilestoneService)(nil)

func (s *MilestoneService) Create(ctx context.Context, m models.Milestone) (int, error) {
	if err := normalizeMilestone(&m); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, m)
}

func (s *MilestoneService) Get(ctx context.Context, id int) (*models.Milestone, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MilestoneService) ListByParticipant(ctx context.Context, participantID int) ([]models.Milestone, error) {
	return s.repo.ListByParticipant(ctx, participantID)
}

func (s *MilestoneService) List(ctx context.Context, p ListParams) ([]models.Milestone, int, error) {
	return s.repo.List(ctx, p.query())
}

func (s *MilestoneService) Update(ctx context.Context, m models.Milestone) error {
	if err := normalizeMilestone(&m); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

func (s *MilestoneService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func normalizeMilestone(m *models.Milestone) error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return errTitleRequired
	}
	if m.ParticipantID == 0 {
		return errParticipantRequired
	}
	if m.AchievedAt.IsZero() {
		m.AchievedAt = time.Now().UTC()
	}
	return nil
}
