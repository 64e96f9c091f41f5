package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

var (
	errPromptRequired   = errors.New("question prompt is required")
	errNegativeWeight   = errors.New("question weight cannot be negative")
	errNoAnswers        = errors.New("a response needs at least one answer")
	errUnknownQuestion  = errors.New("answer refers to a question not on this survey")
	errSurveyIDRequired = errors.New("survey is required")
)

type SurveyService struct {
	repo repository.Surveys
}

func NewSurveyService(repo repository.Surveys) *SurveyService {
	return &SurveyService{repo: repo}
}

var _ Surveys = (*SurveyService)(nil)

func (s *SurveyService) Create(ctx context.Context, sv models.Survey) (int, error) {
	sv.Title = strings.TrimSpace(sv.Title)
	if sv.Title == "" {
		return 0, errTitleRequired
	}
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, sv)
}

func (s *SurveyService) Get(ctx context.Context, id int) (*models.Survey, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SurveyService) List(ctx context.Context, p ListParams) ([]models.Survey, int, error) {
	return s.repo.List(ctx, p.query())
}

func (s *SurveyService) Update(ctx context.Context, sv models.Survey) error {
	sv.Title = strings.TrimSpace(sv.Title)
	if sv.Title == "" {
		return errTitleRequired
	}
	return s.repo.Update(ctx, sv)
}

func (s *SurveyService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *SurveyService) AddQuestion(ctx context.Context, q models.SurveyQuestion) (int, error) {
	q.Prompt = strings.TrimSpace(q.Prompt)
	if q.Prompt == "" {
		return 0, errPromptRequired
	}
	if q.SurveyID == 0 {
		return 0, errSurveyIDRequired
	}
	if q.Weight < 0 {
		return 0, errNegativeWeight
	}
	if q.Weight == 0 {
		q.Weight = 1
	}
	return s.repo.AddQuestion(ctx, q)
}

func (s *SurveyService) Questions(ctx context.Context, surveyID int) ([]models.SurveyQuestion, error) {
	return s.repo.ListQuestions(ctx, surveyID)
}

func (s *SurveyService) DeleteQuestion(ctx context.Context, id int) error {
	return s.repo.DeleteQuestion(ctx, id)
}

// SubmitResponse validates that every answered question belongs to the
// survey, then stores the response and answers atomically.
func (s *SurveyService) SubmitResponse(ctx context.Context, surveyID, participantID int, scores map[int]float64) (int, error) {
	if len(scores) == 0 {
		return 0, errNoAnswers
	}
	questions, err := s.repo.ListQuestions(ctx, surveyID)
	if err != nil {
		return 0, err
	}
	known := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	answers := make([]models.SurveyAnswer, 0, len(scores))
	for questionID, score := range scores {
		if _, ok := known[questionID]; !ok {
			return 0, fmt.Errorf("%w: question %d", errUnknownQuestion, questionID)
		}
		answers = append(answers, models.SurveyAnswer{QuestionID: questionID, Score: score})
	}

	resp := models.SurveyResponse{
		SurveyID:      surveyID,
		ParticipantID: participantID,
		SubmittedAt:   time.Now().UTC(),
	}
	return s.repo.CreateResponse(ctx, resp, answers)
}

func (s *SurveyService) ResponseScores(ctx context.Context, surveyID int) ([]ResponseScore, error) {
	responses, err := s.repo.ListResponses(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return s.scoreResponses(ctx, responses)
}

func (s *SurveyService) ParticipantScores(ctx context.Context, participantID int) ([]ResponseScore, error) {
	responses, err := s.repo.ListResponsesByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return s.scoreResponses(ctx, responses)
}

func (s *SurveyService) scoreResponses(ctx context.Context, responses []models.SurveyResponse) ([]ResponseScore, error) {
	out := make([]ResponseScore, 0, len(responses))
	for _, resp := range responses {
		answers, err := s.repo.ListAnswers(ctx, resp.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ResponseScore{Response: resp, Score: WeightedScore(answers)})
	}
	return out, nil
}

// WeightedScore computes sum(weight_i * score_i) / sum(weight_i). An empty
// answer set or an all-zero weight sum yields zero.
func WeightedScore(answers []models.SurveyAnswer) float64 {
	var weighted, weights float64
	for _, a := range answers {
		weighted += a.Weight * a.Score
		weights += a.Weight
	}
	if weights == 0 {
		return 0
	}
	return weighted / weights
}
