package service

import (
	"context"
	"time"

	"outreach_admin/internal/logger"
	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

// Pagination bounds for all listing screens.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams are the common search/sort/pagination inputs parsed from a
// listing request. Page is 1-based.
type ListParams struct {
	Q       string
	Sort    string
	Page    int
	PerPage int
}

// query clamps the params and converts them to a repository ListQuery.
func (p ListParams) query() repository.ListQuery {
	page := p.Page
	if page < 1 {
		page = 1
	}
	per := p.PerPage
	if per < 1 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}
	return repository.ListQuery{
		Q:      p.Q,
		Sort:   p.Sort,
		Limit:  per,
		Offset: (page - 1) * per,
	}
}

// DonationParams extends ListParams with an inclusive date range.
type DonationParams struct {
	ListParams
	From time.Time
	To   time.Time
}

// Authorization verifies credentials and creates accounts.
type Authorization interface {
	// Verify decides whether password matches the stored credential for
	// username. Returns ErrUserNotFound or ErrInvalidPassword on failure;
	// callers must present both identically to the end user.
	Verify(ctx context.Context, username, password string) (models.SessionUser, error)
	// Register creates an account with a hashed credential. Returns
	// ErrDuplicateUsername if the username is taken.
	Register(ctx context.Context, username, password string, role models.Role) (int, error)
}

// Invites issues and validates signed registration invites.
type Invites interface {
	Issue(role models.Role) (string, error)
	Parse(token string) (models.Role, error)
}

type Participants interface {
	Create(ctx context.Context, p models.Participant) (int, error)
	Get(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context, p ListParams) ([]models.Participant, int, error)
	Update(ctx context.Context, p models.Participant) error
	Delete(ctx context.Context, id int) error
}

type Events interface {
	Create(ctx context.Context, e models.Event) (int, error)
	Get(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, p ListParams) ([]models.Event, int, error)
	Update(ctx context.Context, e models.Event) error
	Delete(ctx context.Context, id int) error
}

type Donations interface {
	Create(ctx context.Context, d models.Donation) (int, error)
	Get(ctx context.Context, id int) (*models.Donation, error)
	// List returns the page, the total matching count, and the filtered
	// running total in cents.
	List(ctx context.Context, p DonationParams) ([]models.Donation, int, int64, error)
	Update(ctx context.Context, d models.Donation) error
	Delete(ctx context.Context, id int) error
}

// ResponseScore pairs a survey response with its weighted average score.
type ResponseScore struct {
	Response models.SurveyResponse
	Score    float64
}

type Surveys interface {
	Create(ctx context.Context, s models.Survey) (int, error)
	Get(ctx context.Context, id int) (*models.Survey, error)
	List(ctx context.Context, p ListParams) ([]models.Survey, int, error)
	Update(ctx context.Context, s models.Survey) error
	Delete(ctx context.Context, id int) error

	AddQuestion(ctx context.Context, q models.SurveyQuestion) (int, error)
	Questions(ctx context.Context, surveyID int) ([]models.SurveyQuestion, error)
	DeleteQuestion(ctx context.Context, id int) error

	// SubmitResponse records a participant's per-question scores.
	SubmitResponse(ctx context.Context, surveyID, participantID int, scores map[int]float64) (int, error)
	// ResponseScores lists a survey's responses with their weighted scores.
	ResponseScores(ctx context.Context, surveyID int) ([]ResponseScore, error)
	// ParticipantScores lists a participant's responses with scores.
	ParticipantScores(ctx context.Context, participantID int) ([]ResponseScore, error)
}

type Milestones interface {
	Create(ctx context.Context, m models.Milestone) (int, error)
	Get(ctx context.Context, id int) (*models.Milestone, error)
	ListByParticipant(ctx context.Context, participantID int) ([]models.Milestone, error)
	List(ctx context.Context, p ListParams) ([]models.Milestone, int, error)
	Update(ctx context.Context, m models.Milestone) error
	Delete(ctx context.Context, id int) error
}

// UserAdmin covers the manager-only account screens.
type UserAdmin interface {
	List(ctx context.Context) ([]models.User, error)
	ChangeRole(ctx context.Context, id int, role models.Role) error
	Delete(ctx context.Context, id int) error
	// Bootstrap creates the initial manager account when the users table is
	// empty. It is a no-op otherwise.
	Bootstrap(ctx context.Context, username, password string) error
}

type Service struct {
	Authorization
	Invites
	Participants
	Events
	Donations
	Surveys
	Milestones
	UserAdmin
}

// Config carries the knobs services need beyond their repositories.
type Config struct {
	// InviteSigningKey signs registration invite tokens.
	InviteSigningKey string
	// InviteTTL bounds how long an invite link stays valid.
	InviteTTL time.Duration
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	auth := NewAuthService(repos.Users, log)
	return &Service{
		Authorization: auth,
		Invites:       NewInviteService(cfg.InviteSigningKey, cfg.InviteTTL),
		Participants:  NewParticipantService(repos.Participants),
		Events:        NewEventService(repos.Events),
		Donations:     NewDonationService(repos.Donations),
		Surveys:       NewSurveyService(repos.Surveys),
		Milestones:    NewMilestoneService(repos.Milestones),
		UserAdmin:     NewUserAdminService(repos.Users, auth),
	}
}
