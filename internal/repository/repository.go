package repository

import (
	"context"
	"database/sql"
	"time"

	"outreach_admin/internal/models"
)

// Storage-level error taxonomy. Callers branch on these rather than on
// driver-specific errors.
const (
	// ErrNotFound is returned when a row cannot be found.
	ErrNotFound Error = "not found"
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate Error = "already exists"
)

// Error is an error type returned by the repository implementations.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// ListQuery carries the common search/sort/pagination parameters for
// listing screens. Sort values are whitelisted per repository.
type ListQuery struct {
	Q      string
	Sort   string
	Limit  int
	Offset int
}

// DonationQuery extends ListQuery with an inclusive date range.
type DonationQuery struct {
	ListQuery
	From time.Time // zero means no lower bound
	To   time.Time // zero means no upper bound
}

type Users interface {
	// Create inserts a new account. The credential value is stored as given
	// (normally a bcrypt hash). Returns ErrDuplicate if the username is taken.
	Create(ctx context.Context, username, credential string, role models.Role) (int, error)
	// GetByUsername fetches an account by exact username. The stored
	// credential is tagged Hashed or Legacy here, at the read boundary.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// UpdateCredential replaces the stored credential value for an account.
	UpdateCredential(ctx context.Context, id int, credential string) error
	UpdateRole(ctx context.Context, id int, role models.Role) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type Participants interface {
	Create(ctx context.Context, p models.Participant) (int, error)
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context, q ListQuery) ([]models.Participant, int, error)
	Update(ctx context.Context, p models.Participant) error
	Delete(ctx context.Context, id int) error
}

type Events interface {
	Create(ctx context.Context, e models.Event) (int, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, q ListQuery) ([]models.Event, int, error)
	Update(ctx context.Context, e models.Event) error
	Delete(ctx context.Context, id int) error
}

type Donations interface {
	Create(ctx context.Context, d models.Donation) (int, error)
	GetByID(ctx context.Context, id int) (*models.Donation, error)
	List(ctx context.Context, q DonationQuery) ([]models.Donation, int, error)
	// Total sums amount_cents over the same filter the list uses.
	Total(ctx context.Context, q DonationQuery) (int64, error)
	Update(ctx context.Context, d models.Donation) error
	Delete(ctx context.Context, id int) error
}

type Surveys interface {
	Create(ctx context.Context, s models.Survey) (int, error)
	GetByID(ctx context.Context, id int) (*models.Survey, error)
	List(ctx context.Context, q ListQuery) ([]models.Survey, int, error)
	Update(ctx context.Context, s models.Survey) error
	Delete(ctx context.Context, id int) error

	AddQuestion(ctx context.Context, q models.SurveyQuestion) (int, error)
	ListQuestions(ctx context.Context, surveyID int) ([]models.SurveyQuestion, error)
	DeleteQuestion(ctx context.Context, id int) error

	// CreateResponse inserts the response and its answers atomically.
	CreateResponse(ctx context.Context, r models.SurveyResponse, answers []models.SurveyAnswer) (int, error)
	ListResponses(ctx context.Context, surveyID int) ([]models.SurveyResponse, error)
	ListResponsesByParticipant(ctx context.Context, participantID int) ([]models.SurveyResponse, error)
	// ListAnswers returns the answers for a response with each question's
	// weight joined in.
	ListAnswers(ctx context.Context, responseID int) ([]models.SurveyAnswer, error)
}

type Milestones interface {
	Create(ctx context.Context, m models.Milestone) (int, error)
	GetByID(ctx context.Context, id int) (*models.Milestone, error)
	ListByParticipant(ctx context.Context, participantID int) ([]models.Milestone, error)
	List(ctx context.Context, q ListQuery) ([]models.Milestone, int, error)
	Update(ctx context.Context, m models.Milestone) error
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users        Users
	Participants Participants
	Events       Events
	Donations    Donations
	Surveys      Surveys
	Milestones   Milestones
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:        NewUserRepository(db),
		Participants: NewParticipantRepository(db),
		Events:       NewEventRepository(db),
		Donations:    NewDonationRepository(db),
		Surveys:      NewSurveyRepository(db),
		Milestones:   NewMilestoneRepository(db),
	}
}
