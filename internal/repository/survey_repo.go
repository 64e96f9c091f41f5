package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"outreach_admin/internal/models"
)

type SurveyRepository struct {
	db *sql.DB
}

func NewSurveyRepository(db *sql.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

var _ Surveys = (*SurveyRepository)(nil)

const (
	insertSurveySQL = `INSERT INTO surveys (title, description, created_at) VALUES (?, ?, ?)`
	selectSurveySQL = `SELECT id, title, description, created_at FROM surveys WHERE id = ?`
	updateSurveySQL = `UPDATE surveys SET title = ?, description = ? WHERE id = ?`
	deleteSurveySQL = `DELETE FROM surveys WHERE id = ?`

	insertQuestionSQL  = `INSERT INTO survey_questions (survey_id, prompt, weight) VALUES (?, ?, ?)`
	selectQuestionsSQL = `SELECT id, survey_id, prompt, weight FROM survey_questions WHERE survey_id = ? ORDER BY id ASC`
	deleteQuestionSQL  = `DELETE FROM survey_questions WHERE id = ?`

	insertResponseSQL = `INSERT INTO survey_responses (survey_id, participant_id, submitted_at) VALUES (?, ?, ?)`
	insertAnswerSQL   = `INSERT INTO survey_answers (response_id, question_id, score) VALUES (?, ?, ?)`

	selectResponsesSQL = `SELECT id, survey_id, participant_id, submitted_at
		FROM survey_responses WHERE survey_id = ? ORDER BY submitted_at DESC`
	selectResponsesByParticipantSQL = `SELECT id, survey_id, participant_id, submitted_at
		FROM survey_responses WHERE participant_id = ? ORDER BY submitted_at DESC`
	// Weight is joined in so scoring never needs a second round trip.
	selectAnswersSQL = `SELECT a.response_id, a.question_id, a.score, q.weight
		FROM survey_answers a JOIN survey_questions q ON q.id = a.question_id
		WHERE a.response_id = ? ORDER BY a.question_id ASC`
)

func (r *SurveyRepository) Create(ctx context.Context, s models.Survey) (int, error) {
	res, err := r.db.ExecContext(ctx, insertSurveySQL, s.Title, nullable(s.Description), s.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert survey %q: %w", s.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for survey: %w", err)
	}
	return int(lastID), nil
}

func (r *SurveyRepository) GetByID(ctx context.Context, id int) (*models.Survey, error) {
	var (
		s    models.Survey
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectSurveySQL, id).Scan(&s.ID, &s.Title, &desc, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select survey %d: %w", id, err)
	}
	s.Description = desc.String
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func (r *SurveyRepository) List(ctx context.Context, q ListQuery) ([]models.Survey, int, error) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(q.Q); s != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+s+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM surveys"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count surveys: %w", err)
	}

	query := "SELECT id, title, description, created_at FROM surveys" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select surveys: %w", err)
	}
	defer rows.Close()

	out := make([]models.Survey, 0, q.Limit)
	for rows.Next() {
		var (
			s    models.Survey
			desc sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &desc, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		s.Description = desc.String
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *SurveyRepository) Update(ctx context.Context, s models.Survey) error {
	res, err := r.db.ExecContext(ctx, updateSurveySQL, s.Title, nullable(s.Description), s.ID)
	if err != nil {
		return fmt.Errorf("update survey %d: %w", s.ID, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *SurveyRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteSurveySQL, id); err != nil {
		return fmt.Errorf("delete survey %d: %w", id, err)
	}
	return nil
}

func (r *SurveyRepository) AddQuestion(ctx context.Context, q models.SurveyQuestion) (int, error) {
	res, err := r.db.ExecContext(ctx, insertQuestionSQL, q.SurveyID, q.Prompt, q.Weight)
	if err != nil {
		return 0, fmt.Errorf("insert question for survey %d: %w", q.SurveyID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for question: %w", err)
	}
	return int(lastID), nil
}

func (r *SurveyRepository) ListQuestions(ctx context.Context, surveyID int) ([]models.SurveyQuestion, error) {
	rows, err := r.db.QueryContext(ctx, selectQuestionsSQL, surveyID)
	if err != nil {
		return nil, fmt.Errorf("select questions for survey %d: %w", surveyID, err)
	}
	defer rows.Close()

	out := make([]models.SurveyQuestion, 0, 16)
	for rows.Next() {
		var q models.SurveyQuestion
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Prompt, &q.Weight); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SurveyRepository) DeleteQuestion(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteQuestionSQL, id); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

// CreateResponse inserts the response row and all answers in one transaction
// so a half-written response can never be scored.
func (r *SurveyRepository) CreateResponse(ctx context.Context, resp models.SurveyResponse, answers []models.SurveyAnswer) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin response transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, insertResponseSQL, resp.SurveyID, resp.ParticipantID, resp.SubmittedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert response for survey %d: %w", resp.SurveyID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for response: %w", err)
	}
	for _, a := range answers {
		if _, err := tx.ExecContext(ctx, insertAnswerSQL, lastID, a.QuestionID, a.Score); err != nil {
			return 0, fmt.Errorf("insert answer for question %d: %w", a.QuestionID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit response transaction: %w", err)
	}
	return int(lastID), nil
}

func (r *SurveyRepository) ListResponses(ctx context.Context, surveyID int) ([]models.SurveyResponse, error) {
	return r.scanResponses(ctx, selectResponsesSQL, surveyID)
}

func (r *SurveyRepository) ListResponsesByParticipant(ctx context.Context, participantID int) ([]models.SurveyResponse, error) {
	return r.scanResponses(ctx, selectResponsesByParticipantSQL, participantID)
}

func (r *SurveyRepository) scanResponses(ctx context.Context, query string, arg int) ([]models.SurveyResponse, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("select responses: %w", err)
	}
	defer rows.Close()

	out := make([]models.SurveyResponse, 0, 16)
	for rows.Next() {
		var resp models.SurveyResponse
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.ParticipantID, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		resp.SubmittedAt = resp.SubmittedAt.UTC()
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SurveyRepository) ListAnswers(ctx context.Context, responseID int) ([]models.SurveyAnswer, error) {
	rows, err := r.db.QueryContext(ctx, selectAnswersSQL, responseID)
	if err != nil {
		return nil, fmt.Errorf("select answers for response %d: %w", responseID, err)
	}
	defer rows.Close()

	out := make([]models.SurveyAnswer, 0, 16)
	for rows.Next() {
		var a models.SurveyAnswer
		if err := rows.Scan(&a.ResponseID, &a.QuestionID, &a.Score, &a.Weight); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
