package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"outreach_admin/internal/models"
)

type MilestoneRepository struct {
	db *sql.DB
}

func NewMilestoneRepository(db *sql.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

var _ Milestones = (*MilestoneRepository)(nil)

const (
	insertMilestoneSQL        = `INSERT INTO milestones (participant_id, title, achieved_at, notes) VALUES (?, ?, ?, ?)`
	selectMilestoneSQL        = `SELECT id, participant_id, title, achieved_at, notes FROM milestones WHERE id = ?`
	selectByParticipantSQL    = `SELECT id, participant_id, title, achieved_at, notes FROM milestones WHERE participant_id = ? ORDER BY achieved_at DESC`
	updateMilestoneSQL        = `UPDATE milestones SET participant_id = ?, title = ?, achieved_at = ?, notes = ? WHERE id = ?`
	deleteMilestoneSQL        = `DELETE FROM milestones WHERE id = ?`
	milestoneColumnsSQL       = `id, participant_id, title, achieved_at, notes`
	defaultMilestoneSortOrder = "achieved_at DESC"
)

func (r *MilestoneRepository) Create(ctx context.Context, m models.Milestone) (int, error) {
	res, err := r.db.ExecContext(ctx, insertMilestoneSQL,
		m.ParticipantID, m.Title, m.AchievedAt.UTC(), nullable(m.Notes))
	if err != nil {
		return 0, fmt.Errorf("insert milestone %q: %w", m.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for milestone: %w", err)
	}
	return int(lastID), nil
}

func (r *MilestoneRepository) GetByID(ctx context.Context, id int) (*models.Milestone, error) {
	var (
		m     models.Milestone
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectMilestoneSQL, id).
		Scan(&m.ID, &m.ParticipantID, &m.Title, &m.AchievedAt, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select milestone %d: %w", id, err)
	}
	m.Notes = notes.String
	m.AchievedAt = m.AchievedAt.UTC()
	return &m, nil
}

func (r *MilestoneRepository) ListByParticipant(ctx context.Context, participantID int) ([]models.Milestone, error) {
	rows, err := r.db.QueryContext(ctx, selectByParticipantSQL, participantID)
	if err != nil {
		return nil, fmt.Errorf("select milestones for participant %d: %w", participantID, err)
	}
	defer rows.Close()
	return scanMilestones(rows)
}

func (r *MilestoneRepository) List(ctx context.Context, q ListQuery) ([]models.Milestone, int, error) {
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM milestones"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count milestones: %w", err)
	}

	query := "SELECT " + milestoneColumnsSQL + " FROM milestones" + where +
		" ORDER BY " + defaultMilestoneSortOrder + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select milestones: %w", err)
	}
	defer rows.Close()

	out, err := scanMilestones(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *MilestoneRepository) Update(ctx context.Context, m models.Milestone) error {
	res, err := r.db.ExecContext(ctx, updateMilestoneSQL,
		m.ParticipantID, m.Title, m.AchievedAt.UTC(), nullable(m.Notes), m.ID)
	if err != nil {
		return fmt.Errorf("update milestone %d: %w", m.ID, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *MilestoneRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteMilestoneSQL, id); err != nil {
		return fmt.Errorf("delete milestone %d: %w", id, err)
	}
	return nil
}

func scanMilestones(rows *sql.Rows) ([]models.Milestone, error) {
	out := make([]models.Milestone, 0, 16)
	for rows.Next() {
		var (
			m     models.Milestone
			notes sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ParticipantID, &m.Title, &m.AchievedAt, &notes); err != nil {
			return nil, err
		}
		m.Notes = notes.String
		m.AchievedAt = m.AchievedAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
