package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"outreach_admin/internal/models"
)

type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

var _ Participants = (*ParticipantRepository)(nil)

const (
	insertParticipantSQL   = `INSERT INTO participants (name, email, phone, joined_at, notes) VALUES (?, ?, ?, ?, ?)`
	selectParticipantSQL   = `SELECT id, name, email, phone, joined_at, notes FROM participants WHERE id = ?`
	updateParticipantSQL   = `UPDATE participants SET name = ?, email = ?, phone = ?, joined_at = ?, notes = ? WHERE id = ?`
	deleteParticipantSQL   = `DELETE FROM participants WHERE id = ?`
	participantColumnsSQL  = `id, name, email, phone, joined_at, notes`
	defaultParticipantSort = "name ASC"
)

// participantSorts whitelists sortable columns for the listing screen.
var participantSorts = map[string]string{
	"name":   "name ASC",
	"joined": "joined_at DESC",
}

func (r *ParticipantRepository) Create(ctx context.Context, p models.Participant) (int, error) {
	res, err := r.db.ExecContext(ctx, insertParticipantSQL,
		p.Name, nullable(p.Email), nullable(p.Phone), p.JoinedAt.UTC(), nullable(p.Notes))
	if err != nil {
		return 0, fmt.Errorf("insert participant %q: %w", p.Name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for participant: %w", err)
	}
	return int(lastID), nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	var (
		p                   models.Participant
		email, phone, notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectParticipantSQL, id).
		Scan(&p.ID, &p.Name, &email, &phone, &p.JoinedAt, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select participant %d: %w", id, err)
	}
	p.Email, p.Phone, p.Notes = email.String, phone.String, notes.String
	p.JoinedAt = p.JoinedAt.UTC()
	return &p, nil
}

// List returns a page of participants plus the total matching count.
// Search matches name and email, case-insensitively.
func (r *ParticipantRepository) List(ctx context.Context, q ListQuery) ([]models.Participant, int, error) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(q.Q); s != "" {
		conds = append(conds, "(name LIKE ? OR email LIKE ?)")
		pat := "%" + s + "%"
		args = append(args, pat, pat)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participants"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count participants: %w", err)
	}

	order, ok := participantSorts[q.Sort]
	if !ok {
		order = defaultParticipantSort
	}
	query := "SELECT " + participantColumnsSQL + " FROM participants" + where +
		" ORDER BY " + order + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select participants: %w", err)
	}
	defer rows.Close()

	out := make([]models.Participant, 0, q.Limit)
	for rows.Next() {
		var (
			p                   models.Participant
			email, phone, notes sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &email, &phone, &p.JoinedAt, &notes); err != nil {
			return nil, 0, err
		}
		p.Email, p.Phone, p.Notes = email.String, phone.String, notes.String
		p.JoinedAt = p.JoinedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ParticipantRepository) Update(ctx context.Context, p models.Participant) error {
	res, err := r.db.ExecContext(ctx, updateParticipantSQL,
		p.Name, nullable(p.Email), nullable(p.Phone), p.JoinedAt.UTC(), nullable(p.Notes), p.ID)
	if err != nil {
		return fmt.Errorf("update participant %d: %w", p.ID, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *ParticipantRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteParticipantSQL, id); err != nil {
		return fmt.Errorf("delete participant %d: %w", id, err)
	}
	return nil
}

// nullable maps an empty string to NULL so optional columns stay clean.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// checkAffected converts a zero-row update into missing, since callers edit
// by primary key.
func checkAffected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil // driver without RowsAffected support; treat as success
	}
	if n == 0 {
		return missing
	}
	return nil
}
