package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"outreach_admin/internal/models"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ Events = (*EventRepository)(nil)

const (
	insertEventSQL   = `INSERT INTO events (title, location, starts_at, capacity, description) VALUES (?, ?, ?, ?, ?)`
	selectEventSQL   = `SELECT id, title, location, starts_at, capacity, description FROM events WHERE id = ?`
	updateEventSQL   = `UPDATE events SET title = ?, location = ?, starts_at = ?, capacity = ?, description = ? WHERE id = ?`
	deleteEventSQL   = `DELETE FROM events WHERE id = ?`
	eventColumnsSQL  = `id, title, location, starts_at, capacity, description`
	defaultEventSort = "starts_at DESC"
)

var eventSorts = map[string]string{
	"date":     "starts_at DESC",
	"upcoming": "starts_at ASC",
	"title":    "title ASC",
}

func (r *EventRepository) Create(ctx context.Context, e models.Event) (int, error) {
	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.Title, nullable(e.Location), e.StartsAt.UTC(), e.Capacity, nullable(e.Description))
	if err != nil {
		return 0, fmt.Errorf("insert event %q: %w", e.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for event: %w", err)
	}
	return int(lastID), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	var (
		e              models.Event
		location, desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectEventSQL, id).
		Scan(&e.ID, &e.Title, &location, &e.StartsAt, &e.Capacity, &desc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select event %d: %w", id, err)
	}
	e.Location, e.Description = location.String, desc.String
	e.StartsAt = e.StartsAt.UTC()
	return &e, nil
}

// List searches title and location.
func (r *EventRepository) List(ctx context.Context, q ListQuery) ([]models.Event, int, error) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(q.Q); s != "" {
		conds = append(conds, "(title LIKE ? OR location LIKE ?)")
		pat := "%" + s + "%"
		args = append(args, pat, pat)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	order, ok := eventSorts[q.Sort]
	if !ok {
		order = defaultEventSort
	}
	query := "SELECT " + eventColumnsSQL + " FROM events" + where +
		" ORDER BY " + order + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := make([]models.Event, 0, q.Limit)
	for rows.Next() {
		var (
			e              models.Event
			location, desc sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Title, &location, &e.StartsAt, &e.Capacity, &desc); err != nil {
			return nil, 0, err
		}
		e.Location, e.Description = location.String, desc.String
		e.StartsAt = e.StartsAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *EventRepository) Update(ctx context.Context, e models.Event) error {
	res, err := r.db.ExecContext(ctx, updateEventSQL,
		e.Title, nullable(e.Location), e.StartsAt.UTC(), e.Capacity, nullable(e.Description), e.ID)
	if err != nil {
		return fmt.Errorf("update event %d: %w", e.ID, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *EventRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteEventSQL, id); err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}
