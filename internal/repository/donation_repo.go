package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"outreach_admin/internal/models"
)

type DonationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

var _ Donations = (*DonationRepository)(nil)

const (
	insertDonationSQL   = `INSERT INTO donations (donor_name, amount_cents, donated_at, participant_id, event_id, note) VALUES (?, ?, ?, ?, ?, ?)`
	selectDonationSQL   = `SELECT id, donor_name, amount_cents, donated_at, participant_id, event_id, note FROM donations WHERE id = ?`
	updateDonationSQL   = `UPDATE donations SET donor_name = ?, amount_cents = ?, donated_at = ?, participant_id = ?, event_id = ?, note = ? WHERE id = ?`
	deleteDonationSQL   = `DELETE FROM donations WHERE id = ?`
	donationColumnsSQL  = `id, donor_name, amount_cents, donated_at, participant_id, event_id, note`
	defaultDonationSort = "donated_at DESC"
)

var donationSorts = map[string]string{
	"date":   "donated_at DESC",
	"amount": "amount_cents DESC",
	"donor":  "donor_name ASC",
}

// nullableID maps a zero ID to NULL for optional foreign keys.
func nullableID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}

// donationConds builds the shared WHERE fragment for List and Total so the
// running total always matches the filtered rows.
func donationConds(q DonationQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(q.Q); s != "" {
		conds = append(conds, "donor_name LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if !q.From.IsZero() {
		conds = append(conds, "donated_at >= ?")
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		conds = append(conds, "donated_at <= ?")
		args = append(args, q.To.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *DonationRepository) Create(ctx context.Context, d models.Donation) (int, error) {
	res, err := r.db.ExecContext(ctx, insertDonationSQL,
		d.DonorName, d.AmountCents, d.DonatedAt.UTC(),
		nullableID(d.ParticipantID), nullableID(d.EventID), nullable(d.Note))
	if err != nil {
		return 0, fmt.Errorf("insert donation from %q: %w", d.DonorName, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for donation: %w", err)
	}
	return int(lastID), nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id int) (*models.Donation, error) {
	var (
		d        models.Donation
		pid, eid sql.NullInt64
		note     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectDonationSQL, id).
		Scan(&d.ID, &d.DonorName, &d.AmountCents, &d.DonatedAt, &pid, &eid, &note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select donation %d: %w", id, err)
	}
	d.ParticipantID, d.EventID, d.Note = int(pid.Int64), int(eid.Int64), note.String
	d.DonatedAt = d.DonatedAt.UTC()
	return &d, nil
}

func (r *DonationRepository) List(ctx context.Context, q DonationQuery) ([]models.Donation, int, error) {
	where, args := donationConds(q)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donations"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	order, ok := donationSorts[q.Sort]
	if !ok {
		order = defaultDonationSort
	}
	query := "SELECT " + donationColumnsSQL + " FROM donations" + where +
		" ORDER BY " + order + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select donations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Donation, 0, q.Limit)
	for rows.Next() {
		var (
			d        models.Donation
			pid, eid sql.NullInt64
			note     sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.DonorName, &d.AmountCents, &d.DonatedAt, &pid, &eid, &note); err != nil {
			return nil, 0, err
		}
		d.ParticipantID, d.EventID, d.Note = int(pid.Int64), int(eid.Int64), note.String
		d.DonatedAt = d.DonatedAt.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *DonationRepository) Total(ctx context.Context, q DonationQuery) (int64, error) {
	where, args := donationConds(q)
	var total sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT SUM(amount_cents) FROM donations"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum donations: %w", err)
	}
	return total.Int64, nil
}

func (r *DonationRepository) Update(ctx context.Context, d models.Donation) error {
	res, err := r.db.ExecContext(ctx, updateDonationSQL,
		d.DonorName, d.AmountCents, d.DonatedAt.UTC(),
		nullableID(d.ParticipantID), nullableID(d.EventID), nullable(d.Note), d.ID)
	if err != nil {
		return fmt.Errorf("update donation %d: %w", d.ID, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *DonationRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteDonationSQL, id); err != nil {
		return fmt.Errorf("delete donation %d: %w", id, err)
	}
	return nil
}
