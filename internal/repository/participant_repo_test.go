package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"outreach_admin/internal/models"
)

func newMockParticipantRepo(t *testing.T) (*ParticipantRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewParticipantRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestParticipantRepository_Create(t *testing.T) {
	repo, mock, cleanup := newMockParticipantRepo(t)
	defer cleanup()

	joined := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertParticipantSQL)).
		WithArgs("Dana", sqlmock.AnyArg(), sqlmock.AnyArg(), joined, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create(context.Background(), models.Participant{Name: "Dana", JoinedAt: joined})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected id 3, got %d", id)
	}
}

func TestParticipantRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := newMockParticipantRepo(t)
	defer cleanup()

	joined := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "joined_at", "notes"}).
		AddRow(3, "Dana", "dana@example.org", nil, joined, nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectParticipantSQL)).
		WithArgs(3).
		WillReturnRows(rows)

	p, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Dana" || p.Email != "dana@example.org" {
		t.Fatalf("unexpected participant: %+v", p)
	}
	// NULL columns scan to empty strings
	if p.Phone != "" || p.Notes != "" {
		t.Fatalf("expected empty optional fields, got %+v", p)
	}
}

func TestParticipantRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockParticipantRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectParticipantSQL)).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParticipantRepository_List_SearchAndPage(t *testing.T) {
	repo, mock, cleanup := newMockParticipantRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM participants WHERE (name LIKE ? OR email LIKE ?)")).
		WithArgs("%dan%", "%dan%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	joined := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	listSQL := "SELECT " + participantColumnsSQL +
		" FROM participants WHERE (name LIKE ? OR email LIKE ?) ORDER BY name ASC LIMIT ? OFFSET ?"
	mock.ExpectQuery(regexp.QuoteMeta(listSQL)).
		WithArgs("%dan%", "%dan%", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "joined_at", "notes"}).
			AddRow(3, "Dana", "dana@example.org", nil, joined, nil))

	items, total, err := repo.List(context.Background(), ListQuery{Q: "dan", Limit: 20, Offset: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(items))
	}
	if items[0].Name != "Dana" {
		t.Fatalf("unexpected row: %+v", items[0])
	}
}

func TestParticipantRepository_List_UnknownSortFallsBack(t *testing.T) {
	repo, mock, cleanup := newMockParticipantRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM participants")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// an unrecognized sort key must not reach the SQL
	listSQL := "SELECT " + participantColumnsSQL +
		" FROM participants ORDER BY " + defaultParticipantSort + " LIMIT ? OFFSET ?"
	mock.ExpectQuery(regexp.QuoteMeta(listSQL)).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "joined_at", "notes"}))

	_, _, err := repo.List(context.Background(), ListQuery{Sort: "name; DROP TABLE participants", Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParticipantRepository_Update_Missing(t *testing.T) {
	repo, mock, cleanup := newMockParticipantRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateParticipantSQL)).
		WithArgs("Dana", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), models.Participant{ID: 99, Name: "Dana"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
