package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"outreach_admin/internal/models"
)

func newMockUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewUserRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func userRows(id int, username, credential, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password", "role"}).
		AddRow(id, username, credential, role)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		mockExpect func(sqlmock.Sqlmock)
		wantID     int
		wantErr    error
	}{
		{
			name:     "success",
			username: "alice",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "$2a$10$hash", "member").
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name:     "duplicate username",
			username: "alice",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "$2a$10$hash", "member").
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))
			},
			wantErr: ErrDuplicate,
		},
		{
			name:     "exec error",
			username: "bob",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("bob", "$2a$10$hash", "member").
					WillReturnError(errors.New("db exec failed"))
			},
			wantErr: errors.New("db exec failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockUserRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			id, err := repo.Create(context.Background(), tt.username, "$2a$10$hash", models.RoleMember)
			switch {
			case tt.wantErr == nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if id != tt.wantID {
					t.Fatalf("expected id %d, got %d", tt.wantID, id)
				}
			case errors.Is(tt.wantErr, ErrDuplicate):
				if !errors.Is(err, ErrDuplicate) {
					t.Fatalf("expected ErrDuplicate, got %v", err)
				}
			default:
				if err == nil {
					t.Fatalf("expected error, got none")
				}
			}
		})
	}
}

func TestUserRepository_GetByUsername_TagsCredential(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		wantKind models.CredentialKind
	}{
		{name: "bcrypt 2a hash", stored: "$2a$10$abcdefghijklmnopqrstuv", wantKind: models.CredentialHashed},
		{name: "bcrypt 2b hash", stored: "$2b$12$abcdefghijklmnopqrstuv", wantKind: models.CredentialHashed},
		{name: "plaintext", stored: "hunter2", wantKind: models.CredentialLegacy},
		{name: "plaintext with dollar", stored: "pa$$word", wantKind: models.CredentialLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockUserRepo(t)
			defer cleanup()

			mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
				WithArgs("alice").
				WillReturnRows(userRows(7, "alice", tt.stored, "manager"))

			u, err := repo.GetByUsername(context.Background(), "alice")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Credential.Kind != tt.wantKind {
				t.Errorf("expected credential kind %v, got %v", tt.wantKind, u.Credential.Kind)
			}
			if u.Credential.Value != tt.stored {
				t.Errorf("expected stored value preserved, got %q", u.Credential.Value)
			}
			if u.Role != models.RoleManager {
				t.Errorf("expected manager role, got %q", u.Role)
			}
		})
	}
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByUsername_RejectsUnknownRole(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("alice").
		WillReturnRows(userRows(7, "alice", "$2a$10$hash", "superadmin"))

	if _, err := repo.GetByUsername(context.Background(), "alice"); err == nil {
		t.Fatal("expected error for unknown role, got none")
	}
}

func TestUserRepository_UpdateCredential(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateUserCredentialSQL)).
		WithArgs("$2a$10$newhash", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateCredential(context.Background(), 7, "$2a$10$newhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserRepository_Delete_Missing(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteUserSQL)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
