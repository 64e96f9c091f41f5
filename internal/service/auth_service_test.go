package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

// mockUserRepo is a lightweight in-test mock for repository.Users.
type mockUserRepo struct {
	CreateFn           func(username, credential string, role models.Role) (int, error)
	GetByUsernameFn    func(username string) (*models.User, error)
	UpdateCredentialFn func(id int, credential string) error

	createCalls []struct {
		username   string
		credential string
		role       models.Role
	}
	updateCredentialCalls []struct {
		id         int
		credential string
	}
}

func (m *mockUserRepo) Create(_ context.Context, username, credential string, role models.Role) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username   string
		credential string
		role       models.Role
	}{username, credential, role})
	return m.CreateFn(username, credential, role)
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFn(username)
}

func (m *mockUserRepo) UpdateCredential(_ context.Context, id int, credential string) error {
	m.updateCredentialCalls = append(m.updateCredentialCalls, struct {
		id         int
		credential string
	}{id, credential})
	if m.UpdateCredentialFn != nil {
		return m.UpdateCredentialFn(id, credential)
	}
	return nil
}

func (m *mockUserRepo) GetByID(context.Context, int) (*models.User, error) {
	return nil, repository.ErrNotFound
}
func (m *mockUserRepo) List(context.Context) ([]models.User, error)        { return nil, nil }
func (m *mockUserRepo) UpdateRole(context.Context, int, models.Role) error { return nil }
func (m *mockUserRepo) Delete(context.Context, int) error                  { return nil }
func (m *mockUserRepo) Count(context.Context) (int, error)                 { return 0, nil }

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	return &models.User{
		ID:         7,
		Username:   "alice",
		Credential: models.Credential{Kind: models.CredentialHashed, Value: hash},
		Role:       models.RoleMember,
	}
}

// --- Verify tests ---

func TestAuthService_Verify_UnknownUser(t *testing.T) {
	mock := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(mock, nil)

	_, err := svc.Verify(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Verify_HashedSuccess(t *testing.T) {
	u := hashedUser(t, "s3cr3t")
	mock := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) { return u, nil },
	}
	svc := NewAuthService(mock, nil)

	got, err := svc.Verify(context.Background(), "alice", "s3cr3t")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got.ID != 7 || got.Username != "alice" || got.Role != models.RoleMember {
		t.Fatalf("unexpected session user: %+v", got)
	}
	// a hashed credential must not be rewritten on login
	if len(mock.updateCredentialCalls) != 0 {
		t.Fatalf("expected no credential update, got %d", len(mock.updateCredentialCalls))
	}
}

func TestAuthService_Verify_HashedWrongPassword(t *testing.T) {
	mock := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) { return hashedUser(t, "s3cr3t"), nil },
	}
	svc := NewAuthService(mock, nil)

	_, err := svc.Verify(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestAuthService_Verify_LegacyUpgradesOnSuccess(t *testing.T) {
	u := &models.User{
		ID:         9,
		Username:   "bob",
		Credential: models.Credential{Kind: models.CredentialLegacy, Value: "hunter2"},
		Role:       models.RoleManager,
	}
	mock := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) { return u, nil },
	}
	svc := NewAuthService(mock, nil)

	got, err := svc.Verify(context.Background(), "bob", "hunter2")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("unexpected session user: %+v", got)
	}

	if len(mock.updateCredentialCalls) != 1 {
		t.Fatalf("expected 1 credential upgrade, got %d", len(mock.updateCredentialCalls))
	}
	call := mock.updateCredentialCalls[0]
	if call.id != 9 {
		t.Errorf("expected upgrade for user 9, got %d", call.id)
	}
	if call.credential == "hunter2" {
		t.Errorf("upgrade stored the plaintext instead of a hash")
	}
	if !strings.HasPrefix(call.credential, "$2") {
		t.Errorf("stored credential is not a bcrypt hash: %q", call.credential)
	}
	if err := verifyPassword(call.credential, "hunter2"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_Verify_LegacyWrongPasswordNoUpgrade(t *testing.T) {
	u := &models.User{
		ID:         9,
		Username:   "bob",
		Credential: models.Credential{Kind: models.CredentialLegacy, Value: "hunter2"},
		Role:       models.RoleMember,
	}
	mock := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) { return u, nil },
	}
	svc := NewAuthService(mock, nil)

	_, err := svc.Verify(context.Background(), "bob", "hunter3")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if len(mock.updateCredentialCalls) != 0 {
		t.Fatalf("failed login must not upgrade the credential")
	}
}

func TestAuthService_Verify_UpgradeFailureStillLogsIn(t *testing.T) {
	u := &models.User{
		ID:         9,
		Username:   "bob",
		Credential: models.Credential{Kind: models.CredentialLegacy, Value: "hunter2"},
		Role:       models.RoleMember,
	}
	mock := &mockUserRepo{
		GetByUsernameFn:    func(string) (*models.User, error) { return u, nil },
		UpdateCredentialFn: func(int, string) error { return errors.New("disk full") },
	}
	svc := NewAuthService(mock, nil)

	got, err := svc.Verify(context.Background(), "bob", "hunter2")
	if err != nil {
		t.Fatalf("login must succeed even when the upgrade write fails, got %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("unexpected session user: %+v", got)
	}
}

// --- Register tests ---

func TestAuthService_Register_HashesPassword(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(string, string, models.Role) (int, error) { return 42, nil },
	}
	svc := NewAuthService(mock, nil)

	id, err := svc.Register(context.Background(), "carol", "s3cr3t", models.RoleMember)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	call := mock.createCalls[0]
	if call.credential == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.credential, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
	if call.role != models.RoleMember {
		t.Errorf("expected member role, got %q", call.role)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(string, string, models.Role) (int, error) { return 0, repository.ErrDuplicate },
	}
	svc := NewAuthService(mock, nil)

	_, err := svc.Register(context.Background(), "carol", "s3cr3t", models.RoleMember)
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"too short", "ab", "pw", ErrInvalidUsername},
		{"bad characters", "bad name!", "pw", ErrInvalidUsername},
		{"too long", strings.Repeat("a", 65), "pw", ErrInvalidUsername},
		{"empty password", "carol", "", ErrEmptyPassword},
		{"blank password", "carol", "   ", ErrEmptyPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockUserRepo{
				CreateFn: func(string, string, models.Role) (int, error) {
					t.Fatal("Create should not be called for invalid input")
					return 0, nil
				},
			}
			svc := NewAuthService(mock, nil)

			_, err := svc.Register(context.Background(), tc.username, tc.password, models.RoleMember)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
