package handlers

import (
	"context"

	"outreach_admin/internal/models"
	"outreach_admin/internal/service"
)

// ---- Service Mocks ----

type mockAuthorization struct {
	verifyUser  models.SessionUser
	verifyErr   error
	registerID  int
	registerErr error

	lastVerifyUsername string
	lastVerifyPassword string
	verifyCalls        int

	lastRegisterUsername string
	lastRegisterRole     models.Role
	registerCalls        int
}

func (m *mockAuthorization) Verify(_ context.Context, username, password string) (models.SessionUser, error) {
	m.verifyCalls++
	m.lastVerifyUsername = username
	m.lastVerifyPassword = password
	return m.verifyUser, m.verifyErr
}

func (m *mockAuthorization) Register(_ context.Context, username, _ string, role models.Role) (int, error) {
	m.registerCalls++
	m.lastRegisterUsername = username
	m.lastRegisterRole = role
	return m.registerID, m.registerErr
}

type mockInvites struct {
	issueToken string
	issueErr   error
	parseRole  models.Role
	parseErr   error

	lastIssueRole  models.Role
	lastParseToken string
}

func (m *mockInvites) Issue(role models.Role) (string, error) {
	m.lastIssueRole = role
	return m.issueToken, m.issueErr
}

func (m *mockInvites) Parse(token string) (models.Role, error) {
	m.lastParseToken = token
	return m.parseRole, m.parseErr
}

type mockParticipants struct {
	items   []models.Participant
	total   int
	listErr error
}

func (m *mockParticipants) Create(context.Context, models.Participant) (int, error) { return 1, nil }
func (m *mockParticipants) Get(context.Context, int) (*models.Participant, error) {
	return &models.Participant{ID: 1, Name: "Dana"}, nil
}
func (m *mockParticipants) List(context.Context, service.ListParams) ([]models.Participant, int, error) {
	return m.items, m.total, m.listErr
}
func (m *mockParticipants) Update(context.Context, models.Participant) error { return nil }
func (m *mockParticipants) Delete(context.Context, int) error                { return nil }
