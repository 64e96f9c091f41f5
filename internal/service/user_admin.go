package service

import (
	"context"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

// UserAdminService backs the manager-only account screens.
type UserAdminService struct {
	userRepo repository.Users
	auth     Authorization
}

func NewUserAdminService(repo repository.Users, auth Authorization) *UserAdminService {
	return &UserAdminService{userRepo: repo, auth: auth}
}

var _ UserAdmin = (*UserAdminService)(nil)

func (s *UserAdminService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserAdminService) ChangeRole(ctx context.Context, id int, role models.Role) error {
	return s.userRepo.UpdateRole(ctx, id, role)
}

func (s *UserAdminService) Delete(ctx context.Context, id int) error {
	return s.userRepo.Delete(ctx, id)
}

// Bootstrap seeds the first manager account on an empty users table so a
// fresh deployment can be logged into.
func (s *UserAdminService) Bootstrap(ctx context.Context, username, password string) error {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.auth.Register(ctx, username, password, models.RoleManager)
	return err
}
