package services

import (
	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
)

// UserService handles the administrative user surface.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns every user. Admin only.
func (s *UserService) List(caller *models.User) ([]models.User, error) {
	if !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.GetAll()
}

// Get returns one user; callers may see themselves, admins anyone.
func (s *UserService) Get(caller *models.User, id string) (*models.User, error) {
	if caller.ID != id && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.GetByID(id)
}

// UpdateRoles replaces a user's role set. Admin only; the set must be
// non-empty and drawn from the known roles.
func (s *UserService) UpdateRoles(caller *models.User, id string, roles []string) (*models.User, error) {
	if !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if len(roles) == 0 {
		return nil, domain.Validationf("at least one role is required")
	}
	var list models.RoleList
	for _, raw := range roles {
		role := models.Role(raw)
		if !models.ValidRole(role) {
			return nil, domain.Validationf("unknown role '%s'", raw)
		}
		list = append(list, role)
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Roles = list
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate soft-disables a user. Admin only; users are never hard
// deleted. Outstanding tokens stop working at the next request because
// the guard re-checks the live active flag.
func (s *UserService) Deactivate(caller *models.User, id string) (*models.User, error) {
	if !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.IsActive = false
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}
