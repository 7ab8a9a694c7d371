package services

import (
	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
)

// CategoryService handles business logic for categories. Write access
// is admin-only, enforced at the route level and re-checked here.
type CategoryService struct {
	categories repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns every category ordered by name.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categories.GetAll()
}

// Get returns one category with its available books and notes.
func (s *CategoryService) Get(id string) (*models.Category, error) {
	return s.categories.GetByID(id)
}

// Create adds a new category.
func (s *CategoryService) Create(caller *models.User, name, description string) (*models.Category, error) {
	if !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if len(name) < 2 || len(name) > 100 {
		return nil, domain.Validationf("category name must be 2-100 characters")
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// CategoryPatch carries optional category fields; nil means unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// Update applies a partial update to a category.
func (s *CategoryService) Update(caller *models.User, id string, patch CategoryPatch) (*models.Category, error) {
	if !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	category, err := s.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if len(*patch.Name) < 2 || len(*patch.Name) > 100 {
			return nil, domain.Validationf("category name must be 2-100 characters")
		}
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}

	category.Books = nil
	category.Notes = nil
	if err := s.categories.Save(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category; referencing books and notes keep their
// listings with the category reference cleared.
func (s *CategoryService) Delete(caller *models.User, id string) error {
	if !caller.Roles.Has(models.RoleAdmin) {
		return domain.ErrForbidden
	}
	return s.categories.Delete(id)
}
