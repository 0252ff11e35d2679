package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/validation"
)

// CategoryService manages the flat registry of category labels.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates the service.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Create registers a new category. The name is trimmed first; an empty
// name is a validation error and an existing name (case-sensitive
// exact match) is ErrDuplicate. Nothing is written on rejection.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		v := make(validation.Violations)
		validation.Required("name", name, v)
		return nil, &ValidationError{Violations: v}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	cat := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete removes a category and nullifies the category reference of
// any operation pointing at it, in one transaction. Entries are never
// deleted along with their category.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.Operation{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}

// List returns all categories ordered by name, for forms and filters.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}
