package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"yamdb-api/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category failed: %w", translate(err))
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context, search string, page Page) ([]model.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{})
	if search != "" {
		q = q.Where(containsClause("name", search))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories failed: %w", err)
	}

	var list []model.Category
	if err := page.apply(q.Order("name ASC")).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list categories failed: %w", err)
	}
	return list, total, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category failed: %w", err)
	}
	return &category, nil
}

// DeleteBySlug removes the category and clears it from every title that
// referenced it. Titles themselves are kept.
func (r *CategoryRepository) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.Where("slug = ?", slug).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&model.Title{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&category).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete category failed: %w", err)
	}
	return deleted, nil
}
