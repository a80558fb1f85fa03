package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"yamdb-api/internal/model"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("create genre failed: %w", translate(err))
	}
	return nil
}

func (r *GenreRepository) List(ctx context.Context, search string, page Page) ([]model.Genre, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Genre{})
	if search != "" {
		q = q.Where(containsClause("name", search))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count genres failed: %w", err)
	}

	var list []model.Genre
	if err := page.apply(q.Order("name ASC")).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list genres failed: %w", err)
	}
	return list, total, nil
}

// ListBySlugs returns the genres matching slugs; unknown slugs are skipped.
func (r *GenreRepository) ListBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var list []model.Genre
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list genres by slug failed: %w", err)
	}
	return list, nil
}

// DeleteBySlug removes the genre and its genre_titles rows.
func (r *GenreRepository) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genre model.Genre
		if err := tx.Where("slug = ?", slug).First(&genre).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("genre_id = ?", genre.ID).Delete(&model.GenreTitle{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&genre).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete genre failed: %w", err)
	}
	return deleted, nil
}
