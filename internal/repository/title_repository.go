package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"yamdb-api/internal/model"
)

type TitleRepository struct {
	db *gorm.DB
}

// TitleFilter narrows a title listing. Zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// Create inserts the title together with its genre links.
func (r *TitleRepository) Create(ctx context.Context, title *model.Title) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Genres.*").Create(title).Error; err != nil {
		return fmt.Errorf("create title failed: %w", translate(err))
	}
	return nil
}

// Update writes the scalar columns of title. When genres is non-nil the genre
// links are replaced with it.
func (r *TitleRepository) Update(ctx context.Context, title *model.Title, genres []model.Genre) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Title{ID: title.ID}).Updates(map[string]any{
			"name":        title.Name,
			"year":        title.Year,
			"description": title.Description,
			"category_id": title.CategoryID,
		}).Error; err != nil {
			return err
		}
		if genres == nil {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&model.GenreTitle{}).Error; err != nil {
			return err
		}
		for _, g := range genres {
			if err := tx.Create(&model.GenreTitle{TitleID: title.ID, GenreID: g.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update title failed: %w", err)
	}
	return nil
}

func (r *TitleRepository) GetByID(ctx context.Context, id uint) (*model.Title, error) {
	var title model.Title
	if err := r.preload(r.db.WithContext(ctx)).First(&title, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get title failed: %w", err)
	}
	return &title, nil
}

func (r *TitleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]model.Title, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Title{})
	if filter.CategorySlug != "" {
		q = q.Where("category_id IN (?)",
			r.db.Model(&model.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}
	if filter.GenreSlug != "" {
		q = q.Where("id IN (?)",
			r.db.Table("genre_titles").
				Select("genre_titles.title_id").
				Joins("JOIN genres ON genres.id = genre_titles.genre_id").
				Where("genres.slug = ?", filter.GenreSlug))
	}
	if filter.Name != "" {
		q = q.Where(containsClause("name", filter.Name))
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles failed: %w", err)
	}

	var list []model.Title
	if err := page.apply(r.preload(q).Order("id ASC")).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list titles failed: %w", err)
	}
	return list, total, nil
}

// Delete removes the title and its genre links.
func (r *TitleRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", id).Delete(&model.GenreTitle{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Title{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete title failed: %w", err)
	}
	return deleted, nil
}

func (r *TitleRepository) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Category").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.name ASC")
	})
}
