package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"yamdb-api/internal/cache"
	"yamdb-api/internal/model"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/validation"
)

type CatalogService struct {
	categoryRepo *repository.CategoryRepository
	genreRepo    *repository.GenreRepository
	titleRepo    *repository.TitleRepository
	titleCache   TitleCache
	validator    *validation.Validator
	logger       *slog.Logger
}

// TitleCache caches title listings. A nil TitleCache disables caching.
type TitleCache interface {
	Get(ctx context.Context, query string) (*cache.TitlePage, bool, error)
	Set(ctx context.Context, query string, page cache.TitlePage) error
	Invalidate(ctx context.Context) error
}

type SlugInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type TitleInput struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,notfutureyear"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"omitempty,slug"`
	Genre       []string `json:"genre" validate:"dive,slug"`
}

// TitlePatch is a partial title update; nil fields are left unchanged. An
// empty Category clears the category.
type TitlePatch struct {
	Name        *string   `json:"name" validate:"omitnil,min=1,max=256"`
	Year        *int      `json:"year" validate:"omitnil,notfutureyear"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" validate:"omitnil,max=50"`
	Genre       *[]string `json:"genre" validate:"omitnil,dive,slug"`
}

func NewCatalogService(
	categoryRepo *repository.CategoryRepository,
	genreRepo *repository.GenreRepository,
	titleRepo *repository.TitleRepository,
	titleCache TitleCache,
	validator *validation.Validator,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		titleRepo:    titleRepo,
		titleCache:   titleCache,
		validator:    validator,
		logger:       logger,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, page repository.Page) ([]model.Category, int64, error) {
	return s.categoryRepo.List(ctx, strings.TrimSpace(search), page)
}

func (s *CatalogService) CreateCategory(ctx context.Context, input SlugInput) (*model.Category, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	category := &model.Category{Name: input.Name, Slug: input.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, slugTaken(err, "category")
	}
	return category, nil
}

// DeleteCategory removes a category; its titles stay and lose the reference.
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	deleted, err := s.categoryRepo.DeleteBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateTitles(ctx)
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, page repository.Page) ([]model.Genre, int64, error) {
	return s.genreRepo.List(ctx, strings.TrimSpace(search), page)
}

func (s *CatalogService) CreateGenre(ctx context.Context, input SlugInput) (*model.Genre, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	genre := &model.Genre{Name: input.Name, Slug: input.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return nil, slugTaken(err, "genre")
	}
	return genre, nil
}

// DeleteGenre removes a genre and its title links; the titles stay.
func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	deleted, err := s.genreRepo.DeleteBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateTitles(ctx)
	return nil
}

func (s *CatalogService) ListTitles(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]model.Title, int64, error) {
	query := titleQueryKey(filter, page)
	if s.titleCache != nil {
		cached, hit, err := s.titleCache.Get(ctx, query)
		if err != nil {
			s.logger.WarnContext(ctx, "title cache read failed", "error", err)
		} else if hit {
			return cached.Titles, cached.Count, nil
		}
	}

	titles, total, err := s.titleRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	if s.titleCache != nil {
		if err := s.titleCache.Set(ctx, query, cache.TitlePage{Count: total, Titles: titles}); err != nil {
			s.logger.WarnContext(ctx, "title cache write failed", "error", err)
		}
	}
	return titles, total, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id uint) (*model.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, ErrNotFound
	}
	return title, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, input TitleInput) (*model.Title, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, input.Genre)
	if err != nil {
		return nil, err
	}

	title := &model.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategoryID:  categoryID,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	s.invalidateTitles(ctx)
	return s.GetTitle(ctx, title.ID)
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id uint, patch TitlePatch) (*model.Title, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}

	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.Category != nil {
		if title.CategoryID, err = s.resolveCategory(ctx, *patch.Category); err != nil {
			return nil, err
		}
	}

	var genres []model.Genre
	if patch.Genre != nil {
		if genres, err = s.resolveGenres(ctx, *patch.Genre); err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []model.Genre{}
		}
	}

	if err := s.titleRepo.Update(ctx, title, genres); err != nil {
		return nil, err
	}
	s.invalidateTitles(ctx)
	return s.GetTitle(ctx, id)
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id uint) error {
	deleted, err := s.titleRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateTitles(ctx)
	return nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fieldError("category", fmt.Sprintf("Object with slug=%s does not exist.", slug))
	}
	return &category.ID, nil
}

func (s *CatalogService) resolveGenres(ctx context.Context, slugs []string) ([]model.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.ListBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	errs := validation.Errors{}
	for _, slug := range slugs {
		if !found[slug] {
			errs.Add("genre", fmt.Sprintf("Object with slug=%s does not exist.", slug))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return genres, nil
}

func (s *CatalogService) invalidateTitles(ctx context.Context) {
	if s.titleCache == nil {
		return
	}
	if err := s.titleCache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "title cache invalidate failed", "error", err)
	}
}

func slugTaken(err error, entity string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fieldError("slug", fmt.Sprintf("A %s with this slug already exists.", entity))
	}
	return err
}

func titleQueryKey(filter repository.TitleFilter, page repository.Page) string {
	v := url.Values{}
	v.Set("category", filter.CategorySlug)
	v.Set("genre", filter.GenreSlug)
	v.Set("name", filter.Name)
	v.Set("year", strconv.Itoa(filter.Year))
	v.Set("limit", strconv.Itoa(page.Limit))
	v.Set("offset", strconv.Itoa(page.Offset))
	return v.Encode()
}
