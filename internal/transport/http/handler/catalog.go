package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/app"
	"yamdb-api/internal/model"
	"yamdb-api/internal/transport/http/response"
)

// CatalogHandler serves categories and genres. Both are name/slug pairs
// addressed by slug.
type CatalogHandler struct {
	catalogService *app.CatalogService
	logger         *slog.Logger
}

type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewCatalogHandler(catalogService *app.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: logger}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	results := make([]SlugResponse, 0, len(categories))
	for _, category := range categories {
		results = append(results, SlugResponse{Name: category.Name, Slug: category.Slug})
	}
	response.Paginated(c, total, results)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req app.SlugInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, SlugResponse{Name: category.Name, Slug: category.Slug})
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.NoContent(c)
}

func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, total, err := h.catalogService.ListGenres(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	results := make([]SlugResponse, 0, len(genres))
	for _, genre := range genres {
		results = append(results, SlugResponse{Name: genre.Name, Slug: genre.Slug})
	}
	response.Paginated(c, total, results)
}

func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req app.SlugInput
	if !bindJSON(c, &req) {
		return
	}

	genre, err := h.catalogService.CreateGenre(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, SlugResponse{Name: genre.Name, Slug: genre.Slug})
}

func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	if err := h.catalogService.DeleteGenre(c.Request.Context(), c.Param("slug")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.NoContent(c)
}

func toSlugResponses(genres []model.Genre) []SlugResponse {
	out := make([]SlugResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, SlugResponse{Name: g.Name, Slug: g.Slug})
	}
	return out
}
