package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/app"
	"yamdb-api/internal/model"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/transport/http/response"
	"yamdb-api/internal/validation"
)

type TitleHandler struct {
	catalogService *app.CatalogService
	logger         *slog.Logger
}

type TitleResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *int           `json:"rating"`
	Description string         `json:"description"`
	Genre       []SlugResponse `json:"genre"`
	Category    *SlugResponse  `json:"category"`
}

func NewTitleHandler(catalogService *app.CatalogService, logger *slog.Logger) *TitleHandler {
	return &TitleHandler{catalogService: catalogService, logger: logger}
}

func toTitleResponse(t *model.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       toSlugResponses(t.Genres),
	}
	if t.Category != nil {
		resp.Category = &SlugResponse{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return resp
}

func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationFailed(c, validation.Errors{"year": {"Enter a number."}})
			return
		}
		filter.Year = year
	}

	titles, total, err := h.catalogService.ListTitles(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	results := make([]TitleResponse, 0, len(titles))
	for i := range titles {
		results = append(results, toTitleResponse(&titles[i]))
	}
	response.Paginated(c, total, results)
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := titleID(c)
	if !ok {
		writeError(c, h.logger, app.ErrNotFound)
		return
	}

	title, err := h.catalogService.GetTitle(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, toTitleResponse(title))
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req app.TitleInput
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.catalogService.CreateTitle(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, toTitleResponse(title))
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := titleID(c)
	if !ok {
		writeError(c, h.logger, app.ErrNotFound)
		return
	}
	var req app.TitlePatch
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.catalogService.UpdateTitle(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, toTitleResponse(title))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := titleID(c)
	if !ok {
		writeError(c, h.logger, app.ErrNotFound)
		return
	}
	if err := h.catalogService.DeleteTitle(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.NoContent(c)
}

func titleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
