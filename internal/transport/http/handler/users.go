package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/app"
	"yamdb-api/internal/model"
	"yamdb-api/internal/transport/http/middleware"
	"yamdb-api/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
	logger      *slog.Logger
}

type UserResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      string  `json:"role"`
}

func NewUserHandler(userService *app.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      string(u.Role),
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if caller == nil {
		writeError(c, h.logger, app.ErrUnauthenticated)
		return
	}
	response.OK(c, toUserResponse(caller))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req app.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateSelf(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, toUserResponse(user))
}

func (h *UserHandler) List(c *gin.Context) {
	users, total, err := h.userService.List(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	results := make([]UserResponse, 0, len(users))
	for i := range users {
		results = append(results, toUserResponse(&users[i]))
	}
	response.Paginated(c, total, results)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req app.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, toUserResponse(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, toUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req app.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, toUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
