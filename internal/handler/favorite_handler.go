package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "favtrack/internal/errors"
	"favtrack/internal/service"
)

// FavoriteHandler handles favorites CRUD endpoints. The owner id always
// comes from the verified token, never from the request.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new favorites handler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// FavoriteRequest represents a create or partial-update request body.
type FavoriteRequest struct {
	Title           *string  `json:"title"`
	Type            *string  `json:"type"`
	Director        *string  `json:"director"`
	Budget          *float64 `json:"budget"`
	Location        *string  `json:"location"`
	DurationMinutes *int     `json:"durationMinutes"`
	Year            *int     `json:"year"`
	Description     *string  `json:"description"`
	Rating          *float64 `json:"rating"`
}

func (r FavoriteRequest) toInput() service.FavoriteInput {
	return service.FavoriteInput{
		Title:           r.Title,
		Type:            r.Type,
		Director:        r.Director,
		Budget:          r.Budget,
		Location:        r.Location,
		DurationMinutes: r.DurationMinutes,
		Year:            r.Year,
		Description:     r.Description,
		Rating:          r.Rating,
	}
}

// List godoc
// @Summary List the caller's favorites, newest first
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-50, default 10)"
// @Param offset query int false "Offset (default 0)"
// @Success 200 {object} service.ListResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	fields := map[string]string{}
	limit := queryInt(c, "limit", service.DefaultPageSize, fields)
	offset := queryInt(c, "offset", 0, fields)
	if len(fields) > 0 {
		return writeError(c, apperrors.NewValidation(fields))
	}

	result, err := h.favoriteService.List(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Add a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FavoriteRequest true "Favorite fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /favorites [post]
func (h *FavoriteHandler) Create(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	fav, err := h.favoriteService.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": fav})
}

// Get godoc
// @Summary Fetch a single favorite
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Favorite id"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/{id} [get]
func (h *FavoriteHandler) Get(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, apperrors.ErrFavoriteNotFound)
	}

	fav, err := h.favoriteService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": fav})
}

// Update godoc
// @Summary Partially update a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Favorite id"
// @Param request body FavoriteRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/{id} [put]
func (h *FavoriteHandler) Update(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, apperrors.ErrFavoriteNotFound)
	}

	var req FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	fav, err := h.favoriteService.Update(c.Request().Context(), userID, id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": fav})
}

// Delete godoc
// @Summary Delete a favorite
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Favorite id"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/{id} [delete]
func (h *FavoriteHandler) Delete(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, apperrors.ErrFavoriteNotFound)
	}

	if err := h.favoriteService.Delete(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// pathID parses the :id route parameter. A non-numeric id is treated the
// same as a missing record.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrFavoriteNotFound
	}
	return uint(id), nil
}

// queryInt parses an optional integer query parameter, recording a field
// error when the value is present but not an integer.
func queryInt(c echo.Context, name string, def int, fields map[string]string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = "must be an integer"
		return def
	}
	return v
}
