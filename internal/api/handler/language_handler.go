package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

type LanguageHandler struct {
	languageService ports.LanguageService
}

func NewLanguageHandler(languageService ports.LanguageService) *LanguageHandler {
	return &LanguageHandler{languageService: languageService}
}

type languageRequest struct {
	Label      string   `json:"label" validate:"required"`
	Stack      string   `json:"stack" validate:"required,oneof=FRONT_END BACK_END FULL_STACK"`
	ProjectIDs []string `json:"project_ids"`
}

// List returns catalog entries, optionally narrowed to one owner's or one
// project's references.
//
// @Summary      List languages
// @Tags         languages
// @Produce      json
// @Param        user_id     query     string  false  "Only languages referenced by this owner's projects"
// @Param        project_id  query     string  false  "Only languages referenced by this project"
// @Success      200         {array}   domain.Language
// @Router       /api/languages [get]
func (h *LanguageHandler) List(c echo.Context) error {
	languages, err := h.languageService.List(c.Request().Context(), ports.ListLanguagesFilter{
		OwnerID:   c.QueryParam("user_id"),
		ProjectID: c.QueryParam("project_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, languages)
}

// Get returns one catalog entry by id.
//
// @Summary      Get a language
// @Tags         languages
// @Produce      json
// @Param        id   path      string  true  "Language id"
// @Success      200  {object}  domain.Language
// @Failure      404  {object}  map[string]string
// @Router       /api/languages/{id} [get]
func (h *LanguageHandler) Get(c echo.Context) error {
	language, err := h.languageService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, language)
}

// Create adds or reuses a catalog entry and attaches the caller's projects.
//
// @Summary      Create a language
// @Tags         languages
// @Accept       json
// @Produce      json
// @Param        body  body      languageRequest  true  "Language fields"
// @Success      201   {object}  domain.Language
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/languages [post]
func (h *LanguageHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req languageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	language, err := h.languageService.Create(c.Request().Context(), caller, ports.LanguageApplyInput{
		Label:      req.Label,
		Stack:      domain.Stack(req.Stack),
		ProjectIDs: req.ProjectIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, language)
}

// Update edits a catalog entry. A multi-owner row forks instead of
// mutating in place, so the response's id may differ from the path id.
//
// @Summary      Update a language
// @Tags         languages
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Language id"
// @Param        body  body      languageRequest  true  "Language fields"
// @Success      200   {object}  domain.Language
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/languages/{id} [put]
func (h *LanguageHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req languageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	language, err := h.languageService.Update(c.Request().Context(), caller, c.Param("id"), ports.LanguageApplyInput{
		Label:      req.Label,
		Stack:      domain.Stack(req.Stack),
		ProjectIDs: req.ProjectIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, language)
}

// Delete detaches one project's reference (project_id query param) or
// removes the whole row when no project is given.
//
// @Summary      Delete a language or detach one reference
// @Tags         languages
// @Produce      json
// @Param        id          path      string  true   "Language id"
// @Param        project_id  query     string  false  "Project whose reference to detach"
// @Success      200         {object}  ports.LanguageDeleteResult
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Failure      409         {object}  map[string]string
// @Router       /api/languages/{id} [delete]
func (h *LanguageHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.languageService.Delete(c.Request().Context(), caller, c.Param("id"), c.QueryParam("project_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
