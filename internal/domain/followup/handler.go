package followup

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/follow-ups", auth.RequireRole(auth.RoleStaff))
	g.GET("", h.ListFollowUps)
	g.POST("", h.CreateFollowUp)
	g.GET("/:id", h.GetFollowUp)
	g.PATCH("/:id", h.UpdateFollowUp)
}

func (h *Handler) CreateFollowUp(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	companyID, err := uuid.Parse(auth.CompanyIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token company")
	}
	f, err := h.svc.CreateFollowUp(c.Request().Context(), companyID, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.GetFollowUp(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFollowUps(c echo.Context) error {
	filter := ListFilter{
		Status: c.QueryParam("status"),
		Limit:  pagination.FromContext(c).Limit,
	}
	items, err := h.svc.ListFollowUps(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*FollowUp{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	f, err := h.svc.UpdateFollowUp(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "FollowUp not found")
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
