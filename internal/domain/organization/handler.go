package organization

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	a := api.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/register/company", h.RegisterCompany)
	a.POST("/register/staff", h.RegisterStaff)
	a.POST("/logout", h.Logout)
	a.GET("/me", h.Me)

	staff := api.Group("/staff", auth.RequireRole(auth.RoleAdmin))
	staff.GET("", h.ListStaff)
	staff.DELETE("/:id", h.RemoveStaff)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return tokenResponse(c, http.StatusOK, resp)
}

func (h *Handler) RegisterCompany(c echo.Context) error {
	var req CompanyRegistration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.RegisterCompany(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return tokenResponse(c, http.StatusOK, resp)
}

func (h *Handler) RegisterStaff(c echo.Context) error {
	var req StaffRegistration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.RegisterStaff(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return tokenResponse(c, http.StatusOK, resp)
}

func tokenResponse(c echo.Context, code int, resp *TokenResponse) error {
	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+resp.AccessToken)
	return c.JSON(code, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	jti, exp := auth.TokenFromContext(c.Request().Context())
	h.svc.Logout(jti, exp)
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	u, err := h.svc.Me(c.Request().Context(), uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, u.Response())
}

func (h *Handler) ListStaff(c echo.Context) error {
	companyID, err := uuid.Parse(auth.CompanyIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token company")
	}
	users, err := h.svc.ListStaff(c.Request().Context(), companyID)
	if err != nil {
		return httpError(err)
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.Response())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) RemoveStaff(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	companyID, err := uuid.Parse(auth.CompanyIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token company")
	}
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	if err := h.svc.RemoveStaff(ctx, companyID, actorID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCode):
		return echo.NewHTTPError(http.StatusNotFound, "Invalid company code")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Staff member not found")
	case errors.Is(err, ErrSelfRemoval):
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot remove yourself")
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
