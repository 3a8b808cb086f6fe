package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public auth endpoints on public and the
// authenticated ones on protected.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/auth/register/patient", h.RegisterPatient)
	public.POST("/auth/register/doctor", h.RegisterDoctor)
	public.POST("/auth/token", h.Token)
	public.POST("/auth/token/refresh", h.Refresh)
	public.POST("/auth/token/blacklist", h.Blacklist)

	protected.GET("/auth/me", h.Me)
}

type registeredResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.RegisterPatient(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registeredResponse{ID: u.ID.String(), Email: u.Email, Role: u.Role})
}

func (h *Handler) RegisterDoctor(c echo.Context) error {
	var in RegisterDoctorInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.RegisterDoctor(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registeredResponse{ID: u.ID.String(), Email: u.Email, Role: u.Role})
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pair, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	access, err := h.svc.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"access": access})
}

func (h *Handler) Blacklist(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Blacklist(c.Request().Context(), req.Refresh); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	u, err := h.svc.Me(c.Request().Context(), ident.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
