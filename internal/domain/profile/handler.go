package profile

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	patientGroup := api.Group("", auth.RequireRole(auth.RolePatient))
	patientGroup.GET("/auth/me/patient-profile", h.GetPatientProfile)
	patientGroup.PATCH("/auth/me/patient-profile", h.UpdatePatientProfile)

	doctorGroup := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctorGroup.GET("/auth/me/doctor-profile", h.GetDoctorProfile)
	doctorGroup.PATCH("/auth/me/doctor-profile", h.UpdateDoctorProfile)

	// Directory is open to any authenticated user
	api.GET("/auth/doctors", h.ListDoctors)
	api.GET("/auth/doctors/:id", h.GetDoctor)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.PATCH("/auth/admin/verify-doctor/:id", h.VerifyDoctor)
}

func identityOf(c echo.Context) (auth.Identity, error) {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return ident, nil
}

func (h *Handler) GetPatientProfile(c echo.Context) error {
	ident, err := identityOf(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatientProfile(c.Request().Context(), ident.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatientProfile(c echo.Context) error {
	ident, err := identityOf(c)
	if err != nil {
		return err
	}
	var in UpdatePatientInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdatePatientProfile(c.Request().Context(), ident.UserID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetDoctorProfile(c echo.Context) error {
	ident, err := identityOf(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetOwnDoctorProfile(c.Request().Context(), ident.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDoctorProfile(c echo.Context) error {
	ident, err := identityOf(c)
	if err != nil {
		return err
	}
	var in UpdateDoctorInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.UpdateDoctorProfile(c.Request().Context(), ident.UserID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	q := DoctorQuery{
		Search:         c.QueryParam("search"),
		Specialization: c.QueryParam("specialization"),
		Ordering:       c.QueryParam("ordering"),
		Limit:          pg.Limit,
		Offset:         pg.Offset,
	}
	items, total, err := h.svc.ListDoctors(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

type verifyRequest struct {
	VerificationStatus string `json:"verification_status"`
}

func (h *Handler) VerifyDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetVerification(c.Request().Context(), id, req.VerificationStatus); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"user_id":             id.String(),
		"verification_status": req.VerificationStatus,
	})
}
