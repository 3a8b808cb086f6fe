package telehealth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the video room endpoints on an authenticated
// group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/rooms/appointment/:id", h.CreateRoom)
	api.GET("/rooms/:room_name", h.GetRoom)
}

func identityOf(c echo.Context) (auth.Identity, error) {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return ident, nil
}

func (h *Handler) CreateRoom(c echo.Context) error {
	ident, err := identityOf(c)
	if err != nil {
		return err
	}
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	room, created, err := h.svc.CreateRoom(c.Request().Context(), ident, appointmentID)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, room)
}

func (h *Handler) GetRoom(c echo.Context) error {
	ident, err := identityOf(c)
	if err != nil {
		return err
	}
	room, err := h.svc.GetRoom(c.Request().Context(), ident, c.Param("room_name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}
