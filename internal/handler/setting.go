package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/willowbend/lodge-admin/internal/model"
	"github.com/willowbend/lodge-admin/internal/repository"
)

// SettingHandler exposes the single-row business settings.
type SettingHandler struct {
	Settings *repository.SettingRepo
}

func NewSettingHandler(r *repository.SettingRepo) *SettingHandler {
	if r == nil {
		panic("nil repository passed to NewSettingHandler")
	}
	return &SettingHandler{Settings: r}
}

// GetSettings handles GET /v1/settings.
func (h *SettingHandler) GetSettings(c echo.Context) error {
	s, err := h.Settings.Get(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateSettings handles PATCH /v1/settings.  Only fields present in
// the body are changed.
func (h *SettingHandler) UpdateSettings(c echo.Context) error {
	var patch model.SettingPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if patch.MinBookingLength != nil && patch.MaxBookingLength != nil &&
		*patch.MinBookingLength > *patch.MaxBookingLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_booking_length cannot exceed max_booking_length"})
	}
	s, err := h.Settings.Update(c.Request().Context(), patch)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update settings"})
	}
	return c.JSON(http.StatusOK, s)
}
