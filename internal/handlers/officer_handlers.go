package handlers

import (
	"net/http"

	"parkmate/internal/common"
	"parkmate/internal/services"

	"github.com/labstack/echo/v4"
)

// OfficerHandlers handles municipal council officer HTTP requests.
type OfficerHandlers struct {
	officerService services.OfficerService
}

// NewOfficerHandlers creates a new officer handlers instance.
func NewOfficerHandlers(officerService services.OfficerService) *OfficerHandlers {
	return &OfficerHandlers{officerService: officerService}
}

// ListOfficers returns the officer roster, optionally narrowed by a search
// term or status.
func (h *OfficerHandlers) ListOfficers(c echo.Context) error {
	ctx := c.Request().Context()

	if term := c.QueryParam("q"); term != "" {
		officers, err := h.officerService.Search(ctx, term)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"officers": officers})
	}

	if status := c.QueryParam("status"); status != "" {
		officers, err := h.officerService.ListByStatus(ctx, status)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"officers": officers})
	}

	officers, err := h.officerService.List(ctx)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"officers": officers})
}

// GetOfficer returns one officer by ID.
func (h *OfficerHandlers) GetOfficer(c echo.Context) error {
	officer, err := h.officerService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, officer)
}

// CreateOfficer adds a new officer with an allocated display ID.
func (h *OfficerHandlers) CreateOfficer(c echo.Context) error {
	var req services.AddOfficerRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, common.ValidationMessage(err))
	}

	officer, err := h.officerService.Add(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, officer)
}

// UpdateOfficer applies a partial update through the allow-listed path.
func (h *OfficerHandlers) UpdateOfficer(c echo.Context) error {
	var updates map[string]any
	if err := c.Bind(&updates); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	officer, err := h.officerService.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, officer)
}

// UpdateOfficerStatus flips an officer between online and offline.
func (h *OfficerHandlers) UpdateOfficerStatus(c echo.Context) error {
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	if err := h.officerService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Status updated to "+req.Status)
}

// DeleteOfficer removes an officer.
func (h *OfficerHandlers) DeleteOfficer(c echo.Context) error {
	if err := h.officerService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Officer deleted successfully")
}
