package handlers

import (
	"net/http"

	"parkmate/internal/common"
	"parkmate/internal/services"

	"github.com/labstack/echo/v4"
)

// InspectorHandlers handles parking inspector HTTP requests.
type InspectorHandlers struct {
	inspectorService services.InspectorService
}

// NewInspectorHandlers creates a new inspector handlers instance.
func NewInspectorHandlers(inspectorService services.InspectorService) *InspectorHandlers {
	return &InspectorHandlers{inspectorService: inspectorService}
}

// ListInspectors returns the inspector roster, optionally narrowed by a
// search term or status.
func (h *InspectorHandlers) ListInspectors(c echo.Context) error {
	ctx := c.Request().Context()

	if term := c.QueryParam("q"); term != "" {
		inspectors, err := h.inspectorService.Search(ctx, term)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"inspectors": inspectors})
	}

	if status := c.QueryParam("status"); status != "" {
		inspectors, err := h.inspectorService.ListByStatus(ctx, status)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"inspectors": inspectors})
	}

	inspectors, err := h.inspectorService.List(ctx)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"inspectors": inspectors})
}

// GetInspector returns one inspector by ID.
func (h *InspectorHandlers) GetInspector(c echo.Context) error {
	inspector, err := h.inspectorService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inspector)
}

// CreateInspector adds a new inspector with an allocated display ID.
func (h *InspectorHandlers) CreateInspector(c echo.Context) error {
	var req services.AddInspectorRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, common.ValidationMessage(err))
	}

	inspector, err := h.inspectorService.Add(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, inspector)
}

// UpdateInspector applies a partial update through the allow-listed path.
func (h *InspectorHandlers) UpdateInspector(c echo.Context) error {
	var updates map[string]any
	if err := c.Bind(&updates); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	inspector, err := h.inspectorService.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inspector)
}

// StatusRequest carries a duty-presence change.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInspectorStatus flips an inspector between online and offline.
func (h *InspectorHandlers) UpdateInspectorStatus(c echo.Context) error {
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	if err := h.inspectorService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Status updated to "+req.Status)
}

// AssignZoneRequest carries a council-admin zone assignment.
type AssignZoneRequest struct {
	Zone             string `json:"zone" validate:"required"`
	MunicipalCouncil string `json:"municipalCouncil"`
}

// AssignInspectorZone assigns a zone to an inspector.
func (h *InspectorHandlers) AssignInspectorZone(c echo.Context) error {
	var req AssignZoneRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	if err := h.inspectorService.AssignZone(c.Request().Context(), c.Param("id"), req.Zone, req.MunicipalCouncil); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Zone assigned successfully")
}

// DeleteInspector removes an inspector.
func (h *InspectorHandlers) DeleteInspector(c echo.Context) error {
	if err := h.inspectorService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Inspector deleted successfully")
}
