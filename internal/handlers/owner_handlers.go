package handlers

import (
	"net/http"

	"parkmate/internal/common"
	"parkmate/internal/services"

	"github.com/labstack/echo/v4"
)

// OwnerHandlers handles vehicle owner HTTP requests. There is no create
// route: owners are provisioned outside the portal.
type OwnerHandlers struct {
	ownerService services.OwnerService
}

// NewOwnerHandlers creates a new owner handlers instance.
func NewOwnerHandlers(ownerService services.OwnerService) *OwnerHandlers {
	return &OwnerHandlers{ownerService: ownerService}
}

// ListOwners returns the owner roster, optionally narrowed by a search term
// or status.
func (h *OwnerHandlers) ListOwners(c echo.Context) error {
	ctx := c.Request().Context()

	if term := c.QueryParam("q"); term != "" {
		owners, err := h.ownerService.Search(ctx, term)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"owners": owners})
	}

	if status := c.QueryParam("status"); status != "" {
		owners, err := h.ownerService.ListByStatus(ctx, status)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"owners": owners})
	}

	owners, err := h.ownerService.List(ctx)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"owners": owners})
}

// GetOwner returns one owner by ID.
func (h *OwnerHandlers) GetOwner(c echo.Context) error {
	owner, err := h.ownerService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

// GetOwnerByNIC returns one owner by national identity card number.
func (h *OwnerHandlers) GetOwnerByNIC(c echo.Context) error {
	owner, err := h.ownerService.GetByNIC(c.Request().Context(), c.Param("nic"))
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

// UpdateOwner applies a partial update through the allow-listed path.
func (h *OwnerHandlers) UpdateOwner(c echo.Context) error {
	var updates map[string]any
	if err := c.Bind(&updates); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	owner, err := h.ownerService.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

// DeleteOwner removes an owner.
func (h *OwnerHandlers) DeleteOwner(c echo.Context) error {
	if err := h.ownerService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Vehicle owner deleted successfully")
}
