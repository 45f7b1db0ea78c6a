package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles HTTP requests for the inventory ledger.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register handles POST /inventory/units
func (h *InventoryHandler) Register(c *gin.Context) {
	var req dto.RegisterUnitsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UnitResponse, len(created))
	for i, u := range created {
		items[i] = dto.FromUnit(u)
	}
	h.OK(c, dto.UnitListResponse{Items: items})
}

// List handles GET /inventory/units
func (h *InventoryHandler) List(c *gin.Context) {
	filter := inventory.Filter{
		ItemName: c.Query("itemName"),
		Brand:    c.Query("brand"),
		Status:   inventory.Status(c.Query("status")),
		Limit:    h.ParseIntQuery(c, "limit", 100),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}

	units, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UnitResponse, len(units))
	for i, u := range units {
		items[i] = dto.FromUnit(u)
	}
	h.OK(c, dto.UnitListResponse{Items: items})
}

// Get handles GET /inventory/units/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	unitID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit id"))
		return
	}

	unit, err := h.service.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUnit(unit))
}

// Update handles PATCH /inventory/units/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	unitID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit id"))
		return
	}

	var req dto.UnitPatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.UpdateUnit(c.Request.Context(), unitID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUnit(updated))
}

// Delete handles DELETE /inventory/units/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	unitID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), unitID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// BatchUpdate handles POST /inventory/units/batch-status
func (h *InventoryHandler) BatchUpdate(c *gin.Context) {
	var req dto.BatchUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	patch, err := req.Patch.ToPatch()
	if err != nil {
		h.Error(c, err)
		return
	}

	affected, err := h.service.UpdateUnitBatch(c.Request.Context(), ids, patch, req.LogAction)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AffectedResponse{Affected: affected})
}

// ReceiveReturns handles POST /inventory/units/returns
func (h *InventoryHandler) ReceiveReturns(c *gin.Context) {
	var req dto.ReceiveReturnsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	affected, err := h.service.ReceiveReturns(c.Request.Context(), ids, req.Location)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AffectedResponse{Affected: affected})
}

func parseIDs(raw []string) ([]id.ID, error) {
	ids := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := id.Parse(s)
		if err != nil {
			return nil, apperror.NewValidation("invalid unit id").WithDetail("value", s)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}
