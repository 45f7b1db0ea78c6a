package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/allocation"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// CatalogHandler handles HTTP requests for item model metadata.
type CatalogHandler struct {
	*BaseHandler
	service  *catalog.Service
	resolver *allocation.Resolver
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, service *catalog.Service, resolver *allocation.Resolver) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		service:     service,
		resolver:    resolver,
	}
}

// Create handles POST /catalog/models
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.ItemModelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	model, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), model)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created.ID.String())
}

// List handles GET /catalog/models
func (h *CatalogHandler) List(c *gin.Context) {
	models, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ItemModelResponse, len(models))
	for i, m := range models {
		items[i] = dto.FromItemModel(m)
	}
	h.OK(c, dto.ItemModelListResponse{Items: items})
}

// Get handles GET /catalog/models/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	modelID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid model id"))
		return
	}

	model, err := h.service.GetByID(c.Request.Context(), modelID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItemModel(model))
}

// Update handles PUT /catalog/models/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	modelID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid model id"))
		return
	}

	var req dto.ItemModelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	model, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}
	model.ID = modelID

	updated, err := h.service.Update(c.Request.Context(), model)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItemModel(updated))
}

// Delete handles DELETE /catalog/models/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	modelID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid model id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), modelID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// LowStock handles GET /reports/low-stock
//
// A model is reported when its available stock falls below MinStock.
// Models with no minimum configured are skipped.
func (h *CatalogHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	models, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	report := dto.LowStockResponse{Items: []dto.LowStockEntry{}}
	for _, m := range models {
		if m.MinStock <= 0 {
			continue
		}
		avail, err := h.resolver.CheckAvailability(ctx, m.Name, m.Brand, m.MinStock)
		if err != nil {
			h.Error(c, err)
			return
		}
		if avail.Available >= m.MinStock {
			continue
		}
		report.Items = append(report.Items, dto.LowStockEntry{
			Model:     dto.FromItemModel(m),
			Available: avail.Available.Float64(),
			MinStock:  m.MinStock.Float64(),
		})
	}
	h.OK(c, report)
}
