package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/allocation"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// AllocationHandler handles availability checks and consumption.
type AllocationHandler struct {
	*BaseHandler
	resolver *allocation.Resolver
	engine   *allocation.Engine
}

// NewAllocationHandler creates a new allocation handler.
func NewAllocationHandler(base *BaseHandler, resolver *allocation.Resolver, engine *allocation.Engine) *AllocationHandler {
	return &AllocationHandler{
		BaseHandler: base,
		resolver:    resolver,
		engine:      engine,
	}
}

// CheckAvailability handles GET /allocation/availability
func (h *AllocationHandler) CheckAvailability(c *gin.Context) {
	itemName := c.Query("itemName")
	if itemName == "" {
		h.Error(c, apperror.NewValidation("itemName is required"))
		return
	}
	brand := c.Query("brand")

	quantity := types.Quantity(0)
	if qStr := c.Query("quantity"); qStr != "" {
		d, err := decimal.NewFromString(qStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid quantity").WithDetail("value", qStr))
			return
		}
		quantity = types.NewQuantityFromDecimal(d)
	}

	result, err := h.resolver.CheckAvailability(c.Request.Context(), itemName, brand, quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAvailability(result))
}

// Consume handles POST /allocation/consume
func (h *AllocationHandler) Consume(c *gin.Context) {
	var req dto.ConsumeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	materials, cctx, err := req.ToRequests()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.engine.ConsumeMaterials(c.Request.Context(), materials, cctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ConsumeResponse{Success: result.Success, Warnings: result.Warnings})
}
