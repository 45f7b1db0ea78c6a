package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/domain/movement"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// MovementHandler handles HTTP requests for the stock movement log.
type MovementHandler struct {
	*BaseHandler
	log *movement.Log
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, log *movement.Log) *MovementHandler {
	return &MovementHandler{
		BaseHandler: base,
		log:         log,
	}
}

// History handles GET /movements
func (h *MovementHandler) History(c *gin.Context) {
	itemName := c.Query("itemName")
	if itemName == "" {
		h.Error(c, apperror.NewValidation("itemName is required"))
		return
	}
	brand := c.Query("brand")

	filter := movement.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if typeStr := c.Query("type"); typeStr != "" {
		movementType := movement.Type(typeStr)
		filter.Type = &movementType
	}
	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}
	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.log.History(c.Request.Context(), itemName, brand, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}
	h.OK(c, dto.MovementListResponse{Items: items})
}

// Balance handles GET /movements/balance
func (h *MovementHandler) Balance(c *gin.Context) {
	itemName := c.Query("itemName")
	if itemName == "" {
		h.Error(c, apperror.NewValidation("itemName is required"))
		return
	}
	brand := c.Query("brand")

	balance, err := h.log.CurrentBalance(c.Request.Context(), itemName, brand)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BalanceResponse{
		ItemName: itemName,
		Brand:    brand,
		Balance:  balance.Float64(),
	})
}
