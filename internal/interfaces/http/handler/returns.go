package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreturns "github.com/hms/backend/internal/application/returns"
	"github.com/hms/backend/internal/interfaces/http/dto"
	"github.com/hms/backend/internal/interfaces/http/middleware"
)

// ReturnHandler handles vendor return endpoints
type ReturnHandler struct {
	BaseHandler
	service *appreturns.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(service *appreturns.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: service}
}

// RegisterRoutes registers return routes on the given group
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ret := rg.Group("/returns")
	{
		ret.POST("", h.Create)
		ret.GET("", h.List)
		ret.GET("/:id", h.GetByID)
		ret.POST("/:id/process", h.Process)
		ret.POST("/:id/cancel", h.Cancel)
	}
}

// Create records a vendor return. Unless the body asks for status
// "pending" the return is processed in the same request, draining stock
// immediately.
func (h *ReturnHandler) Create(c *gin.Context) {
	var req dto.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items := make([]appreturns.ReturnItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appreturns.ReturnItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			TaxAmount: item.TaxAmount,
			Reason:    item.Reason,
		})
	}

	resp, err := h.service.Create(c.Request.Context(), appreturns.CreateReturnRequest{
		ReturnNumber:       req.ReturnNumber,
		VendorName:         req.VendorName,
		BillingID:          req.BillingID,
		Reason:             req.Reason,
		CreatedBy:          getUserID(c),
		ProcessImmediately: req.Status != "pending",
		Items:              items,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single vendor return
func (h *ReturnHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Process drains stock for a pending return
func (h *ReturnHandler) Process(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	resp, err := h.service.Process(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel voids a pending return without touching stock
func (h *ReturnHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated vendor return list
func (h *ReturnHandler) List(c *gin.Context) {
	var req dto.ReturnListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.Defaults()

	items, total, err := h.service.List(c.Request.Context(), appreturns.ReturnListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		VendorName: req.VendorName,
		Status:     req.Status,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}
