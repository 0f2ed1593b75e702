package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/interfaces/http/dto"
	"github.com/hms/backend/internal/interfaces/http/middleware"
)

// InwardHandler handles goods receipt endpoints
type InwardHandler struct {
	BaseHandler
	service *appinventory.InwardService
}

// NewInwardHandler creates a new InwardHandler
func NewInwardHandler(service *appinventory.InwardService) *InwardHandler {
	return &InwardHandler{service: service}
}

// RegisterRoutes registers inward routes on the given group
func (h *InwardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inwards := rg.Group("/inwards")
	{
		inwards.POST("", h.Create)
		inwards.GET("", h.List)
		inwards.GET("/:id", h.GetByID)
	}
}

// Create records a goods receipt and opens its batches
func (h *InwardHandler) Create(c *gin.Context) {
	var req dto.CreateInwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items := make([]appinventory.CreateInwardItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appinventory.CreateInwardItemRequest{
			ProductID:   item.ProductID,
			BatchNumber: item.BatchNumber,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			ExpiryDate:  item.ExpiryDate,
		})
	}

	resp, err := h.service.Create(c.Request.Context(), appinventory.CreateInwardRequest{
		InwardNumber: req.InwardNumber,
		OrderID:      req.OrderID,
		VendorName:   req.VendorName,
		ReceivedBy:   getUserID(c),
		Remark:       req.Remark,
		Items:        items,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single goods receipt with its batches
func (h *InwardHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inward ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated goods receipt list
func (h *InwardHandler) List(c *gin.Context) {
	var req dto.InwardListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.Defaults()

	items, total, err := h.service.List(c.Request.Context(), appinventory.InwardListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		VendorName: req.VendorName,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}
