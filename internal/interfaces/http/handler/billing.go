package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/hms/backend/internal/application/billing"
	"github.com/hms/backend/internal/interfaces/http/dto"
	"github.com/hms/backend/internal/interfaces/http/middleware"
)

// BillingHandler handles patient billing endpoints
type BillingHandler struct {
	BaseHandler
	service *appbilling.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(service *appbilling.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// RegisterRoutes registers billing routes on the given group
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billings := rg.Group("/billings")
	{
		billings.POST("", h.Create)
		billings.GET("", h.List)
		billings.GET("/:id", h.GetByID)
		billings.PUT("/:id", h.Update)
		billings.DELETE("/:id", h.Cancel)
	}
}

// Create bills a patient, consuming stock oldest batches first
func (h *BillingHandler) Create(c *gin.Context) {
	var req dto.CreateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), appbilling.CreateBillingRequest{
		BillingNumber: req.BillingNumber,
		PatientName:   req.PatientName,
		PatientRef:    req.PatientRef,
		BilledBy:      getUserID(c),
		Discount:      req.Discount,
		Tax:           req.Tax,
		Paid:          req.Paid,
		Items:         toBillingItems(req.Items),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single billing with its batch allocations
func (h *BillingHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update replaces the lines of an active billing. The previous
// consumption is reversed and the new lines are allocated fresh.
func (h *BillingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	var req dto.UpdateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, appbilling.UpdateBillingRequest{
		Discount: req.Discount,
		Tax:      req.Tax,
		Paid:     req.Paid,
		Items:    toBillingItems(req.Items),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel voids a billing and restores the exact consumed quantities
func (h *BillingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// List returns a paginated billing list
func (h *BillingHandler) List(c *gin.Context) {
	var req dto.BillingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.Defaults()

	items, total, err := h.service.List(c.Request.Context(), appbilling.BillingListFilter{
		Page:        req.Page,
		PageSize:    req.PageSize,
		OrderBy:     req.OrderBy,
		OrderDir:    req.OrderDir,
		Search:      req.Search,
		PatientName: req.PatientName,
		Status:      req.Status,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

func toBillingItems(items []dto.BillingItemRequest) []appbilling.BillingItemRequest {
	out := make([]appbilling.BillingItemRequest, 0, len(items))
	for _, item := range items {
		out = append(out, appbilling.BillingItemRequest{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			DiscountAmount: item.DiscountAmount,
			TaxAmount:      item.TaxAmount,
		})
	}
	return out
}
