package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountingapp "github.com/erp/accounting/internal/application/accounting"
)

// VoucherHandler handles voucher API endpoints
type VoucherHandler struct {
	BaseHandler
	vouchers *accountingapp.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(vouchers *accountingapp.VoucherService) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// RegisterRoutes registers voucher routes on the given group
func (h *VoucherHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.Create)
		vouchers.GET("", h.List)
		vouchers.GET("/:id", h.GetByID)
		vouchers.GET("/number/:number", h.GetByNumber)
		vouchers.POST("/:id/approve", h.Approve)
		vouchers.POST("/:id/reject", h.Reject)
		vouchers.POST("/:id/lock", h.Lock)
	}
	rg.GET("/voucher-types", h.ListTypes)
}

// Create creates a new draft voucher
func (h *VoucherHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req accountingapp.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = userID
	}

	voucher, err := h.vouchers.CreateDraft(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, voucher)
}

// List returns vouchers matching the filter, paginated
func (h *VoucherHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter accountingapp.VoucherListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.vouchers.ListVouchers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single voucher with its lines
func (h *VoucherHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	voucherID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	voucher, err := h.vouchers.GetVoucher(c.Request.Context(), tenantID, voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// GetByNumber returns a single voucher looked up by its voucher number
func (h *VoucherHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Voucher number is required")
		return
	}

	voucher, err := h.vouchers.GetVoucherByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// Approve approves a draft voucher
func (h *VoucherHandler) Approve(c *gin.Context) {
	h.transition(c, h.vouchers.Approve)
}

// Lock locks an approved voucher
func (h *VoucherHandler) Lock(c *gin.Context) {
	h.transition(c, h.vouchers.Lock)
}

// RejectVoucherRequest carries the mandatory rejection reason
type RejectVoucherRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject rejects a draft voucher with a reason
func (h *VoucherHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	voucherID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req RejectVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	voucher, err := h.vouchers.Reject(c.Request.Context(), tenantID, voucherID, userID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// ListTypes returns the supported voucher types with their posting descriptions
func (h *VoucherHandler) ListTypes(c *gin.Context) {
	h.Success(c, h.vouchers.PostingDescriptions())
}

type transitionFunc func(ctx context.Context, tenantID, voucherID, actorID uuid.UUID) (*accountingapp.VoucherResponse, error)

func (h *VoucherHandler) transition(c *gin.Context, fn transitionFunc) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	voucherID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	voucher, err := fn(c.Request.Context(), tenantID, voucherID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}
