package handler

import (
	"github.com/engel-trans/service-checkout/internal/application"
	"github.com/engel-trans/service-checkout/internal/response"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles the PayPal and bank-transfer payment requests.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers all payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("/orders", h.CreateOrder)
		payments.POST("/capture-confirm", h.CaptureConfirm)
		payments.POST("/manual-instructions", h.ManualInstructions)
	}
}

// CreateOrder handles POST /payments/orders.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// CaptureConfirm handles POST /payments/capture-confirm.
func (h *PaymentHandler) CaptureConfirm(c *gin.Context) {
	var req application.CaptureConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ConfirmCapture(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ManualInstructions handles POST /payments/manual-instructions. An
// undelivered instructions email is a 200 with success=false and a message.
func (h *PaymentHandler) ManualInstructions(c *gin.Context) {
	var req application.ManualInstructionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SendManualInstructions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
