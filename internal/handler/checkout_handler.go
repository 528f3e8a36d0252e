// Package handler exposes the checkout use cases over HTTP.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/engel-trans/service-checkout/internal/application"
	"github.com/engel-trans/service-checkout/internal/document"
	"github.com/engel-trans/service-checkout/internal/domain/route"
	"github.com/engel-trans/service-checkout/internal/response"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles the lookup and pricing requests of the booking form.
type CheckoutHandler struct {
	service *application.CheckoutService
	pdf     *document.QuoteRenderer
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *application.CheckoutService, pdf *document.QuoteRenderer) *CheckoutHandler {
	return &CheckoutHandler{service: service, pdf: pdf}
}

// RegisterRoutes registers the address, distance and quote routes.
func (h *CheckoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/addresses/search", h.SearchAddresses)
	r.POST("/distance", h.ResolveDistance)
	r.POST("/quotes", h.Quote)
	r.POST("/quotes/pdf", h.QuotePDF)
}

// SearchAddresses handles POST /addresses/search.
func (h *CheckoutHandler) SearchAddresses(c *gin.Context) {
	var req application.SearchAddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.SearchAddresses(c.Request.Context(), req))
}

// ResolveDistance handles POST /distance. Route failures answer with the
// reason so the form can show a message without parsing status codes.
func (h *CheckoutHandler) ResolveDistance(c *gin.Context) {
	var req application.DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ResolveDistance(c.Request.Context(), req)
	if err != nil {
		var failure *route.Failure
		if !errors.As(err, &failure) {
			response.Error(c, err)
			return
		}
		c.JSON(response.RouteStatus(failure.Reason), gin.H{
			"error":  failure.Message,
			"reason": failure.Reason,
		})
		return
	}

	response.Success(c, result)
}

// Quote handles POST /quotes.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.service.Quote(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, quote)
}

type quotePDFRequest struct {
	application.QuoteRequest
	CustomerName string `json:"customerName"`
	StartAddress string `json:"startAddress"`
	EndAddress   string `json:"endAddress"`
}

// QuotePDF handles POST /quotes/pdf.
func (h *CheckoutHandler) QuotePDF(c *gin.Context) {
	var req quotePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.service.Quote(req.QuoteRequest)
	if err != nil {
		response.Error(c, err)
		return
	}
	if quote.IsZero() {
		response.BadRequest(c, "nothing to quote: select at least one service")
		return
	}

	issued := time.Now()
	data, err := h.pdf.Render(document.QuoteInput{
		CustomerName: req.CustomerName,
		StartAddress: req.StartAddress,
		EndAddress:   req.EndAddress,
		Quote:        quote,
		IssuedAt:     issued,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("angebot-%s.pdf", issued.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
