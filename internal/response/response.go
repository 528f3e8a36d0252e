// Package response writes the JSON envelopes of the checkout API.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/route"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorEnvelope is written for every failed request.
type ErrorEnvelope struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Success writes data with 200.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with 201.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Paginated writes a page of items with its metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"meta": PageMeta{Page: page, Limit: limit, Total: total, TotalPages: pages},
	})
}

// BadRequest writes a 400 with a plain message.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrorBody{Code: "BAD_REQUEST", Message: message})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, ErrorBody{Code: "UNAUTHORIZED", Message: "unauthorized"})
}

// Error maps err to a status and writes it. Unknown errors become 500 and
// their text is not exposed.
func Error(c *gin.Context, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	abort(c, status, body)
}

func classify(err error) (int, ErrorBody) {
	var (
		validation    *apperror.ValidationError
		upstream      *apperror.UpstreamError
		notConfigured *apperror.NotConfiguredError
		notFound      *apperror.NotFoundError
		invalidState  *apperror.InvalidStateError
		failure       *route.Failure
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorBody{Code: "VALIDATION_ERROR", Message: validation.Message, Field: validation.Field}
	case errors.As(err, &failure):
		return RouteStatus(failure.Reason), ErrorBody{Code: "ROUTE_" + strings.ToUpper(string(failure.Reason)), Message: failure.Message}
	case errors.As(err, &notConfigured):
		return http.StatusServiceUnavailable, ErrorBody{Code: "NOT_CONFIGURED", Message: notConfigured.Error()}
	case errors.As(err, &upstream):
		return http.StatusBadGateway, ErrorBody{Code: "UPSTREAM_ERROR", Message: upstream.Message}
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: notFound.Error()}
	case errors.As(err, &invalidState):
		return http.StatusConflict, ErrorBody{Code: "INVALID_STATE", Message: invalidState.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}

// RouteStatus is the HTTP status of a failed distance resolution.
func RouteStatus(reason route.Reason) int {
	switch reason {
	case route.ReasonMissingOrigin, route.ReasonMissingDestination:
		return http.StatusBadRequest
	case route.ReasonNoRoute:
		return http.StatusUnprocessableEntity
	case route.ReasonNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func abort(c *gin.Context, status int, body ErrorBody) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Success:   false,
		Error:     body,
		RequestID: c.GetString(RequestIDKey),
	})
}
