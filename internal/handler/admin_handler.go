package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/middleware"
	"github.com/engel-trans/service-checkout/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FallbackStore reads the recorded undelivered notifications.
type FallbackStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (notification.FallbackRecord, error)
	List(ctx context.Context, page, limit int) ([]notification.FallbackRecord, int64, error)
}

// FallbackResponse is the admin view of an undelivered notification.
type FallbackResponse struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	OrderID    string    `json:"orderId,omitempty"`
	Recipients []string  `json:"recipients"`
	Subject    string    `json:"subject"`
	TextBody   string    `json:"textBody"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AdminFallbackHandler lets operators read notifications that could not be sent.
type AdminFallbackHandler struct {
	store FallbackStore
	token string
}

// NewAdminFallbackHandler creates a new AdminFallbackHandler.
func NewAdminFallbackHandler(store FallbackStore, token string) *AdminFallbackHandler {
	return &AdminFallbackHandler{store: store, token: token}
}

// RegisterRoutes registers the admin fallback routes behind the bearer token.
func (h *AdminFallbackHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(h.token))
	{
		admin.GET("/fallbacks", h.ListFallbacks)
		admin.GET("/fallbacks/:id", h.GetFallback)
	}
}

// ListFallbacks handles GET /admin/fallbacks.
func (h *AdminFallbackHandler) ListFallbacks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	records, total, err := h.store.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]FallbackResponse, len(records))
	for i, rec := range records {
		items[i] = toFallbackResponse(rec)
	}
	response.Paginated(c, items, total, page, limit)
}

// GetFallback handles GET /admin/fallbacks/:id.
func (h *AdminFallbackHandler) GetFallback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid fallback ID")
		return
	}

	rec, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toFallbackResponse(rec))
}

func toFallbackResponse(rec notification.FallbackRecord) FallbackResponse {
	return FallbackResponse{
		ID:         rec.ID,
		Kind:       string(rec.Kind),
		OrderID:    rec.OrderID,
		Recipients: rec.Recipients,
		Subject:    rec.Subject,
		TextBody:   rec.TextBody,
		Reason:     rec.Reason,
		CreatedAt:  rec.CreatedAt,
	}
}
