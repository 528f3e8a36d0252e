package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FallbackModel is the GORM model for the notification_fallbacks table.
type FallbackModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind       string    `gorm:"not null;size:40;index"`
	OrderID    string    `gorm:"size:40;index"`
	Recipients string    `gorm:"not null;size:500"`
	Subject    string    `gorm:"not null;size:300"`
	TextBody   string    `gorm:"type:text;not null"`
	Reason     string    `gorm:"not null;size:1000"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (FallbackModel) TableName() string {
	return "notification_fallbacks"
}

// GormFallbackRepository stores undelivered emails so they can be resent by hand.
type GormFallbackRepository struct {
	db *gorm.DB
}

// NewGormFallbackRepository creates a new GormFallbackRepository.
func NewGormFallbackRepository(db *gorm.DB) *GormFallbackRepository {
	return &GormFallbackRepository{db: db}
}

// Record persists a fallback record. It implements ports.FallbackRecorder.
func (r *GormFallbackRepository) Record(ctx context.Context, rec notification.FallbackRecord) error {
	model := toFallbackModel(rec)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save notification fallback: %w", err)
	}
	return nil
}

// FindByID retrieves a fallback record by its identifier.
func (r *GormFallbackRepository) FindByID(ctx context.Context, id uuid.UUID) (notification.FallbackRecord, error) {
	var model FallbackModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notification.FallbackRecord{}, apperror.NewNotFoundError("NotificationFallback", id.String())
		}
		return notification.FallbackRecord{}, fmt.Errorf("failed to find notification fallback: %w", err)
	}
	return toFallbackDomain(&model), nil
}

// List returns fallback records newest first with pagination.
func (r *GormFallbackRepository) List(ctx context.Context, page, limit int) ([]notification.FallbackRecord, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&FallbackModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notification fallbacks: %w", err)
	}

	var models []FallbackModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notification fallbacks: %w", err)
	}

	records := make([]notification.FallbackRecord, len(models))
	for i := range models {
		records[i] = toFallbackDomain(&models[i])
	}
	return records, total, nil
}

// AutoMigrate creates or updates the fallback table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&FallbackModel{})
}

func toFallbackModel(rec notification.FallbackRecord) FallbackModel {
	return FallbackModel{
		ID:         rec.ID,
		Kind:       string(rec.Kind),
		OrderID:    rec.OrderID,
		Recipients: rec.RecipientList(),
		Subject:    rec.Subject,
		TextBody:   rec.TextBody,
		Reason:     rec.Reason,
		CreatedAt:  rec.CreatedAt,
	}
}

func toFallbackDomain(m *FallbackModel) notification.FallbackRecord {
	var recipients []string
	for _, r := range strings.Split(m.Recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return notification.FallbackRecord{
		ID:         m.ID,
		Kind:       notification.Kind(m.Kind),
		OrderID:    m.OrderID,
		Recipients: recipients,
		Subject:    m.Subject,
		TextBody:   m.TextBody,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt,
	}
}
