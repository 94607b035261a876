package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// webhookEventAdapter implements outbound.WebhookEventDatabasePort.
type webhookEventAdapter struct {
	db *gorm.DB
}

// NewWebhookEventAdapter creates a new webhook event database adapter.
func NewWebhookEventAdapter(db *gorm.DB) outbound.WebhookEventDatabasePort {
	return &webhookEventAdapter{db: db}
}

// Create inserts the event. When the provider already delivered the same
// event id, it returns false unless the earlier attempt failed, in which case
// the stored row is reset and event takes over its ID.
func (a *webhookEventAdapter) Create(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	var created bool
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "provider"}, {Name: "event_id"}},
				DoNothing: true,
			}).
			Create(event)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			created = true
			return nil
		}

		var existing model.WebhookEvent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "provider = ? AND event_id = ?", event.Provider, event.EventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if existing.Error == nil {
			return nil
		}

		err = tx.Model(&existing).Updates(map[string]interface{}{
			"processed":    false,
			"processed_at": nil,
			"error":        nil,
			"data":         event.Data,
		}).Error
		if err != nil {
			return err
		}
		event.ID = existing.ID
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("create webhook event: %w", err)
	}
	return created, nil
}

func (a *webhookEventAdapter) MarkProcessed(ctx context.Context, id uuid.UUID, processErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed":    true,
		"processed_at": now,
		"error":        nil,
	}
	if processErr != nil {
		errStr := processErr.Error()
		updates["error"] = errStr
	}
	err := a.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.WebhookEventDatabasePort = (*webhookEventAdapter)(nil)
