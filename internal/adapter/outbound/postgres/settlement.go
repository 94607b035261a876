package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settlementAdapter implements outbound.SettlementGuardPort on the unique
// payment_id index of payment_settlements.
type settlementAdapter struct {
	db *gorm.DB
}

// NewSettlementAdapter creates a new settlement guard adapter.
func NewSettlementAdapter(db *gorm.DB) outbound.SettlementGuardPort {
	return &settlementAdapter{db: db}
}

func (a *settlementAdapter) Acquire(ctx context.Context, paymentID string, orderID uuid.UUID, channel string) (bool, error) {
	settlement := &model.Settlement{
		ID:        uuid.New(),
		PaymentID: paymentID,
		OrderID:   orderID,
		Channel:   channel,
	}
	result := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "payment_id"}}, DoNothing: true}).
		Create(settlement)
	if result.Error != nil {
		return false, fmt.Errorf("record settlement: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (a *settlementAdapter) Release(ctx context.Context, paymentID string) error {
	if err := a.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Delete(&model.Settlement{}).Error; err != nil {
		return fmt.Errorf("release settlement: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.SettlementGuardPort = (*settlementAdapter)(nil)
