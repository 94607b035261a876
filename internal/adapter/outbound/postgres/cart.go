package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"gorm.io/gorm"
)

// cartAdapter implements outbound.CartPort.
type cartAdapter struct {
	db *gorm.DB
}

// NewCartAdapter creates a new cart adapter.
func NewCartAdapter(db *gorm.DB) outbound.CartPort {
	return &cartAdapter{db: db}
}

// EmptyCart removes the cart items of the order's customer. Guest orders
// have no persisted cart.
func (a *cartAdapter) EmptyCart(ctx context.Context, order *model.Order) error {
	if order.CustomerID == uuid.Nil {
		return nil
	}
	err := a.db.WithContext(ctx).
		Where("customer_id = ?", order.CustomerID).
		Delete(&model.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("empty cart: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.CartPort = (*cartAdapter)(nil)
