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
)

// checkoutOrderAdapter implements outbound.OrderStorePort.
type checkoutOrderAdapter struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCheckoutOrderAdapter creates a new order store adapter.
func NewCheckoutOrderAdapter(db *gorm.DB) outbound.OrderStorePort {
	return &checkoutOrderAdapter{db: db, now: time.Now}
}

func (a *checkoutOrderAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return a.first(ctx, "id = ?", id)
}

// FindByReference accepts either the order ID or the order key.
func (a *checkoutOrderAdapter) FindByReference(ctx context.Context, reference string) (*model.Order, error) {
	if id, err := uuid.Parse(reference); err == nil {
		return a.first(ctx, "id = ?", id)
	}
	return a.first(ctx, "order_key = ?", reference)
}

func (a *checkoutOrderAdapter) first(ctx context.Context, query string, args ...any) (*model.Order, error) {
	var order model.Order
	err := a.db.WithContext(ctx).
		Preload("Items").
		First(&order, append([]any{query}, args...)...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (a *checkoutOrderAdapter) MarkPaid(ctx context.Context, order *model.Order, transactionID string, sendInvoice bool) error {
	paidAt := a.now()
	err := a.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":            model.OrderStatusPaid,
			"transaction_id":    transactionID,
			"invoice_requested": sendInvoice,
			"paid_at":           paidAt,
		}).Error
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	order.Status = model.OrderStatusPaid
	order.TransactionID = transactionID
	order.InvoiceRequested = sendInvoice
	order.PaidAt = &paidAt
	return nil
}

func (a *checkoutOrderAdapter) MarkPending(ctx context.Context, order *model.Order) error {
	previous := order.Status
	order.Status = model.OrderStatusPending
	err := a.db.WithContext(ctx).
		Model(order).
		Select("status", "meta").
		Updates(order).Error
	if err != nil {
		order.Status = previous
		return fmt.Errorf("mark order pending: %w", err)
	}
	return nil
}

func (a *checkoutOrderAdapter) SaveMeta(ctx context.Context, order *model.Order) error {
	err := a.db.WithContext(ctx).
		Model(order).
		Select("meta").
		Updates(order).Error
	if err != nil {
		return fmt.Errorf("save order meta: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.OrderStorePort = (*checkoutOrderAdapter)(nil)
