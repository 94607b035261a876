package checkout

import (
	"context"
	"fmt"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"go.uber.org/zap"
)

// settle marks the order paid from a succeeded intent. Only the first payment
// of the intent is consulted. A payment that already settled an order is not
// applied again. The claim is released when the order cannot be marked paid.
func (d *checkoutDomain) settle(ctx context.Context, order *model.Order, intent *model.PaymentIntent, sendInvoice bool, finalReturnURL string) (*model.CheckoutResult, error) {
	payment := model.Payment{ID: intent.ID, Amount: intent.Amount, Currency: intent.Currency, Status: string(intent.Status)}
	if len(intent.Payments) > 0 {
		payment = intent.Payments[0]
	}

	amountMinor := payment.Amount
	if amountMinor == 0 {
		amountMinor = intent.Amount
	}
	amount := model.FromMinorUnits(amountMinor)

	acquired, err := d.guard.Acquire(ctx, payment.ID, order.ID, d.processor.Name())
	if err != nil {
		return nil, fmt.Errorf("acquire settlement: %w", err)
	}
	if !acquired {
		d.log(ctx).Info(logPrefix+" Payment already settled",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
		)
		return model.NewRedirectResult(finalReturnURL), nil
	}

	if err := d.settlement.MarkPaid(ctx, order, payment.ID, sendInvoice); err != nil {
		if relErr := d.guard.Release(ctx, payment.ID); relErr != nil {
			d.log(ctx).Error(logPrefix+" Failed to release settlement claim",
				zap.String("order_id", order.ID.String()),
				zap.String("payment_id", payment.ID),
				zap.Error(relErr),
			)
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	if err := d.settlement.EmptyCart(ctx, order); err != nil {
		d.log(ctx).Warn("failed to empty cart",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	d.settlement.Track(ctx, model.TrackSuccessfulPayment, map[string]any{
		"payment_id":     payment.ID,
		"amount":         amount,
		"payment_method": order.PaymentMethod,
		"sandbox":        d.sandbox(),
	})

	d.settlement.Emit(ctx, order.ID, model.SuccessfulPaymentEventName, model.SuccessfulPaymentEvent{
		OrderID: order.ID,
		Payment: payment,
	})

	d.log(ctx).Info(logPrefix+" Order settled",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
		zap.Float64("amount", amount),
	)

	return model.NewRedirectResult(finalReturnURL), nil
}
