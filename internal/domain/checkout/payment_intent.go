package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// defaultAllowedMethods is used when the order does not restrict methods.
var defaultAllowedMethods = []string{"card"}

func (d *checkoutDomain) CreateIntent(ctx context.Context, order *model.Order) (*model.IntentResult, error) {
	if order.Status.IsPaid() {
		d.alreadyPaid(ctx, order)
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "Checkout.CreateIntent", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
	))
	defer span.End()

	allowed := []string(order.AllowedMethods)
	if len(allowed) == 0 {
		allowed = defaultAllowedMethods
	}

	intent, err := d.processor.CreatePaymentIntent(ctx, &model.CreatePaymentIntentRequest{
		Amount:                order.AmountMinorUnits(),
		Currency:              order.Currency,
		Description:           order.OrderKey,
		PaymentMethodsAllowed: allowed,
	})
	if err != nil {
		span.RecordError(err)
		d.handleProcessorFailure(ctx, order, err)
		return nil, nil
	}

	if intent.Status != model.IntentStatusAwaitingPaymentMethod {
		d.log(ctx).Error(logPrefix+" Unexpected payment intent status",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_intent_id", intent.ID),
			zap.String("status", string(intent.Status)),
		)
		d.notify(ctx, order.ID, model.NoticeError, errortranslator.GenericPaymentNotice)
		return nil, nil
	}

	order.SetMeta(model.MetaPaymentIntentID, intent.ID)
	if err := d.settlement.SaveMeta(ctx, order); err != nil {
		return nil, fmt.Errorf("save payment intent id: %w", err)
	}

	return &model.IntentResult{
		PaymentIntentID: intent.ID,
		ClientKey:       intent.ClientKey,
	}, nil
}

func (d *checkoutDomain) ProcessPayment(ctx context.Context, order *model.Order, paymentMethodID, gatewayReturnURL, finalReturnURL string, sendInvoice bool) (*model.CheckoutResult, error) {
	if order.Status.IsPaid() {
		d.alreadyPaid(ctx, order)
		return nil, nil
	}

	if strings.TrimSpace(paymentMethodID) == "" {
		d.preconditionFailed(ctx, order, errortranslator.CodeMissingPaymentMethod)
		return nil, nil
	}

	intentID := order.GetMeta(model.MetaPaymentIntentID)
	if intentID == "" {
		d.preconditionFailed(ctx, order, errortranslator.CodeMissingPaymentIntent)
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "Checkout.ProcessPayment", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("payment_intent.id", intentID),
	))
	defer span.End()

	d.settlement.Track(ctx, model.TrackProcessPayment, map[string]any{
		"amount":         order.Total,
		"payment_method": order.PaymentMethod,
		"sandbox":        d.sandbox(),
	})

	intent, err := d.processor.AttachPaymentMethod(ctx, intentID, paymentMethodID, gatewayReturnURL)
	if err != nil {
		span.RecordError(err)
		d.handleProcessorFailure(ctx, order, err)
		return nil, nil
	}

	if d.opts.DebugMode {
		d.log(ctx).Info(logPrefix+" Attach payment method response",
			zap.String("order_id", order.ID.String()),
			zap.Any("response", intent),
		)
	}

	span.SetAttributes(attribute.String("payment_intent.status", string(intent.Status)))

	switch intent.Status {
	case model.IntentStatusSucceeded:
		return d.settle(ctx, order, intent, sendInvoice, finalReturnURL)
	case model.IntentStatusAwaitingNextAction:
		// SDK-driven actions carry no redirect; the client completes them in place.
		if intent.NextActionURL == "" {
			return model.NewStayResult(), nil
		}
		return model.NewRedirectResult(intent.NextActionURL), nil
	default:
		d.log(ctx).Info(logPrefix+" Payment intent not yet settled",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_intent_id", intent.ID),
			zap.String("status", string(intent.Status)),
		)
		return model.NewStayResult(), nil
	}
}

func (d *checkoutDomain) ConfirmPayment(ctx context.Context, order *model.Order, intentID, finalReturnURL string) (*model.CheckoutResult, error) {
	if order.Status.IsPaid() {
		return model.NewRedirectResult(finalReturnURL), nil
	}

	ctx, span := tracer.Start(ctx, "Checkout.ConfirmPayment", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("payment_intent.id", intentID),
	))
	defer span.End()

	intent, err := d.processor.GetPaymentIntent(ctx, intentID)
	if err != nil {
		span.RecordError(err)
		var procErr *model.ProcessorError
		if errors.As(err, &procErr) {
			d.handleProcessorFailure(ctx, order, err)
			return nil, nil
		}
		d.logTransportError(ctx, order, err)
		d.notify(ctx, order.ID, model.NoticeError, errortranslator.ConnectionRetryNotice)
		return nil, nil
	}

	if intent.Status != model.IntentStatusSucceeded {
		d.notify(ctx, order.ID, model.NoticeError, errortranslator.RetryNotice)
		return nil, nil
	}

	return d.settle(ctx, order, intent, false, finalReturnURL)
}

// alreadyPaid reports a payment attempt on a settled order.
func (d *checkoutDomain) alreadyPaid(ctx context.Context, order *model.Order) {
	d.log(ctx).Warn(logPrefix+" Order already paid", zap.String("order_id", order.ID.String()))
	d.notify(ctx, order.ID, model.NoticeError, errortranslator.AlreadyPaidNotice)
}

// preconditionFailed logs the coded error and queues the generic payment notice.
func (d *checkoutDomain) preconditionFailed(ctx context.Context, order *model.Order, code string) {
	logMsg := d.translator.LogMessage(code, order.ID.String())
	d.log(ctx).Error(logPrefix+" "+logMsg.Text,
		zap.String("order_id", order.ID.String()),
		zap.String("code", code),
	)
	d.notify(ctx, order.ID, model.NoticeError, d.translator.UserMessage(code).Text)
}
