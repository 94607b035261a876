package checkout

import (
	"context"
	"errors"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const codeBelowMinimum = "parameter_below_minimum"

func (d *checkoutDomain) CreateSource(ctx context.Context, order *model.Order, ewalletType, successURL, failURL string) (*model.CheckoutResult, error) {
	if d.sources == nil {
		return nil, ErrSourceUnsupported
	}
	if order.Status.IsPaid() {
		d.alreadyPaid(ctx, order)
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "Checkout.CreateSource", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("source.type", ewalletType),
	))
	defer span.End()

	d.settlement.Track(ctx, model.TrackProcessPayment, map[string]any{
		"amount":         order.Total,
		"payment_method": order.PaymentMethod,
		"sandbox":        d.sandbox(),
	})

	source, err := d.sources.CreateSource(ctx, &model.CreateSourceRequest{
		Amount:     order.AmountMinorUnits(),
		Currency:   order.Currency,
		Type:       ewalletType,
		SuccessURL: successURL,
		FailedURL:  failURL,
		Billing:    ToBillingObject(order),
		Metadata: map[string]string{
			"agent":   d.opts.Agent,
			"version": d.opts.Version,
		},
	})
	if err != nil {
		span.RecordError(err)
		var procErr *model.ProcessorError
		if errors.As(err, &procErr) {
			d.sourceRejected(ctx, order, procErr.Errors)
			return nil, nil
		}
		d.logTransportError(ctx, order, err)
		d.notify(ctx, order.ID, model.NoticeError, errortranslator.ConnectionErrorNotice)
		return nil, nil
	}

	if source.Status != model.SourceStatusPending {
		d.sourceRejected(ctx, order, source.Errors)
		return nil, nil
	}

	order.SetMeta(model.MetaSourceID, source.ID)
	if err := d.settlement.MarkPending(ctx, order); err != nil {
		return nil, err
	}

	d.log(ctx).Info(logPrefix+" Source created",
		zap.String("order_id", order.ID.String()),
		zap.String("source_id", source.ID),
	)

	return model.NewRedirectResult(source.CheckoutURL), nil
}

// sourceRejected queues one notice per source error. A rejection without
// errors gets the generic payment notice.
func (d *checkoutDomain) sourceRejected(ctx context.Context, order *model.Order, details []model.ProcessorErrorDetail) {
	if len(details) == 0 {
		d.log(ctx).Error(logPrefix+" Source was not created",
			zap.String("order_id", order.ID.String()),
		)
		d.notify(ctx, order.ID, model.NoticeError, errortranslator.GenericPaymentNotice)
		return
	}

	d.log(ctx).Error(logPrefix+" Source was not created",
		zap.String("order_id", order.ID.String()),
		zap.Strings("codes", errorCodes(details)),
	)
	for _, detail := range details {
		msg := detail.Detail
		if detail.Code == codeBelowMinimum {
			msg = errortranslator.MinimumAmountNotice
		} else if msg == "" {
			msg = d.translator.ProcessorMessage(detail)
		}
		d.notify(ctx, order.ID, model.NoticeError, msg)
	}
}
