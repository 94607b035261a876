package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// methodTypes maps storefront payment method tags to processor method types.
var methodTypes = map[string]string{
	"paymongo_card":     "card",
	"paymongo_paymaya":  "paymaya",
	"paymongo_atome":    "atome",
	"paymongo_bpi":      "dob",
	"paymongo_billease": "billease",
}

// MethodType resolves a storefront tag, with or without the "paymongo_"
// prefix, to the processor method type.
func MethodType(tag string) (string, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !strings.HasPrefix(tag, "paymongo_") {
		tag = "paymongo_" + tag
	}
	methodType, ok := methodTypes[tag]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMethodTag, tag)
	}
	return methodType, nil
}

func (d *checkoutDomain) CreatePaymentMethod(ctx context.Context, order *model.Order, methodTag string, detailFn DetailFunc) (*model.PaymentMethod, error) {
	methodType, err := MethodType(methodTag)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Checkout.CreatePaymentMethod", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("payment_method.type", methodType),
	))
	defer span.End()

	var details map[string]any
	if detailFn != nil {
		details = detailFn(order)
	}

	method, err := d.processor.CreatePaymentMethod(ctx, methodType, details, ToBillingObject(order))
	if err != nil {
		span.RecordError(err)
		d.handleProcessorFailure(ctx, order, err)
		return nil, nil
	}

	if d.opts.DebugMode {
		d.log(ctx).Info(logPrefix+" Payment method response",
			zap.String("order_id", order.ID.String()),
			zap.Any("response", method),
		)
	}

	return method, nil
}
