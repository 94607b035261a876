package paymaya

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/requestctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("paymaya")

const (
	// Provider is the webhook ledger and settlement channel name.
	Provider = "paymaya"

	// GatewayMarker is the query value that identifies PayMaya callbacks.
	GatewayMarker = "cynder_paymaya"
)

// Options are the immutable settings of the PayMaya domain.
type Options struct {
	// CallbackURL is registered with PayMaya for checkout webhooks.
	CallbackURL string
}

// PaymayaDomain defines the PayMaya hosted checkout service.
type PaymayaDomain interface {
	// CreateCheckout creates a hosted checkout for order. A nil result with
	// a nil error means PayMaya rejected it and a notice was queued.
	CreateCheckout(ctx context.Context, order *model.Order, urls model.PaymayaRedirectURLs) (*model.CheckoutResult, error)

	// SyncWebhooks replaces every registered webhook with the checkout
	// webhooks pointing at the callback URL.
	SyncWebhooks(ctx context.Context) error

	// HandleCallback reconciles a checkout callback with its order. raw is
	// the body as received and is kept in the webhook ledger.
	HandleCallback(ctx context.Context, cb *model.PaymayaCallback, raw []byte) (model.CallbackOutcome, error)
}

type paymayaDomain struct {
	client     outbound.PaymayaClientPort
	settlement outbound.OrderSettlementPort
	guard      outbound.SettlementGuardPort
	events     outbound.WebhookEventDatabasePort
	archive    outbound.StoragePort
	opts       Options
	logger     *zap.Logger
}

// NewPaymayaDomain creates a new PayMaya domain service. archive may be nil.
func NewPaymayaDomain(
	client outbound.PaymayaClientPort,
	settlement outbound.OrderSettlementPort,
	guard outbound.SettlementGuardPort,
	events outbound.WebhookEventDatabasePort,
	archive outbound.StoragePort,
	opts Options,
	logger *zap.Logger,
) PaymayaDomain {
	return &paymayaDomain{
		client:     client,
		settlement: settlement,
		guard:      guard,
		events:     events,
		archive:    archive,
		opts:       opts,
		logger:     logger,
	}
}

// ===== Checkout =====

func (d *paymayaDomain) CreateCheckout(ctx context.Context, order *model.Order, urls model.PaymayaRedirectURLs) (*model.CheckoutResult, error) {
	if order.Status.IsPaid() {
		d.log(ctx).Warn("order already paid", zap.String("order_id", order.ID.String()))
		if nerr := d.settlement.Notify(ctx, order.ID, model.Notice{Level: model.NoticeError, Message: errortranslator.AlreadyPaidNotice}); nerr != nil {
			d.log(ctx).Warn("failed to queue notice", zap.String("order_id", order.ID.String()), zap.Error(nerr))
		}
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "Paymaya.CreateCheckout", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
	))
	defer span.End()

	checkout, err := d.client.CreateCheckout(ctx, BuildCheckoutRequest(order, urls))
	if err != nil {
		span.RecordError(err)
		d.log(ctx).Error("failed to create paymaya checkout",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)

		msg := errortranslator.ConnectionErrorNotice
		var apiErr *model.PaymayaError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		if nerr := d.settlement.Notify(ctx, order.ID, model.Notice{Level: model.NoticeError, Message: msg}); nerr != nil {
			d.log(ctx).Warn("failed to queue notice", zap.String("order_id", order.ID.String()), zap.Error(nerr))
		}
		return nil, nil
	}

	return model.NewRedirectResult(checkout.RedirectURL), nil
}

// BuildCheckoutRequest builds the PayMaya checkout payload for order. The
// total is sent in minor units and line items in major units.
func BuildCheckoutRequest(order *model.Order, urls model.PaymayaRedirectURLs) *model.PaymayaCheckoutRequest {
	items := make([]model.PaymayaItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, model.PaymayaItem{
			Name:        item.Name,
			Quantity:    item.Quantity,
			Code:        item.ProductID,
			Amount:      model.PaymayaAmount{Value: item.UnitPrice},
			TotalAmount: model.PaymayaAmount{Value: item.Subtotal},
		})
	}

	return &model.PaymayaCheckoutRequest{
		TotalAmount: model.PaymayaAmount{
			Value:    order.AmountMinorUnits(),
			Currency: order.Currency,
		},
		Buyer: model.PaymayaBuyer{
			FirstName: order.BillingFirstName,
			LastName:  order.BillingLastName,
			Contact: model.PaymayaContact{
				Phone: order.BillingPhone,
				Email: order.BillingEmail,
			},
			BillingAddress: model.PaymayaAddress{
				Line1:       order.BillingAddress1,
				Line2:       order.BillingAddress2,
				City:        order.BillingCity,
				State:       order.BillingState,
				ZipCode:     order.BillingPostcode,
				CountryCode: order.BillingCountry,
			},
		},
		Items:                  items,
		RedirectURL:            urls,
		RequestReferenceNumber: order.ID.String(),
	}
}

// ===== Webhooks =====

func (d *paymayaDomain) SyncWebhooks(ctx context.Context) error {
	webhooks, err := d.client.ListWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}

	for _, webhook := range webhooks {
		if err := d.client.DeleteWebhook(ctx, webhook.ID); err != nil {
			return fmt.Errorf("delete webhook %s: %w", webhook.ID, err)
		}
	}

	for _, name := range model.PaymayaWebhookNames {
		if _, err := d.client.CreateWebhook(ctx, name, d.opts.CallbackURL); err != nil {
			return fmt.Errorf("create webhook %s: %w", name, err)
		}
	}

	d.logger.Info("paymaya webhooks registered",
		zap.Int("removed", len(webhooks)),
		zap.Strings("names", model.PaymayaWebhookNames),
		zap.String("callback_url", d.opts.CallbackURL),
	)
	return nil
}

func (d *paymayaDomain) HandleCallback(ctx context.Context, cb *model.PaymayaCallback, raw []byte) (model.CallbackOutcome, error) {
	if cb.ID == "" || cb.RequestReferenceNumber == "" {
		return "", ErrInvalidCallback
	}

	ctx, span := tracer.Start(ctx, "Paymaya.HandleCallback", trace.WithAttributes(
		attribute.String("checkout.id", cb.ID),
		attribute.String("checkout.status", cb.Status),
		attribute.String("payment.status", cb.PaymentStatus),
	))
	defer span.End()

	event := &model.WebhookEvent{
		ID:              uuid.New(),
		Provider:        Provider,
		EventID:         cb.ID,
		EventType:       cb.Status,
		ReferenceNumber: cb.RequestReferenceNumber,
		Data:            string(raw),
	}
	created, err := d.events.Create(ctx, event)
	if err != nil {
		return "", fmt.Errorf("record webhook event: %w", err)
	}
	if !created {
		d.log(ctx).Info("Webhook already processed for checkout ID "+cb.ID,
			zap.String("reference_number", cb.RequestReferenceNumber),
		)
		return model.CallbackDuplicate, nil
	}

	d.archivePayload(ctx, cb.ID, raw)

	outcome, processErr := d.reconcile(ctx, cb)
	if processErr != nil {
		span.RecordError(processErr)
	}

	if err := d.events.MarkProcessed(ctx, event.ID, processErr); err != nil {
		d.log(ctx).Warn("failed to mark webhook event processed",
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
	}

	if processErr != nil {
		return "", processErr
	}
	return outcome, nil
}

func (d *paymayaDomain) reconcile(ctx context.Context, cb *model.PaymayaCallback) (model.CallbackOutcome, error) {
	order, err := d.settlement.FindByReference(ctx, cb.RequestReferenceNumber)
	if err != nil {
		return "", fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		d.log(ctx).Info("No transaction found with reference number " + cb.RequestReferenceNumber)
		return model.CallbackOrderNotFound, nil
	}

	if cb.Status == model.PaymayaCheckoutCompleted && cb.PaymentStatus == model.PaymayaPaymentSuccess {
		if err := d.complete(ctx, order, cb); err != nil {
			return "", err
		}
	} else {
		d.log(ctx).Error("Failed to complete order because checkout is "+cb.Status+" and payment is "+cb.PaymentStatus,
			zap.String("order_id", order.ID.String()),
		)
	}

	d.log(ctx).Info("Webhook processing for checkout ID " + cb.ID)
	return model.CallbackProcessed, nil
}

// complete settles order once per transaction. Callbacks without a
// transaction reference are keyed by checkout ID. A failed MarkPaid releases
// the claim so the redelivered callback settles the order.
func (d *paymayaDomain) complete(ctx context.Context, order *model.Order, cb *model.PaymayaCallback) error {
	transactionRef := cb.TransactionReferenceNumber
	key := transactionRef
	if key == "" {
		key = cb.ID
	}

	acquired, err := d.guard.Acquire(ctx, key, order.ID, Provider)
	if err != nil {
		return fmt.Errorf("acquire settlement: %w", err)
	}
	if !acquired {
		d.log(ctx).Info("Transaction already applied",
			zap.String("order_id", order.ID.String()),
			zap.String("transaction_reference_number", transactionRef),
		)
		return nil
	}

	if err := d.settlement.MarkPaid(ctx, order, transactionRef, false); err != nil {
		if relErr := d.guard.Release(ctx, key); relErr != nil {
			d.log(ctx).Error("Failed to release settlement claim",
				zap.String("order_id", order.ID.String()),
				zap.String("settlement_key", key),
				zap.Error(relErr),
			)
		}
		return fmt.Errorf("mark order paid: %w", err)
	}

	d.settlement.Emit(ctx, order.ID, model.SuccessfulPaymentEventName, model.SuccessfulPaymentEvent{
		OrderID: order.ID,
		Payment: model.Payment{
			ID:       transactionRef,
			Amount:   order.AmountMinorUnits(),
			Currency: order.Currency,
			Status:   model.PaymayaPaymentSuccess,
		},
	})
	return nil
}

// archivePayload keeps the raw callback in object storage. Failures are logged only.
func (d *paymayaDomain) archivePayload(ctx context.Context, checkoutID string, raw []byte) {
	if d.archive == nil || len(raw) == 0 {
		return
	}
	key := ArchiveKey(time.Now().UTC(), checkoutID)
	if err := d.archive.Put(ctx, key, bytes.NewReader(raw), int64(len(raw)), "application/json"); err != nil {
		d.log(ctx).Warn("failed to archive webhook payload",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// ArchiveKey returns the object key of an archived callback.
func ArchiveKey(at time.Time, checkoutID string) string {
	return fmt.Sprintf("webhooks/%s/%s/%s-%s.json", Provider, at.Format("2006/01/02"), strconv.FormatInt(at.UnixNano(), 10), checkoutID)
}

func (d *paymayaDomain) log(ctx context.Context) *zap.Logger {
	return d.logger.With(requestctx.Fields(ctx)...)
}
