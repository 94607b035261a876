package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/requestctx"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("checkout")

// sourceRedirectHook is the storefront endpoint that catches e-wallet returns.
const sourceRedirectHook = "cynder_paymongo_catch_source_redirect"

// DetailFunc returns method-specific details for a payment method, such as
// redirect preferences.
type DetailFunc func(order *model.Order) map[string]any

// Options are the immutable settings of the checkout domain, resolved once
// at startup.
type Options struct {
	TestMode  bool
	DebugMode bool
	// Agent and Version form the provenance tag attached to outbound requests.
	Agent   string
	Version string
	// StorefrontURL is the storefront home that catches source redirects.
	StorefrontURL string
}

// CheckoutDomain defines the checkout orchestration service.
type CheckoutDomain interface {
	// GetOrder returns an order by ID.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// CreatePaymentMethod registers a payment method for order. A nil
	// method with a nil error means the processor rejected it and notices
	// were queued.
	CreatePaymentMethod(ctx context.Context, order *model.Order, methodTag string, detailFn DetailFunc) (*model.PaymentMethod, error)

	// CreateIntent creates a card payment intent for order and stores its ID.
	CreateIntent(ctx context.Context, order *model.Order) (*model.IntentResult, error)

	// ProcessPayment attaches a payment method to the order's stored intent
	// and settles or redirects based on the intent status. A nil result
	// with a nil error means the attempt failed and notices were queued.
	ProcessPayment(ctx context.Context, order *model.Order, paymentMethodID, gatewayReturnURL, finalReturnURL string, sendInvoice bool) (*model.CheckoutResult, error)

	// ConfirmPayment re-reads an intent after the customer returns from
	// authorization and settles it when it succeeded.
	ConfirmPayment(ctx context.Context, order *model.Order, intentID, finalReturnURL string) (*model.CheckoutResult, error)

	// CreateSource creates a redirect-based e-wallet source for order.
	CreateSource(ctx context.Context, order *model.Order, ewalletType, successURL, failURL string) (*model.CheckoutResult, error)

	// SourceRedirectURLs returns the success and failure URLs for a source.
	SourceRedirectURLs(orderID uuid.UUID) (string, string)

	// DrainNotices returns and clears the notices queued for an order.
	DrainNotices(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error)
}

// checkoutDomain implements CheckoutDomain.
type checkoutDomain struct {
	processor  outbound.PaymentProcessorPort
	sources    outbound.SourceProcessorPort
	settlement outbound.OrderSettlementPort
	guard      outbound.SettlementGuardPort
	translator errortranslator.Translator
	opts       Options
	logger     *zap.Logger
}

// NewCheckoutDomain creates a new checkout domain service. sources may be
// nil when the processor has no e-wallet support.
func NewCheckoutDomain(
	processor outbound.PaymentProcessorPort,
	sources outbound.SourceProcessorPort,
	settlement outbound.OrderSettlementPort,
	guard outbound.SettlementGuardPort,
	translator errortranslator.Translator,
	opts Options,
	logger *zap.Logger,
) CheckoutDomain {
	return &checkoutDomain{
		processor:  processor,
		sources:    sources,
		settlement: settlement,
		guard:      guard,
		translator: translator,
		opts:       opts,
		logger:     logger,
	}
}

func (d *checkoutDomain) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := d.settlement.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (d *checkoutDomain) SourceRedirectURLs(orderID uuid.UUID) (string, string) {
	build := func(status string) string {
		q := url.Values{}
		q.Set("wc-api", sourceRedirectHook)
		q.Set("order", orderID.String())
		q.Set("status", status)
		q.Set("agent", d.opts.Agent)
		q.Set("version", d.opts.Version)
		return strings.TrimRight(d.opts.StorefrontURL, "/") + "/?" + q.Encode()
	}
	return build("success"), build("failed")
}

func (d *checkoutDomain) DrainNotices(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error) {
	notices, err := d.settlement.Drain(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("drain notices: %w", err)
	}
	return notices, nil
}

// notify queues a customer notice. Queue failures are logged only.
func (d *checkoutDomain) notify(ctx context.Context, orderID uuid.UUID, level model.NoticeLevel, message string) {
	if err := d.settlement.Notify(ctx, orderID, model.Notice{Level: level, Message: message}); err != nil {
		d.log(ctx).Warn("failed to queue notice",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
	}
}

func (d *checkoutDomain) log(ctx context.Context) *zap.Logger {
	return d.logger.With(requestctx.Fields(ctx)...)
}

func (d *checkoutDomain) sandbox() string {
	if d.opts.TestMode {
		return "true"
	}
	return "false"
}
