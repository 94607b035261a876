package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/metrics"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const processorName = "stripe"

// Processor implements the card/intent port on Stripe PaymentIntents. It
// has no e-wallet source support.
type Processor struct {
	api     *client.API
	metrics *metrics.Metrics
}

// Config holds Stripe processor settings. BaseURL overrides the API host.
type Config struct {
	SecretKey string
	BaseURL   string
}

// NewProcessor creates a Stripe processor. m may be nil.
func NewProcessor(httpClient *http.Client, cfg Config, m *metrics.Metrics) *Processor {
	backendCfg := &stripego.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripego.String(cfg.BaseURL)
	}
	backends := &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, backendCfg),
		Connect: stripego.GetBackend(stripego.ConnectBackend),
		Uploads: stripego.GetBackend(stripego.UploadsBackend),
	}
	return &Processor{
		api:     client.New(cfg.SecretKey, backends),
		metrics: m,
	}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return processorName
}

func (p *Processor) CreatePaymentMethod(ctx context.Context, methodType string, details map[string]any, billing *model.BillingObject) (*model.PaymentMethod, error) {
	if methodType != "card" {
		return nil, &model.ProcessorError{
			StatusCode: http.StatusBadRequest,
			Errors: []model.ProcessorErrorDetail{{
				Code:   "payment_method_unsupported",
				Detail: fmt.Sprintf("Payment method %s is not supported.", methodType),
				Source: model.ProcessorErrorSource{Attribute: "type"},
			}},
		}
	}

	params := &stripego.PaymentMethodParams{
		Type: stripego.String(methodType),
		Card: cardParams(details),
	}
	params.Context = ctx
	if billing != nil {
		params.BillingDetails = &stripego.PaymentMethodBillingDetailsParams{
			Name:  stripego.String(billing.Name),
			Email: stripego.String(billing.Email),
			Phone: stripego.String(billing.Phone),
			Address: &stripego.AddressParams{
				Line1:      stripego.String(billing.Address.Line1),
				Line2:      stripego.String(billing.Address.Line2),
				City:       stripego.String(billing.Address.City),
				State:      stripego.String(billing.Address.State),
				Country:    stripego.String(billing.Address.Country),
				PostalCode: stripego.String(billing.Address.PostalCode),
			},
		}
	}

	var pm *stripego.PaymentMethod
	err := p.call("create_payment_method", func() (err error) {
		pm, err = p.api.PaymentMethods.New(params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &model.PaymentMethod{ID: pm.ID, Type: string(pm.Type), Details: details, Billing: billing}, nil
}

// cardParams reads card details in the storefront's field names. A token
// takes precedence over raw card fields.
func cardParams(details map[string]any) *stripego.PaymentMethodCardParams {
	if details == nil {
		return nil
	}
	card := &stripego.PaymentMethodCardParams{}
	if token, ok := details["token"].(string); ok && token != "" {
		card.Token = stripego.String(token)
		return card
	}
	if v, ok := details["card_number"].(string); ok {
		card.Number = stripego.String(v)
	}
	if v, ok := details["cvc"].(string); ok {
		card.CVC = stripego.String(v)
	}
	if v, ok := asInt64(details["exp_month"]); ok {
		card.ExpMonth = stripego.Int64(v)
	}
	if v, ok := asInt64(details["exp_year"]); ok {
		card.ExpYear = stripego.Int64(v)
	}
	return card
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func (p *Processor) CreatePaymentIntent(ctx context.Context, req *model.CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:             stripego.Int64(req.Amount),
		Currency:           stripego.String(strings.ToLower(req.Currency)),
		Description:        stripego.String(req.Description),
		PaymentMethodTypes: stripego.StringSlice(req.PaymentMethodsAllowed),
	}
	params.Context = ctx

	var pi *stripego.PaymentIntent
	err := p.call("create_payment_intent", func() (err error) {
		pi, err = p.api.PaymentIntents.New(params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *Processor) AttachPaymentMethod(ctx context.Context, intentID, methodID, returnURL string) (*model.PaymentIntent, error) {
	params := &stripego.PaymentIntentConfirmParams{
		PaymentMethod: stripego.String(methodID),
	}
	if returnURL != "" {
		params.ReturnURL = stripego.String(returnURL)
	}
	params.Context = ctx

	var pi *stripego.PaymentIntent
	err := p.call("attach_payment_method", func() (err error) {
		pi, err = p.api.PaymentIntents.Confirm(intentID, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *Processor) GetPaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx

	var pi *stripego.PaymentIntent
	err := p.call("get_payment_intent", func() (err error) {
		pi, err = p.api.PaymentIntents.Get(intentID, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *Processor) call(operation string, fn func() error) error {
	start := time.Now()
	err := translateError(operation, fn())
	if p.metrics != nil {
		p.metrics.RecordProcessorRequest(processorName, operation, err, time.Since(start))
	}
	return err
}

// translateError maps Stripe request errors onto processor rejections and
// transport failures.
func translateError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
		code := string(stripeErr.Code)
		if code == "" {
			code = string(stripeErr.Type)
		}
		return &model.ProcessorError{
			StatusCode: stripeErr.HTTPStatusCode,
			Errors: []model.ProcessorErrorDetail{{
				Code:   code,
				Detail: stripeErr.Msg,
				Source: model.ProcessorErrorSource{Pointer: stripeErr.Param, Attribute: stripeErr.Param},
			}},
		}
	}
	transportErr := &model.TransportError{Endpoint: operation, Err: err}
	if stripeErr != nil {
		transportErr.StatusCode = stripeErr.HTTPStatusCode
		transportErr.Body = []byte(stripeErr.Msg)
	}
	return transportErr
}

var intentStatuses = map[stripego.PaymentIntentStatus]model.PaymentIntentStatus{
	stripego.PaymentIntentStatusRequiresPaymentMethod: model.IntentStatusAwaitingPaymentMethod,
	stripego.PaymentIntentStatusRequiresConfirmation:  model.IntentStatusAwaitingPaymentMethod,
	stripego.PaymentIntentStatusRequiresAction:        model.IntentStatusAwaitingNextAction,
	stripego.PaymentIntentStatusProcessing:            model.IntentStatusProcessing,
	stripego.PaymentIntentStatusSucceeded:             model.IntentStatusSucceeded,
	stripego.PaymentIntentStatusCanceled:              model.IntentStatusFailed,
}

func toIntent(pi *stripego.PaymentIntent) *model.PaymentIntent {
	status, ok := intentStatuses[pi.Status]
	if !ok {
		status = model.PaymentIntentStatus(pi.Status)
	}
	intent := &model.PaymentIntent{
		ID:        pi.ID,
		Amount:    pi.Amount,
		Currency:  strings.ToUpper(string(pi.Currency)),
		Status:    status,
		ClientKey: pi.ClientSecret,
	}
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		intent.Payments = []model.Payment{{
			ID:       pi.LatestCharge.ID,
			Amount:   pi.AmountReceived,
			Currency: intent.Currency,
			Status:   string(pi.Status),
		}}
	}
	if pi.NextAction != nil && pi.NextAction.RedirectToURL != nil {
		intent.NextActionURL = pi.NextAction.RedirectToURL.URL
	}
	return intent
}

// Compile-time check
var _ outbound.PaymentProcessorPort = (*Processor)(nil)
