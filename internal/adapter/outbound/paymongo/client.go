package paymongo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/config"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/metrics"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const processorName = "paymongo"

var tracer = otel.Tracer("paymongo")

// Client implements the PayMongo REST API for cards, redirect methods and
// e-wallet sources.
type Client struct {
	http    *http.Client
	baseURL string
	auth    string
	breaker *gobreaker.CircuitBreaker[[]byte]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewClient creates a PayMongo client. m may be nil.
func NewClient(httpClient *http.Client, cfg config.PayMongoConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.ActiveSecretKey()+":")),
		breaker: newBreaker(processorName, cfg.Breaker),
		metrics: m,
		logger:  logger,
	}
}

// newBreaker trips on transport failures and 5xx responses only.
// Structured rejections are the customer's problem, not the processor's.
func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			var procErr *model.ProcessorError
			return err == nil || errors.As(err, &procErr)
		},
	})
}

// Name returns the processor name.
func (c *Client) Name() string {
	return processorName
}

// ===== JSON:API envelopes =====

type request[T any] struct {
	Data struct {
		Attributes T `json:"attributes"`
	} `json:"data"`
}

func wrap[T any](attrs T) request[T] {
	var r request[T]
	r.Data.Attributes = attrs
	return r
}

type resource[T any] struct {
	Data struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes T      `json:"attributes"`
	} `json:"data"`
}

type errorBody struct {
	Errors []model.ProcessorErrorDetail `json:"errors"`
}

type paymentMethodAttributes struct {
	Type    string               `json:"type"`
	Details map[string]any       `json:"details"`
	Billing *model.BillingObject `json:"billing,omitempty"`
}

type intentAttributes struct {
	Amount               int64          `json:"amount"`
	Currency             string         `json:"currency"`
	Description          string         `json:"description,omitempty"`
	Status               string         `json:"status,omitempty"`
	ClientKey            string         `json:"client_key,omitempty"`
	PaymentMethodAllowed []string       `json:"payment_method_allowed,omitempty"`
	PaymentMethodOptions map[string]any `json:"payment_method_options,omitempty"`
	Payments             []paymentData  `json:"payments,omitempty"`
	NextAction           *nextAction    `json:"next_action,omitempty"`
}

type paymentData struct {
	ID         string `json:"id"`
	Attributes struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	} `json:"attributes"`
}

type nextAction struct {
	Type     string `json:"type"`
	Redirect struct {
		URL       string `json:"url"`
		ReturnURL string `json:"return_url"`
	} `json:"redirect"`
}

type attachAttributes struct {
	PaymentMethod string `json:"payment_method"`
	ReturnURL     string `json:"return_url,omitempty"`
}

type sourceAttributes struct {
	Amount   int64                `json:"amount"`
	Currency string               `json:"currency"`
	Type     string               `json:"type"`
	Status   string               `json:"status,omitempty"`
	Redirect sourceRedirect       `json:"redirect"`
	Billing  *model.BillingObject `json:"billing,omitempty"`
	Metadata map[string]string    `json:"metadata,omitempty"`
}

type sourceRedirect struct {
	CheckoutURL string `json:"checkout_url,omitempty"`
	Success     string `json:"success"`
	Failed      string `json:"failed"`
}

// ===== Operations =====

func (c *Client) CreatePaymentMethod(ctx context.Context, methodType string, details map[string]any, billing *model.BillingObject) (*model.PaymentMethod, error) {
	var out resource[paymentMethodAttributes]
	err := c.do(ctx, "create_payment_method", http.MethodPost, "/payment_methods", wrap(paymentMethodAttributes{
		Type:    methodType,
		Details: details,
		Billing: billing,
	}), &out)
	if err != nil {
		return nil, err
	}
	return &model.PaymentMethod{
		ID:      out.Data.ID,
		Type:    out.Data.Attributes.Type,
		Details: out.Data.Attributes.Details,
		Billing: out.Data.Attributes.Billing,
	}, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req *model.CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	var out resource[intentAttributes]
	err := c.do(ctx, "create_payment_intent", http.MethodPost, "/payment_intents", wrap(intentAttributes{
		Amount:               req.Amount,
		Currency:             req.Currency,
		Description:          req.Description,
		PaymentMethodAllowed: req.PaymentMethodsAllowed,
		PaymentMethodOptions: map[string]any{
			"card": map[string]string{"request_three_d_secure": "any"},
		},
	}), &out)
	if err != nil {
		return nil, err
	}
	return toIntent(out), nil
}

func (c *Client) AttachPaymentMethod(ctx context.Context, intentID, methodID, returnURL string) (*model.PaymentIntent, error) {
	var out resource[intentAttributes]
	err := c.do(ctx, "attach_payment_method", http.MethodPost, "/payment_intents/"+intentID+"/attach", wrap(attachAttributes{
		PaymentMethod: methodID,
		ReturnURL:     returnURL,
	}), &out)
	if err != nil {
		return nil, err
	}
	return toIntent(out), nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	var out resource[intentAttributes]
	if err := c.do(ctx, "get_payment_intent", http.MethodGet, "/payment_intents/"+intentID, nil, &out); err != nil {
		return nil, err
	}
	return toIntent(out), nil
}

func (c *Client) CreateSource(ctx context.Context, req *model.CreateSourceRequest) (*model.Source, error) {
	var out resource[sourceAttributes]
	err := c.do(ctx, "create_source", http.MethodPost, "/sources", wrap(sourceAttributes{
		Amount:   req.Amount,
		Currency: req.Currency,
		Type:     req.Type,
		Redirect: sourceRedirect{Success: req.SuccessURL, Failed: req.FailedURL},
		Billing:  req.Billing,
		Metadata: req.Metadata,
	}), &out)
	if err != nil {
		return nil, err
	}
	attrs := out.Data.Attributes
	return &model.Source{
		ID:          out.Data.ID,
		Type:        attrs.Type,
		Status:      model.SourceStatus(attrs.Status),
		CheckoutURL: attrs.Redirect.CheckoutURL,
		SuccessURL:  attrs.Redirect.Success,
		FailedURL:   attrs.Redirect.Failed,
	}, nil
}

func toIntent(out resource[intentAttributes]) *model.PaymentIntent {
	attrs := out.Data.Attributes
	intent := &model.PaymentIntent{
		ID:        out.Data.ID,
		Amount:    attrs.Amount,
		Currency:  attrs.Currency,
		Status:    model.PaymentIntentStatus(attrs.Status),
		ClientKey: attrs.ClientKey,
	}
	for _, p := range attrs.Payments {
		intent.Payments = append(intent.Payments, model.Payment{
			ID:       p.ID,
			Amount:   p.Attributes.Amount,
			Currency: p.Attributes.Currency,
			Status:   p.Attributes.Status,
		})
	}
	if attrs.NextAction != nil {
		intent.NextActionURL = attrs.NextAction.Redirect.URL
	}
	return intent
}

// ===== Transport =====

// do sends a JSON:API request through the circuit breaker and decodes the
// response into out. 4xx responses carrying an errors array become
// *model.ProcessorError; everything else that fails becomes *model.TransportError.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, span := tracer.Start(ctx, "PayMongo."+operation, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("paymongo.path", path),
	))
	defer span.End()

	start := time.Now()
	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &model.TransportError{Endpoint: path, Err: err}
	}
	if c.metrics != nil {
		c.metrics.RecordProcessorRequest(processorName, operation, err, time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("paymongo request failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &model.TransportError{Endpoint: path, StatusCode: http.StatusOK, Body: respBody, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransportError{Endpoint: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode < 500 {
			var eb errorBody
			if json.Unmarshal(respBody, &eb) == nil && len(eb.Errors) > 0 {
				return nil, &model.ProcessorError{StatusCode: resp.StatusCode, Errors: eb.Errors}
			}
		}
		return nil, &model.TransportError{Endpoint: path, StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

// Compile-time checks
var (
	_ outbound.PaymentProcessorPort = (*Client)(nil)
	_ outbound.SourceProcessorPort  = (*Client)(nil)
)
