package paymaya

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
	"go.opentelemetry.io/otel/trace"
)

const (
	processorName = "paymaya"
	checkoutsPath = "/checkout/v1/checkouts"
	webhooksPath  = "/checkout/v1/webhooks"
)

var tracer = otel.Tracer("paymaya")

// Client implements the PayMaya checkout and webhook API. Checkouts are
// created with the public key; webhook management needs the secret key.
type Client struct {
	http       *http.Client
	baseURL    string
	publicAuth string
	secretAuth string
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
}

// NewClient creates a PayMaya client. m may be nil.
func NewClient(httpClient *http.Client, cfg config.PaymayaConfig, m *metrics.Metrics) *Client {
	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		publicAuth: basicAuth(cfg.PublicKey),
		secretAuth: basicAuth(cfg.SecretKey),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        processorName,
			MaxRequests: 1,
			Interval:    cfg.Breaker.Interval,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				var apiErr *model.PaymayaError
				return err == nil || (errors.As(err, &apiErr) && apiErr.StatusCode < 500)
			},
		}),
		metrics: m,
	}
}

func basicAuth(key string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"))
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) CreateCheckout(ctx context.Context, req *model.PaymayaCheckoutRequest) (*model.PaymayaCheckout, error) {
	var out model.PaymayaCheckout
	if err := c.do(ctx, "create_checkout", http.MethodPost, checkoutsPath, c.publicAuth, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWebhooks(ctx context.Context) ([]model.PaymayaWebhook, error) {
	var out []model.PaymayaWebhook
	err := c.do(ctx, "list_webhooks", http.MethodGet, webhooksPath, c.secretAuth, nil, &out)
	if err != nil {
		// PayMaya answers 404 when no webhook is registered.
		var apiErr *model.PaymayaError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.do(ctx, "delete_webhook", http.MethodDelete, webhooksPath+"/"+id, c.secretAuth, nil, nil)
}

func (c *Client) CreateWebhook(ctx context.Context, name, callbackURL string) (*model.PaymayaWebhook, error) {
	var out model.PaymayaWebhook
	body := map[string]string{"name": name, "callbackUrl": callbackURL}
	if err := c.do(ctx, "create_webhook", http.MethodPost, webhooksPath, c.secretAuth, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, operation, method, path, auth string, body, out any) error {
	ctx, span := tracer.Start(ctx, "PayMaya."+operation, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("paymaya.path", path),
	))
	defer span.End()

	start := time.Now()
	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, auth, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &model.TransportError{Endpoint: path, Err: err}
	}
	if c.metrics != nil {
		c.metrics.RecordProcessorRequest(processorName, operation, err, time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &model.TransportError{Endpoint: path, StatusCode: http.StatusOK, Body: respBody, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, auth string, body any) ([]byte, error) {
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
	req.Header.Set("Authorization", auth)
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
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("paymaya request failed with status %d", resp.StatusCode)
		}
		return nil, &model.PaymayaError{StatusCode: resp.StatusCode, Message: msg}
	}

	return respBody, nil
}

// Compile-time check
var _ outbound.PaymayaClientPort = (*Client)(nil)
