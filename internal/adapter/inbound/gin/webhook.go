package gin

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/paymaya"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/inbound"
	apperrors "github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/errors"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/metrics"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/paymaya_callback.json
var paymayaCallbackSchema []byte

const maxWebhookBody = 1 << 20

// webhookAdapter implements inbound.WebhookHttpPort.
type webhookAdapter struct {
	paymaya paymaya.PaymayaDomain
	schema  *gojsonschema.Schema
	metrics *metrics.Metrics
}

// NewWebhookAdapter creates a new webhook HTTP adapter. m may be nil.
func NewWebhookAdapter(paymayaDomain paymaya.PaymayaDomain, m *metrics.Metrics) (inbound.WebhookHttpPort, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(paymayaCallbackSchema))
	if err != nil {
		return nil, fmt.Errorf("compile paymaya callback schema: %w", err)
	}
	return &webhookAdapter{paymaya: paymayaDomain, schema: schema, metrics: m}, nil
}

// RegisterWebhookRoutes registers processor callback routes. Every method is
// routed so that non-POST callbacks get the documented 400.
func RegisterWebhookRoutes(r *gin.RouterGroup, adapter inbound.WebhookHttpPort) {
	r.Any("/webhooks/paymaya", adapter.HandlePaymayaWebhook)
}

func (a *webhookAdapter) HandlePaymayaWebhook(c *gin.Context) {
	if c.Request.Method != http.MethodPost || c.Query("gateway") != paymaya.GatewayMarker {
		a.record("rejected")
		badRequest(c, "invalid_request", "not a paymaya callback")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		a.record("rejected")
		badRequest(c, "invalid_body", "unreadable body")
		return
	}

	if problems, err := a.validate(raw); err != nil || len(problems) > 0 {
		a.record("rejected")
		resp := errorResponse(c, apperrors.BadRequest("invalid_body", "callback body does not match schema"))
		if len(problems) > 0 {
			resp.Details = problems
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var cb model.PaymayaCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		a.record("rejected")
		badRequest(c, "invalid_body", err.Error())
		return
	}

	outcome, err := a.paymaya.HandleCallback(c.Request.Context(), &cb, raw)
	if err != nil {
		if errors.Is(err, paymaya.ErrInvalidCallback) {
			a.record("rejected")
		} else {
			a.record("error")
		}
		handleCheckoutError(c, err)
		return
	}

	a.record(string(outcome))
	if outcome == model.CallbackOrderNotFound {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, model.WebhookResponse{Outcome: outcome})
}

// validate returns the schema violations of raw. A body that is not JSON
// is reported as an error.
func (a *webhookAdapter) validate(raw []byte) ([]string, error) {
	result, err := a.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, strings.TrimSpace(e.String()))
	}
	return problems, nil
}

func (a *webhookAdapter) record(outcome string) {
	if a.metrics != nil {
		a.metrics.RecordWebhook(paymaya.Provider, outcome)
	}
}

// Compile-time check
var _ inbound.WebhookHttpPort = (*webhookAdapter)(nil)
