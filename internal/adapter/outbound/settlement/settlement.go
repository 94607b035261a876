// Package settlement assembles the order system capabilities used by the
// checkout flows into a single outbound.OrderSettlementPort.
package settlement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/infra/events"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/metrics"
	"go.uber.org/zap"
)

// orderSettlement implements outbound.OrderSettlementPort.
type orderSettlement struct {
	outbound.OrderStorePort
	outbound.CartPort

	notices outbound.NoticePort
	bus     *events.Bus
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates the settlement port. m may be nil.
func New(
	orders outbound.OrderStorePort,
	cart outbound.CartPort,
	notices outbound.NoticePort,
	bus *events.Bus,
	m *metrics.Metrics,
	logger *zap.Logger,
) outbound.OrderSettlementPort {
	return &orderSettlement{
		OrderStorePort: orders,
		CartPort:       cart,
		notices:        notices,
		bus:            bus,
		metrics:        m,
		logger:         logger,
	}
}

func (s *orderSettlement) Notify(ctx context.Context, orderID uuid.UUID, notice model.Notice) error {
	if err := s.notices.Notify(ctx, orderID, notice); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordNotice(string(notice.Level))
	}
	return nil
}

func (s *orderSettlement) Drain(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error) {
	return s.notices.Drain(ctx, orderID)
}

// Emit publishes the event on the in-process bus.
func (s *orderSettlement) Emit(ctx context.Context, orderID uuid.UUID, name string, payload any) {
	s.bus.Publish(events.NewEnvelope(name, orderID, payload))
}

// Track records the event as metrics and an analytics log line.
func (s *orderSettlement) Track(ctx context.Context, name string, props map[string]any) {
	method, _ := props["payment_method"].(string)
	sandbox, _ := strconv.ParseBool(fmt.Sprint(props["sandbox"]))
	amount := toFloat(props["amount"])

	if s.metrics != nil {
		s.metrics.RecordCheckoutEvent(name, method, sandbox, amount)
	}

	fields := make([]zap.Field, 0, len(props)+1)
	fields = append(fields, zap.String("event", name))
	for k, v := range props {
		fields = append(fields, zap.Any(k, v))
	}
	s.logger.Info("tracked checkout event", fields...)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

// meteredGuard records settlement attempts on a guard.
type meteredGuard struct {
	next    outbound.SettlementGuardPort
	metrics *metrics.Metrics
}

// NewMeteredGuard wraps next with settlement metrics.
func NewMeteredGuard(next outbound.SettlementGuardPort, m *metrics.Metrics) outbound.SettlementGuardPort {
	if m == nil {
		return next
	}
	return &meteredGuard{next: next, metrics: m}
}

func (g *meteredGuard) Acquire(ctx context.Context, paymentID string, orderID uuid.UUID, channel string) (bool, error) {
	acquired, err := g.next.Acquire(ctx, paymentID, orderID, channel)
	if err != nil {
		return false, err
	}
	g.metrics.RecordSettlement(channel, !acquired)
	return acquired, nil
}

func (g *meteredGuard) Release(ctx context.Context, paymentID string) error {
	return g.next.Release(ctx, paymentID)
}

// Compile-time checks
var (
	_ outbound.OrderSettlementPort = (*orderSettlement)(nil)
	_ outbound.SettlementGuardPort = (*meteredGuard)(nil)
)
