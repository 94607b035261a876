package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock Implementations ---

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProcessor) CreatePaymentMethod(ctx context.Context, methodType string, details map[string]any, billing *model.BillingObject) (*model.PaymentMethod, error) {
	args := m.Called(ctx, methodType, details, billing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentMethod), args.Error(1)
}

func (m *MockProcessor) CreatePaymentIntent(ctx context.Context, req *model.CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *MockProcessor) AttachPaymentMethod(ctx context.Context, intentID, methodID, returnURL string) (*model.PaymentIntent, error) {
	args := m.Called(ctx, intentID, methodID, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *MockProcessor) GetPaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

type MockSourceProcessor struct {
	mock.Mock
}

func (m *MockSourceProcessor) CreateSource(ctx context.Context, req *model.CreateSourceRequest) (*model.Source, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

// MockSettlement records notices in memory so tests can assert on them
// without setting an expectation per notice.
type MockSettlement struct {
	mock.Mock
	notices []model.Notice
}

func (m *MockSettlement) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockSettlement) FindByReference(ctx context.Context, reference string) (*model.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockSettlement) MarkPaid(ctx context.Context, order *model.Order, transactionID string, sendInvoice bool) error {
	args := m.Called(ctx, order, transactionID, sendInvoice)
	return args.Error(0)
}

func (m *MockSettlement) MarkPending(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSettlement) SaveMeta(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSettlement) EmptyCart(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSettlement) Notify(ctx context.Context, orderID uuid.UUID, notice model.Notice) error {
	m.notices = append(m.notices, notice)
	return nil
}

func (m *MockSettlement) Drain(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error) {
	notices := m.notices
	m.notices = nil
	return notices, nil
}

func (m *MockSettlement) Emit(ctx context.Context, orderID uuid.UUID, name string, payload any) {
	m.Called(ctx, orderID, name, payload)
}

func (m *MockSettlement) Track(ctx context.Context, name string, props map[string]any) {
	m.Called(ctx, name, props)
}

func (m *MockSettlement) messages() []string {
	out := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		out = append(out, n.Message)
	}
	return out
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Acquire(ctx context.Context, paymentID string, orderID uuid.UUID, channel string) (bool, error) {
	args := m.Called(ctx, paymentID, orderID, channel)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) Release(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

// memoryGuard is an in-memory settlement guard with the claim semantics of
// the postgres adapter.
type memoryGuard struct {
	mu     sync.Mutex
	claims map[string]uuid.UUID
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{claims: make(map[string]uuid.UUID)}
}

func (g *memoryGuard) Acquire(_ context.Context, paymentID string, orderID uuid.UUID, _ string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.claims[paymentID]; ok {
		return false, nil
	}
	g.claims[paymentID] = orderID
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, paymentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, paymentID)
	return nil
}

func (g *memoryGuard) claimed(paymentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.claims[paymentID]
	return ok
}

// --- Fixtures ---

type fixture struct {
	processor  *MockProcessor
	sources    *MockSourceProcessor
	settlement *MockSettlement
	guard      *MockGuard
	logs       *observer.ObservedLogs
	domain     CheckoutDomain
}

func testOptions() Options {
	return Options{
		TestMode:      true,
		Agent:         "cynder_woocommerce",
		Version:       "1.2.3",
		StorefrontURL: "https://shop.example.com",
	}
}

func newFixture(opts Options) *fixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		processor:  new(MockProcessor),
		sources:    new(MockSourceProcessor),
		settlement: new(MockSettlement),
		guard:      new(MockGuard),
		logs:       logs,
	}
	f.domain = NewCheckoutDomain(
		f.processor,
		f.sources,
		f.settlement,
		f.guard,
		errortranslator.New(),
		opts,
		zap.New(core),
	)
	return f
}

// withGuard rebuilds the fixture domain around guard.
func (f *fixture) withGuard(guard *memoryGuard, opts Options) CheckoutDomain {
	return NewCheckoutDomain(f.processor, f.sources, f.settlement, guard, errortranslator.New(), opts, zap.NewNop())
}

func newTestOrder() *model.Order {
	return &model.Order{
		ID:               uuid.New(),
		OrderKey:         "wc_order_abc123",
		Status:           model.OrderStatusPending,
		Total:            1500.50,
		Currency:         "PHP",
		PaymentMethod:    "paymongo_card",
		BillingFirstName: "Juan",
		BillingLastName:  "Dela Cruz",
		BillingEmail:     "juan@example.com",
		BillingPhone:     "09171234567",
		BillingAddress1:  "1 Ayala Ave",
		BillingAddress2:  "Unit 5",
		BillingCity:      "Makati",
		BillingState:     "Metro Manila",
		BillingPostcode:  "1226",
		BillingCountry:   "PH",
	}
}
