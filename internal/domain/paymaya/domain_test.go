package paymaya

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock Implementations ---

type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateCheckout(ctx context.Context, req *model.PaymayaCheckoutRequest) (*model.PaymayaCheckout, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymayaCheckout), args.Error(1)
}

func (m *MockClient) ListWebhooks(ctx context.Context) ([]model.PaymayaWebhook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymayaWebhook), args.Error(1)
}

func (m *MockClient) DeleteWebhook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) CreateWebhook(ctx context.Context, name, callbackURL string) (*model.PaymayaWebhook, error) {
	args := m.Called(ctx, name, callbackURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymayaWebhook), args.Error(1)
}

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
	return m.notices, nil
}

func (m *MockSettlement) Emit(ctx context.Context, orderID uuid.UUID, name string, payload any) {
	m.Called(ctx, orderID, name, payload)
}

func (m *MockSettlement) Track(ctx context.Context, name string, props map[string]any) {
	m.Called(ctx, name, props)
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

type MockWebhookEvents struct {
	mock.Mock
}

func (m *MockWebhookEvents) Create(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookEvents) MarkProcessed(ctx context.Context, id uuid.UUID, processErr error) error {
	args := m.Called(ctx, id, processErr)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	body, _ := io.ReadAll(reader)
	args := m.Called(ctx, key, string(body), size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// --- Fixtures ---

const callbackURL = "https://checkout.example.com/api/v1/webhooks/paymaya?gateway=cynder_paymaya"

type fixture struct {
	client     *MockClient
	settlement *MockSettlement
	guard      *MockGuard
	events     *MockWebhookEvents
	archive    *MockStorage
	logs       *observer.ObservedLogs
	domain     PaymayaDomain
}

func newFixture(withArchive bool) *fixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		client:     new(MockClient),
		settlement: new(MockSettlement),
		guard:      new(MockGuard),
		events:     new(MockWebhookEvents),
		archive:    new(MockStorage),
		logs:       logs,
	}
	var archive outbound.StoragePort
	if withArchive {
		archive = f.archive
	}
	f.domain = NewPaymayaDomain(f.client, f.settlement, f.guard, f.events, archive, Options{CallbackURL: callbackURL}, zap.New(core))
	return f
}

func newTestOrder() *model.Order {
	return &model.Order{
		ID:               uuid.New(),
		OrderKey:         "wc_order_pm1",
		Status:           model.OrderStatusPending,
		Total:            250.75,
		Currency:         "PHP",
		BillingFirstName: "Maria",
		BillingLastName:  "Santos",
		BillingEmail:     "maria@example.com",
		BillingPhone:     "09991234567",
		BillingAddress1:  "22 Ortigas Ave",
		BillingCity:      "Pasig",
		BillingState:     "Metro Manila",
		BillingPostcode:  "1600",
		BillingCountry:   "PH",
	}
}

// ===== Checkout =====

func TestBuildCheckoutRequest(t *testing.T) {
	order := newTestOrder()
	order.Items = []*model.OrderItem{
		{ProductID: "42", Name: "Coffee", Quantity: 2, UnitPrice: 100.25, Subtotal: 200.50},
	}
	urls := model.PaymayaRedirectURLs{Success: "https://shop/ok", Failure: "https://shop/pay", Cancel: "https://shop/pay"}

	req := BuildCheckoutRequest(order, urls)

	assert.Equal(t, int64(25075), req.TotalAmount.Value)
	assert.Equal(t, "PHP", req.TotalAmount.Currency)
	assert.Equal(t, "Maria", req.Buyer.FirstName)
	assert.Equal(t, "09991234567", req.Buyer.Contact.Phone)
	assert.Equal(t, "1600", req.Buyer.BillingAddress.ZipCode)
	assert.Equal(t, "PH", req.Buyer.BillingAddress.CountryCode)
	require.Len(t, req.Items, 1)
	assert.Equal(t, model.PaymayaItem{
		Name:        "Coffee",
		Quantity:    2,
		Code:        "42",
		Amount:      model.PaymayaAmount{Value: 100.25},
		TotalAmount: model.PaymayaAmount{Value: 200.50},
	}, req.Items[0])
	assert.Equal(t, urls, req.RedirectURL)
	assert.Equal(t, order.ID.String(), req.RequestReferenceNumber)
}

func TestPaymayaDomain_CreateCheckout(t *testing.T) {
	ctx := context.Background()
	urls := model.PaymayaRedirectURLs{Success: "https://shop/ok", Failure: "https://shop/pay", Cancel: "https://shop/pay"}

	t.Run("success redirects to hosted checkout", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		f.client.On("CreateCheckout", mock.Anything, BuildCheckoutRequest(order, urls)).
			Return(&model.PaymayaCheckout{CheckoutID: "chk_1", RedirectURL: "https://paymaya.example.com/chk_1"}, nil)

		result, err := f.domain.CreateCheckout(ctx, order, urls)

		require.NoError(t, err)
		assert.Equal(t, model.NewRedirectResult("https://paymaya.example.com/chk_1"), result)
		f.client.AssertExpectations(t)
	})

	t.Run("api error becomes a notice", func(t *testing.T) {
		f := newFixture(false)
		f.client.On("CreateCheckout", mock.Anything, mock.Anything).
			Return(nil, &model.PaymayaError{StatusCode: 400, Message: "Missing/invalid parameters."})

		result, err := f.domain.CreateCheckout(ctx, newTestOrder(), urls)

		assert.NoError(t, err)
		assert.Nil(t, result)
		require.Len(t, f.settlement.notices, 1)
		assert.Equal(t, "Missing/invalid parameters.", f.settlement.notices[0].Message)
	})

	t.Run("transport error uses connection notice", func(t *testing.T) {
		f := newFixture(false)
		f.client.On("CreateCheckout", mock.Anything, mock.Anything).
			Return(nil, &model.TransportError{Endpoint: "checkout/v1/checkouts", Err: errors.New("timeout")})

		result, err := f.domain.CreateCheckout(ctx, newTestOrder(), urls)

		assert.NoError(t, err)
		assert.Nil(t, result)
		require.Len(t, f.settlement.notices, 1)
		assert.Equal(t, "Connection error. Check logs.", f.settlement.notices[0].Message)
	})

	t.Run("paid order gets a notice", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		order.Status = model.OrderStatusPaid

		result, err := f.domain.CreateCheckout(ctx, order, urls)

		assert.NoError(t, err)
		assert.Nil(t, result)
		require.Len(t, f.settlement.notices, 1)
		assert.Equal(t, "This order has already been paid.", f.settlement.notices[0].Message)
		f.client.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
	})
}

// ===== Webhooks =====

func TestPaymayaDomain_SyncWebhooks(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces registered webhooks", func(t *testing.T) {
		f := newFixture(false)
		f.client.On("ListWebhooks", mock.Anything).Return([]model.PaymayaWebhook{{ID: "wh_1"}, {ID: "wh_2"}}, nil)
		f.client.On("DeleteWebhook", mock.Anything, "wh_1").Return(nil).Once()
		f.client.On("DeleteWebhook", mock.Anything, "wh_2").Return(nil).Once()
		for _, name := range []string{"CHECKOUT_SUCCESS", "CHECKOUT_FAILURE", "CHECKOUT_DROPOUT"} {
			f.client.On("CreateWebhook", mock.Anything, name, callbackURL).
				Return(&model.PaymayaWebhook{ID: "new_" + name, Name: name, CallbackURL: callbackURL}, nil).Once()
		}

		err := f.domain.SyncWebhooks(ctx)

		require.NoError(t, err)
		f.client.AssertExpectations(t)
	})

	t.Run("delete failure stops registration", func(t *testing.T) {
		f := newFixture(false)
		f.client.On("ListWebhooks", mock.Anything).Return([]model.PaymayaWebhook{{ID: "wh_1"}}, nil)
		f.client.On("DeleteWebhook", mock.Anything, "wh_1").Return(errors.New("forbidden"))

		err := f.domain.SyncWebhooks(ctx)

		assert.Error(t, err)
		f.client.AssertNotCalled(t, "CreateWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("list failure", func(t *testing.T) {
		f := newFixture(false)
		f.client.On("ListWebhooks", mock.Anything).Return(nil, errors.New("unauthorized"))

		assert.Error(t, f.domain.SyncWebhooks(ctx))
	})
}

func TestPaymayaDomain_HandleCallback(t *testing.T) {
	ctx := context.Background()

	successCallback := func(ref string) *model.PaymayaCallback {
		return &model.PaymayaCallback{
			ID:                         "chk_123",
			RequestReferenceNumber:     ref,
			TransactionReferenceNumber: "txn_456",
			Status:                     "COMPLETED",
			PaymentStatus:              "PAYMENT_SUCCESS",
		}
	}

	t.Run("completed payment settles the order", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		cb := successCallback(order.ID.String())

		f.events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.WebhookEvent) bool {
			return e.Provider == "paymaya" && e.EventID == "chk_123" && e.Data == `{"id":"chk_123"}`
		})).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.guard.On("Acquire", mock.Anything, "txn_456", order.ID, "paymaya").Return(true, nil)
		f.settlement.On("MarkPaid", mock.Anything, order, "txn_456", false).Return(nil)
		f.settlement.On("Emit", mock.Anything, order.ID, model.SuccessfulPaymentEventName, mock.Anything)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		outcome, err := f.domain.HandleCallback(ctx, cb, []byte(`{"id":"chk_123"}`))

		require.NoError(t, err)
		assert.Equal(t, model.CallbackProcessed, outcome)
		assert.Equal(t, 1, f.logs.FilterMessage("Webhook processing for checkout ID chk_123").Len())
		f.settlement.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("unknown reference number", func(t *testing.T) {
		f := newFixture(false)
		cb := successCallback("missing-ref")

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, "missing-ref").Return(nil, nil)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		outcome, err := f.domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		assert.Equal(t, model.CallbackOrderNotFound, outcome)
		logs := f.logs.FilterMessage("No transaction found with reference number missing-ref").All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
		f.settlement.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed payment logs both statuses", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		cb := &model.PaymayaCallback{
			ID:                     "chk_9",
			RequestReferenceNumber: order.ID.String(),
			Status:                 "EXPIRED",
			PaymentStatus:          "PAYMENT_FAILED",
		}

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		outcome, err := f.domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		assert.Equal(t, model.CallbackProcessed, outcome)
		logs := f.logs.FilterMessage("Failed to complete order because checkout is EXPIRED and payment is PAYMENT_FAILED").All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
		assert.Equal(t, 1, f.logs.FilterMessage("Webhook processing for checkout ID chk_9").Len())
		f.settlement.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.guard.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completed checkout with unpaid payment is not settled", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		cb := successCallback(order.ID.String())
		cb.PaymentStatus = "PAYMENT_PROCESSING"

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		_, err := f.domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		f.settlement.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replayed event is skipped", func(t *testing.T) {
		f := newFixture(false)
		cb := successCallback(uuid.NewString())

		f.events.On("Create", mock.Anything, mock.Anything).Return(false, nil)

		outcome, err := f.domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		assert.Equal(t, model.CallbackDuplicate, outcome)
		f.settlement.AssertNotCalled(t, "FindByReference", mock.Anything, mock.Anything)
	})

	t.Run("already applied transaction is not marked again", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		cb := successCallback(order.ID.String())

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.guard.On("Acquire", mock.Anything, "txn_456", order.ID, "paymaya").Return(false, nil)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		outcome, err := f.domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		assert.Equal(t, model.CallbackProcessed, outcome)
		f.settlement.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing transaction reference is guarded by checkout ID", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		cb := successCallback(order.ID.String())
		cb.TransactionReferenceNumber = ""

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.guard.On("Acquire", mock.Anything, "chk_123", order.ID, "paymaya").Return(true, nil)
		f.settlement.On("MarkPaid", mock.Anything, order, "", false).Return(nil)
		f.settlement.On("Emit", mock.Anything, order.ID, model.SuccessfulPaymentEventName, mock.Anything)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		_, err := f.domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		f.guard.AssertExpectations(t)
	})

	t.Run("mark paid failure is recorded on the event", func(t *testing.T) {
		f := newFixture(false)
		order := newTestOrder()
		cb := successCallback(order.ID.String())
		dbErr := errors.New("db down")

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.guard.On("Acquire", mock.Anything, "txn_456", order.ID, "paymaya").Return(true, nil)
		f.settlement.On("MarkPaid", mock.Anything, order, "txn_456", false).Return(dbErr)
		f.guard.On("Release", mock.Anything, "txn_456").Return(nil)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, mock.MatchedBy(func(err error) bool {
			return errors.Is(err, dbErr)
		})).Return(nil)

		_, err := f.domain.HandleCallback(ctx, cb, nil)

		assert.ErrorIs(t, err, dbErr)
		f.events.AssertExpectations(t)
		f.guard.AssertExpectations(t)
	})

	t.Run("redelivery after a failed mark paid settles the order", func(t *testing.T) {
		f := newFixture(false)
		guard := newMemoryGuard()
		domain := NewPaymayaDomain(f.client, f.settlement, guard, f.events, nil, Options{CallbackURL: callbackURL}, zap.NewNop())
		order := newTestOrder()
		cb := successCallback(order.ID.String())
		dbErr := errors.New("db down")

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.settlement.On("FindByReference", mock.Anything, order.ID.String()).Return(order, nil)
		f.settlement.On("MarkPaid", mock.Anything, order, "txn_456", false).Return(dbErr).Once()
		f.settlement.On("MarkPaid", mock.Anything, order, "txn_456", false).Return(nil).Once()
		f.settlement.On("Emit", mock.Anything, order.ID, model.SuccessfulPaymentEventName, mock.Anything)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, mock.MatchedBy(func(err error) bool {
			return errors.Is(err, dbErr)
		})).Return(nil).Once()
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil).Once()

		_, err := domain.HandleCallback(ctx, cb, nil)
		assert.ErrorIs(t, err, dbErr)
		assert.False(t, guard.claimed("txn_456"))

		outcome, err := domain.HandleCallback(ctx, cb, nil)

		require.NoError(t, err)
		assert.Equal(t, model.CallbackProcessed, outcome)
		assert.True(t, guard.claimed("txn_456"))
		f.settlement.AssertNumberOfCalls(t, "MarkPaid", 2)
		f.settlement.AssertNumberOfCalls(t, "Emit", 1)
		f.events.AssertExpectations(t)
	})

	t.Run("archives the raw payload", func(t *testing.T) {
		f := newFixture(true)
		cb := successCallback("missing-ref")
		raw := `{"id":"chk_123","status":"COMPLETED"}`

		f.events.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.archive.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "webhooks/paymaya/") && strings.HasSuffix(key, "-chk_123.json")
		}), raw, int64(len(raw)), "application/json").Return(nil)
		f.settlement.On("FindByReference", mock.Anything, "missing-ref").Return(nil, nil)
		f.events.On("MarkProcessed", mock.Anything, mock.Anything, nil).Return(nil)

		_, err := f.domain.HandleCallback(ctx, cb, []byte(raw))

		require.NoError(t, err)
		f.archive.AssertExpectations(t)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		f := newFixture(false)

		_, err := f.domain.HandleCallback(ctx, &model.PaymayaCallback{ID: "chk_1"}, nil)

		assert.ErrorIs(t, err, ErrInvalidCallback)
		f.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestArchiveKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	key := ArchiveKey(at, "chk_1")
	assert.True(t, strings.HasPrefix(key, "webhooks/paymaya/2024/03/09/"))
	assert.True(t, strings.HasSuffix(key, "-chk_1.json"))
}
