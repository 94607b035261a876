package gin

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/checkout"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockCheckoutDomain struct {
	mock.Mock
}

func (m *MockCheckoutDomain) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutDomain) CreatePaymentMethod(ctx context.Context, order *model.Order, methodTag string, detailFn checkout.DetailFunc) (*model.PaymentMethod, error) {
	args := m.Called(ctx, order, methodTag, detailFn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentMethod), args.Error(1)
}

func (m *MockCheckoutDomain) CreateIntent(ctx context.Context, order *model.Order) (*model.IntentResult, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IntentResult), args.Error(1)
}

func (m *MockCheckoutDomain) ProcessPayment(ctx context.Context, order *model.Order, paymentMethodID, gatewayReturnURL, finalReturnURL string, sendInvoice bool) (*model.CheckoutResult, error) {
	args := m.Called(ctx, order, paymentMethodID, gatewayReturnURL, finalReturnURL, sendInvoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockCheckoutDomain) ConfirmPayment(ctx context.Context, order *model.Order, intentID, finalReturnURL string) (*model.CheckoutResult, error) {
	args := m.Called(ctx, order, intentID, finalReturnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockCheckoutDomain) CreateSource(ctx context.Context, order *model.Order, ewalletType, successURL, failURL string) (*model.CheckoutResult, error) {
	args := m.Called(ctx, order, ewalletType, successURL, failURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockCheckoutDomain) SourceRedirectURLs(orderID uuid.UUID) (string, string) {
	args := m.Called(orderID)
	return args.String(0), args.String(1)
}

func (m *MockCheckoutDomain) DrainNotices(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notice), args.Error(1)
}

type MockPaymayaDomain struct {
	mock.Mock
}

func (m *MockPaymayaDomain) CreateCheckout(ctx context.Context, order *model.Order, urls model.PaymayaRedirectURLs) (*model.CheckoutResult, error) {
	args := m.Called(ctx, order, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockPaymayaDomain) SyncWebhooks(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPaymayaDomain) HandleCallback(ctx context.Context, cb *model.PaymayaCallback, raw []byte) (model.CallbackOutcome, error) {
	args := m.Called(ctx, cb, raw)
	return args.Get(0).(model.CallbackOutcome), args.Error(1)
}
