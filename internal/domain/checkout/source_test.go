package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckoutDomain_CreateSource(t *testing.T) {
	ctx := context.Background()
	successURL := "https://shop.example.com/?status=success"
	failURL := "https://shop.example.com/?status=failed"

	t.Run("paid order gets a notice", func(t *testing.T) {
		f := newFixture(testOptions())
		order := newTestOrder()
		order.Status = model.OrderStatusPaid

		result, err := f.domain.CreateSource(ctx, order, "gcash", successURL, failURL)

		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, []string{errortranslator.AlreadyPaidNotice}, f.settlement.messages())
		f.sources.AssertNotCalled(t, "CreateSource", mock.Anything, mock.Anything)
	})

	t.Run("pending source redirects to checkout url", func(t *testing.T) {
		f := newFixture(testOptions())
		order := newTestOrder()
		order.PaymentMethod = "paymongo_gcash"

		f.settlement.On("Track", mock.Anything, model.TrackProcessPayment, map[string]any{
			"amount":         1500.50,
			"payment_method": "paymongo_gcash",
			"sandbox":        "true",
		})
		f.sources.On("CreateSource", mock.Anything, &model.CreateSourceRequest{
			Amount:     150050,
			Currency:   "PHP",
			Type:       "gcash",
			SuccessURL: successURL,
			FailedURL:  failURL,
			Billing:    ToBillingObject(order),
			Metadata:   map[string]string{"agent": "cynder_woocommerce", "version": "1.2.3"},
		}).Return(&model.Source{
			ID:          "src_1",
			Status:      model.SourceStatusPending,
			CheckoutURL: "https://pay.example.com/src_1",
		}, nil)
		f.settlement.On("MarkPending", mock.Anything, order).Return(nil)

		result, err := f.domain.CreateSource(ctx, order, "gcash", successURL, failURL)

		require.NoError(t, err)
		assert.Equal(t, model.NewRedirectResult("https://pay.example.com/src_1"), result)
		assert.Equal(t, "src_1", order.GetMeta(model.MetaSourceID))
		assert.Empty(t, f.settlement.notices)
		f.sources.AssertExpectations(t)
		f.settlement.AssertExpectations(t)
	})

	t.Run("below minimum uses the fixed notice", func(t *testing.T) {
		f := newFixture(testOptions())
		order := newTestOrder()
		procErr := &model.ProcessorError{StatusCode: 400, Errors: []model.ProcessorErrorDetail{
			{Code: "parameter_below_minimum", Detail: "The value for amount cannot be less than 10000.", Source: model.ProcessorErrorSource{Attribute: "amount"}},
			{Code: "parameter_invalid", Detail: "type is invalid."},
		}}

		f.settlement.On("Track", mock.Anything, model.TrackProcessPayment, mock.Anything)
		f.sources.On("CreateSource", mock.Anything, mock.Anything).Return(nil, procErr)

		result, err := f.domain.CreateSource(ctx, order, "grab_pay", successURL, failURL)

		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, []string{errortranslator.MinimumAmountNotice, "type is invalid."}, f.settlement.messages())
		assert.Empty(t, order.GetMeta(model.MetaSourceID))
		f.settlement.AssertNotCalled(t, "MarkPending", mock.Anything, mock.Anything)
	})

	t.Run("non pending source without errors", func(t *testing.T) {
		f := newFixture(testOptions())

		f.settlement.On("Track", mock.Anything, model.TrackProcessPayment, mock.Anything)
		f.sources.On("CreateSource", mock.Anything, mock.Anything).Return(&model.Source{ID: "src_1", Status: model.SourceStatusFailed}, nil)

		result, err := f.domain.CreateSource(ctx, newTestOrder(), "gcash", successURL, failURL)

		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, []string{errortranslator.GenericPaymentNotice}, f.settlement.messages())
	})

	t.Run("transport failure logs the raw body", func(t *testing.T) {
		f := newFixture(testOptions())

		f.settlement.On("Track", mock.Anything, model.TrackProcessPayment, mock.Anything)
		f.sources.On("CreateSource", mock.Anything, mock.Anything).
			Return(nil, &model.TransportError{Endpoint: "sources", StatusCode: 500, Body: []byte(`{"message":"oops"}`)})

		result, err := f.domain.CreateSource(ctx, newTestOrder(), "gcash", successURL, failURL)

		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, []string{"Connection error. Check logs."}, f.settlement.messages())
		assert.Equal(t, 1, f.logs.FilterMessage(`[Processing Payment] Response error {"message":"oops"}`).Len())
	})

	t.Run("mark pending failure is returned", func(t *testing.T) {
		f := newFixture(testOptions())
		order := newTestOrder()
		dbErr := errors.New("db down")

		f.settlement.On("Track", mock.Anything, model.TrackProcessPayment, mock.Anything)
		f.sources.On("CreateSource", mock.Anything, mock.Anything).
			Return(&model.Source{ID: "src_1", Status: model.SourceStatusPending, CheckoutURL: "https://pay.example.com"}, nil)
		f.settlement.On("MarkPending", mock.Anything, order).Return(dbErr)

		result, err := f.domain.CreateSource(ctx, order, "gcash", successURL, failURL)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("processor without source support", func(t *testing.T) {
		settlement := new(MockSettlement)
		domain := NewCheckoutDomain(new(MockProcessor), nil, settlement, new(MockGuard), errortranslator.New(), testOptions(), zap.NewNop())

		result, err := domain.CreateSource(ctx, newTestOrder(), "gcash", successURL, failURL)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrSourceUnsupported)
		settlement.AssertNotCalled(t, "Track", mock.Anything, mock.Anything, mock.Anything)
	})
}
