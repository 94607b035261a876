package gin

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/checkout"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/paymaya"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckoutRouter(domain *MockCheckoutDomain, paymayaDomain *MockPaymayaDomain) *gin.Engine {
	router := gin.New()
	var pm paymaya.PaymayaDomain
	if paymayaDomain != nil {
		pm = paymayaDomain
	}
	RegisterCheckoutRoutes(router.Group("/api/v1"), NewCheckoutAdapter(domain, pm), func(c *gin.Context) { c.Next() })
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newOrder() *model.Order {
	return &model.Order{ID: uuid.New(), OrderKey: "wc_order_1", Total: 1500.50, Currency: "PHP"}
}

func TestCheckoutAdapter_ProcessPayment(t *testing.T) {
	t.Run("redirects on success", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		order := newOrder()
		domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
		domain.On("ProcessPayment", mock.Anything, order, "pm_1", "https://shop/gateway", "https://shop/thanks", true).
			Return(model.NewRedirectResult("https://shop/thanks"), nil)
		domain.On("DrainNotices", mock.Anything, order.ID).Return(nil, nil)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/pay", model.ProcessPaymentRequest{
			PaymentMethodID:  "pm_1",
			GatewayReturnURL: "https://shop/gateway",
			FinalReturnURL:   "https://shop/thanks",
			SendInvoice:      true,
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.CheckoutResponse{Result: "success", Outcome: model.OutcomeRedirect, Redirect: "https://shop/thanks"}, resp)
		domain.AssertExpectations(t)
	})

	t.Run("handled failure returns notices", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		order := newOrder()
		notices := []model.Notice{{Level: model.NoticeError, Message: "Your card was declined."}}
		domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
		domain.On("ProcessPayment", mock.Anything, order, "pm_1", "", "https://shop/thanks", false).Return(nil, nil)
		domain.On("DrainNotices", mock.Anything, order.ID).Return(notices, nil)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/pay", model.ProcessPaymentRequest{
			PaymentMethodID: "pm_1",
			FinalReturnURL:  "https://shop/thanks",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "failure", resp.Result)
		assert.Empty(t, resp.Redirect)
		assert.Equal(t, notices, resp.Notices)
	})

	t.Run("unsupported source is not implemented", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		order := newOrder()
		domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
		domain.On("ProcessPayment", mock.Anything, order, "pm_1", "", "https://shop/thanks", false).Return(nil, checkout.ErrSourceUnsupported)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/pay", model.ProcessPaymentRequest{
			PaymentMethodID: "pm_1",
			FinalReturnURL:  "https://shop/thanks",
		})

		assert.Equal(t, http.StatusNotImplemented, w.Code)
		assert.Contains(t, w.Body.String(), "ewallet_unsupported")
	})

	t.Run("missing return url", func(t *testing.T) {
		domain := new(MockCheckoutDomain)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+uuid.NewString()+"/pay", map[string]string{"payment_method_id": "pm_1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		domain.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	})

	t.Run("invalid order id", func(t *testing.T) {
		w := doJSON(newCheckoutRouter(new(MockCheckoutDomain), nil), http.MethodPost, "/api/v1/checkout/orders/42/pay", model.ProcessPaymentRequest{FinalReturnURL: "https://shop/thanks"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_id")
	})

	t.Run("unknown order", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		id := uuid.New()
		domain.On("GetOrder", mock.Anything, id).Return(nil, checkout.ErrOrderNotFound)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+id.String()+"/pay", model.ProcessPaymentRequest{FinalReturnURL: "https://shop/thanks"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCheckoutAdapter_CreateIntent(t *testing.T) {
	domain := new(MockCheckoutDomain)
	order := newOrder()
	domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
	domain.On("CreateIntent", mock.Anything, order).Return(&model.IntentResult{PaymentIntentID: "pi_1", ClientKey: "pi_1_client"}, nil)
	domain.On("DrainNotices", mock.Anything, order.ID).Return(nil, nil)

	w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/intent", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"success","payment_intent_id":"pi_1","payment_client_key":"pi_1_client"}`, w.Body.String())
}

func TestCheckoutAdapter_CreatePaymentMethod(t *testing.T) {
	t.Run("passes request details", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		order := newOrder()
		domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
		domain.On("CreatePaymentMethod", mock.Anything, order, "paymongo_paymaya", mock.MatchedBy(func(fn checkout.DetailFunc) bool {
			return fn != nil && fn(order)["redirect"] == "always"
		})).Return(&model.PaymentMethod{ID: "pm_1", Type: "paymaya"}, nil)
		domain.On("DrainNotices", mock.Anything, order.ID).Return(nil, nil)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/payment-method", model.CreatePaymentMethodRequest{
			MethodTag: "paymongo_paymaya",
			Details:   map[string]any{"redirect": "always"},
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.PaymentMethodResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Result)
		assert.Equal(t, "pm_1", resp.PaymentMethod.ID)
	})

	t.Run("unknown tag", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		order := newOrder()
		domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
		domain.On("CreatePaymentMethod", mock.Anything, order, "paymongo_gcash", mock.Anything).Return(nil, checkout.ErrUnknownMethodTag)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/payment-method", model.CreatePaymentMethodRequest{MethodTag: "paymongo_gcash"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown_payment_method")
	})
}

func TestCheckoutAdapter_CreateSource(t *testing.T) {
	domain := new(MockCheckoutDomain)
	order := newOrder()
	domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
	domain.On("SourceRedirectURLs", order.ID).Return("https://shop/?status=success", "https://shop/?status=failed")
	domain.On("CreateSource", mock.Anything, order, "gcash", "https://shop/?status=success", "https://shop/?status=failed").
		Return(model.NewRedirectResult("https://test-sources.paymongo.com/src_1"), nil)
	domain.On("DrainNotices", mock.Anything, order.ID).Return(nil, nil)

	w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/ewallet", model.CreateSourceRequestBody{Type: "gcash"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://test-sources.paymongo.com/src_1")
	domain.AssertExpectations(t)
}

func TestCheckoutAdapter_ConfirmPayment(t *testing.T) {
	domain := new(MockCheckoutDomain)
	order := newOrder()
	domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
	domain.On("ConfirmPayment", mock.Anything, order, "pi_1", "https://shop/thanks").Return(nil, nil)
	domain.On("DrainNotices", mock.Anything, order.ID).Return([]model.Notice{{Level: model.NoticeError, Message: "Please try again."}}, nil)

	w := doJSON(newCheckoutRouter(domain, nil), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/confirm", model.ConfirmPaymentRequest{
		PaymentIntentID: "pi_1",
		FinalReturnURL:  "https://shop/thanks",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"failure","notices":[{"level":"error","message":"Please try again."}]}`, w.Body.String())
}

func TestCheckoutAdapter_CreatePaymayaCheckout(t *testing.T) {
	urls := model.PaymayaRedirectURLs{Success: "https://shop/ok", Failure: "https://shop/fail", Cancel: "https://shop/cancel"}

	t.Run("redirects to hosted checkout", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		pm := new(MockPaymayaDomain)
		order := newOrder()
		domain.On("GetOrder", mock.Anything, order.ID).Return(order, nil)
		domain.On("DrainNotices", mock.Anything, order.ID).Return(nil, nil)
		pm.On("CreateCheckout", mock.Anything, order, urls).Return(model.NewRedirectResult("https://payments.paymaya.com/chk_1"), nil)

		w := doJSON(newCheckoutRouter(domain, pm), http.MethodPost, "/api/v1/checkout/orders/"+order.ID.String()+"/paymaya", model.CreatePaymayaCheckoutRequest{RedirectURL: urls})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://payments.paymaya.com/chk_1")
	})

	t.Run("disabled", func(t *testing.T) {
		w := doJSON(newCheckoutRouter(new(MockCheckoutDomain), nil), http.MethodPost, "/api/v1/checkout/orders/"+uuid.NewString()+"/paymaya", model.CreatePaymayaCheckoutRequest{RedirectURL: urls})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing success url", func(t *testing.T) {
		w := doJSON(newCheckoutRouter(new(MockCheckoutDomain), new(MockPaymayaDomain)), http.MethodPost, "/api/v1/checkout/orders/"+uuid.NewString()+"/paymaya", model.CreatePaymayaCheckoutRequest{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutAdapter_ListNotices(t *testing.T) {
	t.Run("drains queue", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		id := uuid.New()
		domain.On("DrainNotices", mock.Anything, id).Return(nil, nil)

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodGet, "/api/v1/checkout/orders/"+id.String()+"/notices", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"notices":[]}`, w.Body.String())
	})

	t.Run("queue failure", func(t *testing.T) {
		domain := new(MockCheckoutDomain)
		id := uuid.New()
		domain.On("DrainNotices", mock.Anything, id).Return(nil, errors.New("redis down"))

		w := doJSON(newCheckoutRouter(domain, nil), http.MethodGet, "/api/v1/checkout/orders/"+id.String()+"/notices", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
