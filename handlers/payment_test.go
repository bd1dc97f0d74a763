package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripay/config"
	"tripay/models"
	"tripay/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubInvoiceService implements payment.InvoiceService with pluggable funcs.
type stubInvoiceService struct {
	createInvoice   func(ctx context.Context, customerID string, in payment.CreateInvoiceInput) (*models.Invoice, error)
	initiatePayment func(ctx context.Context, customerID, invoiceID, origin string) (*payment.PaymentInitiation, error)
	capture         func(ctx context.Context, invoiceID string) (*payment.CaptureOutcome, error)
	orderStatus     func(ctx context.Context, customerID, invoiceID string) (*payment.OrderStatusResult, error)
	deleteInvoice   func(ctx context.Context, customerID, invoiceID string) error
	attachReview    func(ctx context.Context, customerID string, in payment.ReviewInput) (*models.Review, error)
	listOrders      func(ctx context.Context, customerID string) ([]models.InvoiceOrder, error)
	listReviewable  func(ctx context.Context, customerID string) ([]models.InvoiceOrder, error)
}

func (s *stubInvoiceService) CreateInvoice(ctx context.Context, customerID string, in payment.CreateInvoiceInput) (*models.Invoice, error) {
	return s.createInvoice(ctx, customerID, in)
}

func (s *stubInvoiceService) InitiatePayment(ctx context.Context, customerID, invoiceID, origin string) (*payment.PaymentInitiation, error) {
	return s.initiatePayment(ctx, customerID, invoiceID, origin)
}

func (s *stubInvoiceService) Capture(ctx context.Context, invoiceID string) (*payment.CaptureOutcome, error) {
	return s.capture(ctx, invoiceID)
}

func (s *stubInvoiceService) OrderStatus(ctx context.Context, customerID, invoiceID string) (*payment.OrderStatusResult, error) {
	return s.orderStatus(ctx, customerID, invoiceID)
}

func (s *stubInvoiceService) DeleteInvoice(ctx context.Context, customerID, invoiceID string) error {
	return s.deleteInvoice(ctx, customerID, invoiceID)
}

func (s *stubInvoiceService) AttachReview(ctx context.Context, customerID string, in payment.ReviewInput) (*models.Review, error) {
	return s.attachReview(ctx, customerID, in)
}

func (s *stubInvoiceService) ListOrders(ctx context.Context, customerID string) ([]models.InvoiceOrder, error) {
	return s.listOrders(ctx, customerID)
}

func (s *stubInvoiceService) ListReviewable(ctx context.Context, customerID string) ([]models.InvoiceOrder, error) {
	return s.listReviewable(ctx, customerID)
}

func newPaymentRouter(svc payment.InvoiceService) *gin.Engine {
	h := NewPaymentHandler(svc, zap.NewNop())
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "cust-1") })
	r.POST("/api/payment/invoice", h.CreateInvoice)
	r.POST("/api/payment/invoice/:id/pay", h.InitiatePayment)
	r.GET("/api/payment/invoice/:id/capture", h.Capture)
	r.GET("/api/payment/invoice/:id", h.OrderStatus)
	r.DELETE("/api/payment/invoice/:id", h.DeleteInvoice)
	return r
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	svc := &stubInvoiceService{
		createInvoice: func(ctx context.Context, customerID string, in payment.CreateInvoiceInput) (*models.Invoice, error) {
			assert.Equal(t, "cust-1", customerID)
			assert.Equal(t, 2, in.NumberOfGuest)
			assert.Equal(t, "prod-1", in.ProductID)
			assert.Equal(t, 2026, in.DateTravel.Year())
			return &models.Invoice{ID: "inv-1", Status: models.InvoiceStatusPending}, nil
		},
	}
	router := newPaymentRouter(svc)

	body := `{"date_travel":"2026-09-12","number_of_guest":2,"note":"hi","product_id":"prod-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/invoice", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "invoice")
}

func TestCreateInvoiceEndpointRejectsBadDate(t *testing.T) {
	router := newPaymentRouter(&stubInvoiceService{})

	body := `{"date_travel":"12/09/2026","number_of_guest":2,"note":"hi","product_id":"prod-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/invoice", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Date travel is invalid")
}

func TestErrorKindStatusMapping(t *testing.T) {
	cases := []struct {
		kind payment.Kind
		want int
	}{
		{payment.KindValidation, http.StatusBadRequest},
		{payment.KindNotFound, http.StatusNotFound},
		{payment.KindUnauthorized, http.StatusForbidden},
		{payment.KindConflict, http.StatusConflict},
		{payment.KindGateway, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			svc := &stubInvoiceService{
				deleteInvoice: func(ctx context.Context, customerID, invoiceID string) error {
					return &payment.PaymentError{Kind: tc.kind, Message: "nope"}
				},
			}
			router := newPaymentRouter(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/api/payment/invoice/inv-1", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), "nope")
		})
	}
}

func TestGatewayErrorRelaysUpstreamPayload(t *testing.T) {
	svc := &stubInvoiceService{
		orderStatus: func(ctx context.Context, customerID, invoiceID string) (*payment.OrderStatusResult, error) {
			return nil, &payment.PaymentError{
				Kind:    payment.KindGateway,
				Message: "Failed to get order data",
				Err:     &payment.GatewayError{HTTPStatus: 500, Raw: json.RawMessage(`{"name":"INTERNAL_ERROR"}`)},
			}
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/invoice/inv-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCaptureRedirectsToOrders(t *testing.T) {
	config.AppConfig.FEHost = "https://fe.example.com"
	svc := &stubInvoiceService{
		capture: func(ctx context.Context, invoiceID string) (*payment.CaptureOutcome, error) {
			assert.Equal(t, "inv-1", invoiceID)
			return &payment.CaptureOutcome{Invoice: &models.Invoice{ID: invoiceID, Status: models.InvoiceStatusPaid}}, nil
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/invoice/inv-1/capture", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://fe.example.com/orders", w.Header().Get("Location"))
}

func TestCaptureReplayStillRedirects(t *testing.T) {
	config.AppConfig.FEHost = "https://fe.example.com"
	svc := &stubInvoiceService{
		capture: func(ctx context.Context, invoiceID string) (*payment.CaptureOutcome, error) {
			return &payment.CaptureOutcome{
				Invoice:         &models.Invoice{ID: invoiceID, Status: models.InvoiceStatusPaid},
				AlreadyCaptured: true,
			}, nil
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/invoice/inv-1/capture", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://fe.example.com/orders", w.Header().Get("Location"))
}

func TestOrderStatusExpiredResponse(t *testing.T) {
	svc := &stubInvoiceService{
		orderStatus: func(ctx context.Context, customerID, invoiceID string) (*payment.OrderStatusResult, error) {
			return &payment.OrderStatusResult{Expired: true, Message: "Order was expired"}, nil
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/invoice/inv-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Order was expired", resp["message"])
	assert.Equal(t, "expired", resp["status"])
}

func TestOrderStatusApprovedResponse(t *testing.T) {
	svc := &stubInvoiceService{
		orderStatus: func(ctx context.Context, customerID, invoiceID string) (*payment.OrderStatusResult, error) {
			return &payment.OrderStatusResult{Approved: true, Message: "Order approved, waiting for capture"}, nil
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/invoice/inv-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "waiting for capture")
}

func TestOrderStatusRelaysGatewayBody(t *testing.T) {
	svc := &stubInvoiceService{
		orderStatus: func(ctx context.Context, customerID, invoiceID string) (*payment.OrderStatusResult, error) {
			return &payment.OrderStatusResult{
				HTTPStatus: http.StatusOK,
				Raw:        json.RawMessage(`{"id":"ORD-1","status":"CREATED"}`),
			}, nil
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payment/invoice/inv-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"ORD-1","status":"CREATED"}`, w.Body.String())
}

func TestInitiatePaymentEndpoint(t *testing.T) {
	svc := &stubInvoiceService{
		initiatePayment: func(ctx context.Context, customerID, invoiceID, origin string) (*payment.PaymentInitiation, error) {
			assert.Equal(t, "inv-1", invoiceID)
			assert.Equal(t, "https://fe.example.com", origin)
			return &payment.PaymentInitiation{
				Invoice:    &models.Invoice{ID: invoiceID, Status: models.InvoiceStatusUnpaid},
				Payment:    json.RawMessage(`{"id":"ORD-1"}`),
				PaymentURL: "https://www.sandbox.paypal.com/checkoutnow?token=ORD-1",
			}, nil
		},
	}
	router := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/invoice/inv-1/pay", nil)
	req.Header.Set("Origin", "https://fe.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "payment_url")
	assert.Contains(t, resp, "payment")
	assert.Contains(t, resp, "invoice")
}
