package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider stands in for the payment provider's REST API.
func fakeProvider(t *testing.T, orderHandler http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":32400}`))
	})
	mux.HandleFunc("/v2/checkout/orders", orderHandler)
	mux.HandleFunc("/v2/checkout/orders/", orderHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func newTestGateway(baseURL string) *PayPalGateway {
	return NewPayPalGateway(GatewayConfig{
		ClientID: "client-id",
		Secret:   "client-secret",
		BaseURL:  baseURL,
	}, zap.NewNop())
}

func TestCreateOrder(t *testing.T) {
	var gotBody OrderPayload
	srv, tokenCalls := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ORD-1","status":"CREATED","links":[]}`))
	})

	gw := newTestGateway(srv.URL)
	payload := OrderPayload{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			ReferenceID: "TPY-inv-1",
			Amount:      UnitAmount{CurrencyCode: "USD", Value: "21.37"},
		}},
	}

	result, err := gw.CreateOrder(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", result.ID)
	assert.Equal(t, "CREATED", result.Status)
	assert.Equal(t, http.StatusCreated, result.HTTPStatus)
	assert.JSONEq(t, `{"id":"ORD-1","status":"CREATED","links":[]}`, string(result.Raw))

	assert.Equal(t, "CAPTURE", gotBody.Intent)
	assert.Equal(t, "21.37", gotBody.PurchaseUnits[0].Amount.Value)
	assert.Equal(t, 1, *tokenCalls)
}

func TestGetOrder(t *testing.T) {
	srv, _ := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/checkout/orders/ORD-1", r.URL.Path)
		w.Write([]byte(`{"id":"ORD-1","status":"APPROVED"}`))
	})

	gw := newTestGateway(srv.URL)
	result, err := gw.GetOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusApproved, result.Status)
}

func TestCaptureOrder(t *testing.T) {
	srv, _ := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/checkout/orders/ORD-1/capture", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ORD-1","status":"COMPLETED"}`))
	})

	gw := newTestGateway(srv.URL)
	result, err := gw.CaptureOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, result.Status)
}

func TestGatewayErrorCarriesIssue(t *testing.T) {
	srv, _ := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND","details":[{"issue":"INVALID_RESOURCE_ID","description":"Specified resource ID does not exist."}]}`))
	})

	gw := newTestGateway(srv.URL)
	_, err := gw.GetOrder(context.Background(), "ORD-GONE")
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusNotFound, gerr.HTTPStatus)
	assert.Equal(t, IssueInvalidResourceID, gerr.Issue)
	assert.Contains(t, string(gerr.Raw), "RESOURCE_NOT_FOUND")
}

func TestGatewayErrorWithoutDetails(t *testing.T) {
	srv, _ := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"name":"INTERNAL_SERVER_ERROR"}`))
	})

	gw := newTestGateway(srv.URL)
	_, err := gw.GetOrder(context.Background(), "ORD-1")

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Empty(t, gerr.Issue)
	assert.Equal(t, http.StatusInternalServerError, gerr.HTTPStatus)
}

func TestMissingCredentials(t *testing.T) {
	gw := NewPayPalGateway(GatewayConfig{BaseURL: "http://localhost:0"}, zap.NewNop())

	_, err := gw.GetOrder(context.Background(), "ORD-1")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTokenFailureAbortsCall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	})
	orderCalled := false
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		orderCalled = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	_, err := gw.GetOrder(context.Background(), "ORD-1")

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusUnauthorized, gerr.HTTPStatus)
	assert.False(t, orderCalled)
}
