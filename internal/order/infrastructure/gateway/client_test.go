package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)

		var req createOrderReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createOrderResp{ID: "order_abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_test", "secret_test")
	id, err := c.CreateOrder(context.Background(), 50000, "INR", "rcpt-1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", id)
}

func TestCreateOrder_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	_, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt-1")
	assert.ErrorContains(t, err, "status 401")
}

func TestCreateOrder_MissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(createOrderResp{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	_, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt-1")
	assert.ErrorContains(t, err, "missing order id")
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("http://unused", "key", "secret_test")

	good := sign("secret_test", "order_abc", "pay_xyz")
	assert.True(t, c.VerifySignature("order_abc", "pay_xyz", good))

	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", sign("wrong_secret", "order_abc", "pay_xyz")))
	assert.False(t, c.VerifySignature("order_abc", "pay_other", good))
	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", ""))
}
