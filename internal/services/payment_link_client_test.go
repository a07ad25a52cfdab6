package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLink(t *testing.T) {
	var seen paymentLinkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(paymentLinkResponse{URL: "https://pagos.test/l/abc123"})
	}))
	defer srv.Close()

	client := NewPaymentLinkClient(srv.URL, "test-key")
	url, err := client.CreateLink(3000.00, "MXN", "payment-42")
	require.NoError(t, err)
	assert.Equal(t, "https://pagos.test/l/abc123", url)
	assert.Equal(t, 3000.00, seen.Amount)
	assert.Equal(t, "MXN", seen.Currency)
	assert.Equal(t, "payment-42", seen.Reference)
}

func TestCreateLinkProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewPaymentLinkClient(srv.URL, "test-key")
	_, err := client.CreateLink(100, "MXN", "ref")
	assert.Error(t, err)
}

func TestCreateLinkRequiresConfiguration(t *testing.T) {
	client := NewPaymentLinkClient("", "")
	_, err := client.CreateLink(100, "MXN", "ref")
	assert.Error(t, err)
}
