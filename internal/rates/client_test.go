package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"RUB":91.5,"USD":1}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")

	rates, err := client.Rates(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.92, rates["EUR"])
	assert.Equal(t, 91.5, rates["RUB"])
}

func TestClientRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	rate, err := client.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.92, rate)

	_, err = client.Rate(context.Background(), "USD", "XXX")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Rates(context.Background(), "USD")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Rates(context.Background(), "USD")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).Rates(context.Background(), "USD")
	assert.ErrorIs(t, err, ErrUnavailable)
}
