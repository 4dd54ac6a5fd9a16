package debounce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("api"))
		assert.Equal(t, "alice@acme.com", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"debounce":{"result":"Deliverable"},"success":"1"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	verdict, err := client.Validate(context.Background(), "alice@acme.com")

	require.NoError(t, err)
	assert.Equal(t, VerdictDeliverable, verdict)
	assert.True(t, verdict.Deliverable())
}

func TestValidate_EmptyEmailSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	verdict, err := client.Validate(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, Verdict(""), verdict)
	assert.False(t, verdict.Deliverable())
	assert.Zero(t, calls.Load())
}

func TestValidate_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`internal error`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Validate(context.Background(), "alice@acme.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestValidate_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Validate(context.Background(), "alice@acme.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestValidate_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Validate(context.Background(), "alice@acme.com")

	require.Error(t, err)
}

func TestVerdict_Deliverable(t *testing.T) {
	t.Parallel()

	assert.True(t, VerdictAcceptAll.Deliverable())
	assert.True(t, VerdictDeliverable.Deliverable())
	assert.True(t, VerdictSafeToSend.Deliverable())

	// The set is closed and case-sensitive.
	assert.False(t, Verdict("Risky").Deliverable())
	assert.False(t, Verdict("deliverable").Deliverable())
	assert.False(t, Verdict("Invalid").Deliverable())
	assert.False(t, Verdict("").Deliverable())
}
