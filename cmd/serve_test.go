package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-sync/internal/sync"
)

func TestServeMux_Health(t *testing.T) {
	mux := newServeMux(context.Background(), func(ctx context.Context) (*sync.Stats, error) {
		t.Fatal("run should not be called")
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestServeMux_WebhookTriggersRun(t *testing.T) {
	done := make(chan struct{})
	mux := newServeMux(context.Background(), func(ctx context.Context) (*sync.Stats, error) {
		close(done)
		return &sync.Stats{}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook/sync", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run was not triggered")
	}
}

func TestServeMux_ConcurrentRunRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	mux := newServeMux(context.Background(), func(ctx context.Context) (*sync.Stats, error) {
		close(started)
		<-release
		return &sync.Stats{}, nil
	})

	first := httptest.NewRecorder()
	mux.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/webhook/sync", nil))
	require.Equal(t, http.StatusAccepted, first.Code)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}

	second := httptest.NewRecorder()
	mux.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/webhook/sync", nil))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
}
