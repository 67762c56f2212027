package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	ok := Health(pingerFunc(func(context.Context) error { return nil }), log)
	rec := httptest.NewRecorder()
	ok(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, logs.Len())

	down := Health(pingerFunc(func(context.Context) error { return errors.New("connection refused") }), log)
	rec = httptest.NewRecorder()
	down(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("health check failed").Len())
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /x/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = pathID(r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/42", nil))
	assert.NoError(t, gotErr)
	assert.Equal(t, int64(42), got)

	for _, bad := range []string{"/x/0", "/x/-3", "/x/abc"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, bad, nil))
		assert.Error(t, gotErr, bad)
	}
}
