// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/xbounty/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger                     { return m }
func (m *mockLogger) Trace(_ string, _ ...any)                     {}
func (m *mockLogger) Debug(_ string, _ ...any)                     {}
func (m *mockLogger) Error(_ string, _ ...any)                     {}
func (m *mockLogger) Crit(_ string, _ ...any)                      {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Handler() slog.Handler                        { return nil }

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		shouldLog bool
	}{
		{
			name:      "enabled",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
			enabled:   true,
			shouldLog: true,
		},
		{
			name:      "disabled",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
			shouldLog: false,
		},
		{
			name: "slow request",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(15 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			threshold: 5 * time.Millisecond,
			shouldLog: true,
		},
		{
			name:      "server error",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			shouldLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			enabled := &atomic.Bool{}
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, enabled, tt.threshold)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "/bounties/fund?x=1", strings.NewReader(`{"a":1}`))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			assert.Contains(t, logger.loggedData, "URI")
			assert.Contains(t, logger.loggedData, "/bounties/fund?x=1")
			assert.Contains(t, logger.loggedData, `{"a":1}`)
		})
	}
}

func TestRequestBodyIsPreserved(t *testing.T) {
	enabled := &atomic.Bool{}
	enabled.Store(true)

	var got string
	handler := RequestLoggerMiddleware(&mockLogger{}, enabled, 0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("body")))
	assert.Equal(t, "body", got)
}

func TestHandleAPITimeout(t *testing.T) {
	handler := HandleAPITimeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestBodyLimit(t *testing.T) {
	handler := RequestBodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}
	}))
	rec := httptest.NewRecorder()
	body := strings.NewReader(strings.Repeat("a", MaxBodySize+1))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleXGenesisID(t *testing.T) {
	handler := HandleXGenesisID("0xabc")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0xabc", rec.Header().Get("x-genesis-id"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-genesis-id", "0xdef")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
