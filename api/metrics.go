// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/xbounty/metrics"
)

var (
	metricHTTPReqCounter       = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration      = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)
	metricActiveWebsocketCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

// metricsResponseWriter is a wrapper around http.ResponseWriter that captures the status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{w, http.StatusOK}
}

func (m *metricsResponseWriter) WriteHeader(code int) {
	m.statusCode = code
	m.ResponseWriter.WriteHeader(code)
}

func (m *metricsResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := m.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	m.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// routeName turns "GET /bounties/{id}" into "bounties_id".
func routeName(name string) string {
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("{", "", "}", "").Replace(name)
	return strings.ReplaceAll(strings.Trim(name, "/"), "/", "_")
}

// metricsMiddleware is a middleware that records metrics for each request.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt := mux.CurrentRoute(r)

		var (
			enabled   = false
			name      = ""
			subscribe = ""
		)

		// all named routes
		if rt != nil && rt.GetName() != "" {
			enabled = true
			name = routeName(rt.GetName())
			if strings.HasPrefix(rt.GetName(), "WS ") {
				subscribe = strings.TrimPrefix(name, "subscriptions_")
			}
		}

		now := time.Now()
		mrw := newMetricsResponseWriter(w)
		if subscribe != "" {
			metricActiveWebsocketCount().AddWithLabel(1, map[string]string{"subject": subscribe})
		}

		next.ServeHTTP(mrw, r)

		if subscribe != "" {
			metricActiveWebsocketCount().AddWithLabel(-1, map[string]string{"subject": subscribe})
		} else if enabled {
			labels := map[string]string{"name": name, "code": strconv.Itoa(mrw.statusCode), "method": r.Method}
			metricHTTPReqCounter().AddWithLabel(1, labels)
			metricHTTPReqDuration().ObserveWithLabels(time.Since(now).Milliseconds(), labels)
		}
	})
}
