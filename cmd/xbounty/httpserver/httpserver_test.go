// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/xbounty/metrics"
)

func TestAPIServer(t *testing.T) {
	url, closeFunc, err := StartAPIServer("localhost:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "pong")
	}))
	require.NoError(t, err)

	res, err := http.Get(url + "ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "pong", string(body))

	closeFunc()
	_, err = http.Get(url + "ping")
	assert.Error(t, err)
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(1)

	url, closeFunc, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "xbounty_httpserver_test_count 1")
}

func TestAdminServer(t *testing.T) {
	var (
		level   slog.LevelVar
		apiLogs atomic.Bool
	)
	url, closeFunc, err := StartAdminServer("localhost:0", &level, &apiLogs)
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Post(url+"/apilogs", "application/json", strings.NewReader(`{"enabled":true}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, apiLogs.Load())
}

func TestListenError(t *testing.T) {
	_, _, err := StartAPIServer("256.0.0.1:bad", http.NotFoundHandler())
	assert.Error(t, err)
}
