// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/xbounty/api/accounts"
	"github.com/vechain/xbounty/api/bounties"
	"github.com/vechain/xbounty/api/middleware"
	"github.com/vechain/xbounty/api/subscriptions"
	"github.com/vechain/xbounty/api/utils"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/log"
	"github.com/vechain/xbounty/thor"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	Timeout              time.Duration
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// GenesisInfo describes the genesis the node runs on.
type GenesisInfo struct {
	ID         thor.Bytes32 `json:"id"`
	Name       string       `json:"name"`
	LaunchTime uint64       `json:"launchTime"`
}

// New return api router
func New(ledger *ledger.Ledger, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	gene := ledger.Genesis()
	router.Path("/genesis").
		Methods(http.MethodGet).
		Name("GET /genesis").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, &GenesisInfo{
				ID:         gene.ID(),
				Name:       gene.Name(),
				LaunchTime: gene.LaunchTime(),
			})
		}))

	bounties.New(ledger).
		Mount(router, "/bounties")
	accounts.New(ledger).
		Mount(router, "/accounts")
	subs := subscriptions.New(ledger, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(middleware.HandleXGenesisID(gene.ID().String()))
	router.Use(middleware.RequestBodyLimit)
	if opts.Timeout > 0 {
		router.Use(middleware.HandleAPITimeout(opts.Timeout))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
