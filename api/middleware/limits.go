// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"net/http"
	"time"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 200 * 1024

// HandleAPITimeout cancels the request context once timeout elapses.
func HandleAPITimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestBodyLimit rejects bodies larger than MaxBodySize.
func RequestBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		next.ServeHTTP(w, r)
	})
}

// HandleXGenesisID sets the genesis id header on every response and rejects requests
// carrying a different one.
func HandleXGenesisID(genesisID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual := r.Header.Get("x-genesis-id")
			if actual == "" {
				actual = r.URL.Query().Get("x-genesis-id")
			}
			w.Header().Set("x-genesis-id", genesisID)
			if actual != "" && actual != genesisID {
				http.Error(w, "genesis id mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
