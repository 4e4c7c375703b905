// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"errors"
	"net"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/xbounty/log"
)

var logger = log.WithContext("pkg", "httpserver")

// serve runs srv on listener until the returned func is called.
func serve(name string, srv *http.Server, listener net.Listener) func() {
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return func() {
		srv.Close()
		if err := g.Wait(); err != nil {
			logger.Warn("server stopped with error", "server", name, "err", err)
		}
	}
}

func StartAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, pkgerrors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	return "http://" + listener.Addr().String() + "/", serve("api", srv, listener), nil
}
