// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/xbounty/api/bounties"
	"github.com/vechain/xbounty/api/utils"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/log"
	"github.com/vechain/xbounty/thor"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	hub      *eventHub
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex // guards done against wg.Add
}

func New(ledger *ledger.Ledger, allowedOrigins []string) *Subscriptions {
	s := &Subscriptions{
		hub: newEventHub(ledger),
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin || allowedOrigin == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}

	ch := make(chan []*bounty.Event, listenerBuffer)
	sub := ledger.SubscribeEvents(ch)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer sub.Unsubscribe()
		s.hub.DispatchLoop(ch, sub.Err(), s.done)
	}()
	return s
}

func (s *Subscriptions) handleSubjectEvent(w http.ResponseWriter, req *http.Request) error {
	var filter *thor.Bytes32
	if id := req.URL.Query().Get("id"); id != "" {
		parsed, err := thor.ParseBytes32(id)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "id"))
		}
		filter = &parsed
	}

	if !s.track() {
		return utils.HTTPError(errors.New("service shutdown"), http.StatusServiceUnavailable)
	}
	defer s.wg.Done()

	// listen before the upgrade completes, the client may act as soon as it is connected
	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	if err := s.pipe(conn, ch, filter); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, ch <-chan []*bounty.Event, filter *thor.Bytes32) error {
	defer conn.Close()

	// the client sends nothing but control frames, reading is only needed to process them
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "service shutdown"),
				time.Now().Add(writeWait))
		case <-closed:
			return nil
		case events := <-ch:
			for _, ev := range events {
				if filter != nil && ev.BountyID != *filter {
					continue
				}
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteJSON(bounties.ConvertEvent(ev)); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// track registers a connection unless the subscriptions are closed.
func (s *Subscriptions) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return false
	default:
	}
	s.wg.Add(1)
	return true
}

// Close closes all open connections and stops dispatching events.
func (s *Subscriptions) Close() {
	s.mu.Lock()
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubjectEvent))
}
