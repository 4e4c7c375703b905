// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/ledger"
)

const listenerBuffer = 256

// eventHub fans the committed events of the ledger out to websocket listeners.
type eventHub struct {
	ledger    *ledger.Ledger
	listeners map[chan []*bounty.Event]struct{}
	mu        sync.RWMutex
}

func newEventHub(ledger *ledger.Ledger) *eventHub {
	return &eventHub{
		ledger:    ledger,
		listeners: make(map[chan []*bounty.Event]struct{}),
	}
}

func (h *eventHub) Subscribe() chan []*bounty.Event {
	ch := make(chan []*bounty.Event, listenerBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners[ch] = struct{}{}
	return ch
}

func (h *eventHub) Unsubscribe(ch chan []*bounty.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.listeners, ch)
}

// DispatchLoop must be started after subscribing, so no committed event is missed.
func (h *eventHub) DispatchLoop(events <-chan []*bounty.Event, errCh <-chan error, done <-chan struct{}) {
	for {
		select {
		case evs := <-events:
			h.mu.RLock()
			for lsn := range h.listeners {
				select {
				case lsn <- evs:
				default: // listener is lagging, drop rather than stall the ledger
					metricDropped().Add(1)
				}
			}
			h.mu.RUnlock()
		case <-errCh:
			return
		case <-done:
			return
		}
	}
}
