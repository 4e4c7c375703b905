// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger is the head of the bounty ledger: it executes invocations one at a time,
// commits their effects and feeds the resulting events to subscribers.
package ledger

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/genesis"
	"github.com/vechain/xbounty/kv"
	"github.com/vechain/xbounty/log"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

const metaBucket = kv.Bucket("m")

var (
	logger = log.WithContext("pkg", "ledger")

	genesisKey  = []byte("genesis")
	lastTimeKey = []byte("last-time")

	errGenesisMismatch = errors.New("genesis mismatch")
)

// Options of the ledger.
type Options struct {
	CacheSize int              // entries of the state cache
	Clock     func() time.Time // time source of invocations, defaults to time.Now
}

// Ledger executes bounty invocations over the persisted state.
type Ledger struct {
	db      kv.Store
	stater  *state.Stater
	genesis *genesis.Genesis
	clock   func() time.Time

	mu       sync.RWMutex
	lastTime uint64

	feed  event.Feed
	scope event.SubscriptionScope
}

// New opens the ledger stored in db, building the genesis state on first use.
func New(db kv.Store, gen *genesis.Genesis, opts Options) (*Ledger, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	l := &Ledger{
		db:       db,
		stater:   state.NewStater(db, opts.CacheSize),
		genesis:  gen,
		clock:    clock,
		lastTime: gen.LaunchTime(),
	}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) init() error {
	meta := metaBucket.NewGetter(l.db)
	stored, err := meta.Get(genesisKey)
	if err != nil {
		if !meta.IsNotFound(err) {
			return errors.Wrap(err, "read genesis id")
		}
		if err := l.genesis.Build(l.stater); err != nil {
			return errors.Wrap(err, "build genesis")
		}
		if err := metaBucket.NewPutter(l.db).Put(genesisKey, l.genesis.ID().Bytes()); err != nil {
			return errors.Wrap(err, "write genesis id")
		}
		logger.Info("genesis built", "name", l.genesis.Name(), "id", l.genesis.ID())
		return nil
	}
	if !bytes.Equal(stored, l.genesis.ID().Bytes()) {
		return errors.WithMessagef(errGenesisMismatch, "stored %v, want %v", thor.BytesToBytes32(stored), l.genesis.ID())
	}

	last, err := meta.Get(lastTimeKey)
	if err != nil {
		if meta.IsNotFound(err) {
			return nil
		}
		return errors.Wrap(err, "read last invocation time")
	}
	if len(last) != 8 {
		return errors.Errorf("invalid last invocation time %x", last)
	}
	if t := binary.BigEndian.Uint64(last); t > l.lastTime {
		l.lastTime = t
	}
	return nil
}

// Genesis returns the genesis the ledger was built from.
func (l *Ledger) Genesis() *genesis.Genesis {
	return l.genesis
}

// blockTime returns the invocation time, never earlier than the previous one.
// The time of the last committed invocation survives restarts.
func (l *Ledger) blockTime() uint64 {
	now := l.clock().Unix()
	if now > 0 && uint64(now) > l.lastTime {
		l.lastTime = uint64(now)
	}
	return l.lastTime
}

// Execute runs one invocation and commits its effects.
// Reverted invocations are reported in the receipt and leave no trace.
func (l *Ledger) Execute(call *runtime.Call) (*runtime.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	st := l.stater.NewState()
	blockTime := l.blockTime()
	receipt, err := runtime.New(st, blockTime).Execute(call)
	if err != nil {
		logger.Warn("failed to execute call", "method", call.Method, "err", err)
		return nil, err
	}
	if receipt.Reverted {
		return receipt, nil
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, errors.Wrap(err, "stage")
	}
	if err := stage.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], blockTime)
	if err := metaBucket.NewPutter(l.db).Put(lastTimeKey, ts[:]); err != nil {
		logger.Warn("failed to save last invocation time", "err", err)
	}
	metricCommitDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"method": call.Method})
	l.updateGauges(st)

	logger.Debug("call committed", "method", call.Method, "bounty", receipt.BountyID.AbbrevString(), "events", len(receipt.Events))
	if len(receipt.Events) > 0 {
		l.feed.Send(receipt.Events)
	}
	return receipt, nil
}

func (l *Ledger) updateGauges(st *state.State) {
	count, locked, err := builtin.Bounty.Native(st, nil).Stats()
	if err != nil {
		logger.Warn("failed to read bounty stats", "err", err)
		return
	}
	metricBountyCount().Set(int64(count))
	metricLocked().Set(gaugeValue(locked))
}

// gaugeValue clamps v into the range of a gauge.
func gaugeValue(v *big.Int) int64 {
	if v.IsInt64() {
		return v.Int64()
	}
	logger.Debug("value exceeds gauge range, clamped", "value", v)
	if v.Sign() < 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}

// SubscribeEvents registers ch to receive the events of every committed invocation, in commit order.
// Sends block until ch accepts, so subscribers should use a buffered channel and drain it promptly.
func (l *Ledger) SubscribeEvents(ch chan<- []*bounty.Event) event.Subscription {
	return l.scope.Track(l.feed.Subscribe(ch))
}

// Close unsubscribes all subscribers.
func (l *Ledger) Close() {
	l.scope.Close()
}

func (l *Ledger) view(fn func(st *state.State, contract *bounty.Contract) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := l.stater.NewState()
	return fn(st, builtin.Bounty.Native(st, nil))
}

// Bounty returns the bounty of the key, nil if it was never funded.
func (l *Ledger) Bounty(key bounty.Key) (b *bounty.Bounty, err error) {
	err = l.view(func(_ *state.State, contract *bounty.Contract) error {
		b, err = contract.Get(key)
		return err
	})
	return
}

// BountyByID returns the bounty of the id, nil if it was never funded.
func (l *Ledger) BountyByID(id thor.Bytes32) (b *bounty.Bounty, err error) {
	err = l.view(func(_ *state.State, contract *bounty.Contract) error {
		b, err = contract.GetByID(id)
		return err
	})
	return
}

// RawBounty returns the stored encoding of a bounty, empty if absent.
func (l *Ledger) RawBounty(id thor.Bytes32) (raw []byte, err error) {
	err = l.view(func(_ *state.State, contract *bounty.Contract) error {
		raw, err = contract.Raw(id)
		return err
	})
	return
}

// Balance returns the native balance of the address.
func (l *Ledger) Balance(addr thor.Address) (bal *big.Int, err error) {
	err = l.view(func(st *state.State, _ *bounty.Contract) error {
		bal, err = st.GetBalance(addr)
		return err
	})
	return
}

// SolverExternalID returns the external id last registered by the address.
func (l *Ledger) SolverExternalID(addr thor.Address) (id []byte, err error) {
	err = l.view(func(_ *state.State, contract *bounty.Contract) error {
		id, err = contract.SolverExternalID(addr)
		return err
	})
	return
}

// Stats returns the count of funded bounties and the value locked by open ones.
func (l *Ledger) Stats() (count uint64, locked *big.Int, err error) {
	err = l.view(func(_ *state.State, contract *bounty.Contract) error {
		count, locked, err = contract.Stats()
		return err
	})
	return
}
