// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/genesis"
	"github.com/vechain/xbounty/lvldb"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/thor"
)

var (
	proposer = genesis.DevAccounts()[0].Address
	solver   = genesis.DevAccounts()[1].Address
	key      = bounty.NewKey("multiversx", "mx-contracts-rs", 133)
)

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := New(db, genesis.NewDevnet(), Options{Clock: fixedClock(1700000000)})
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func fundCall(amount int64) *runtime.Call {
	return &runtime.Call{Method: runtime.MethodFund, Caller: proposer, Value: big.NewInt(amount), Key: key}
}

func TestLedgerLifecycle(t *testing.T) {
	l := newLedger(t)

	receipt, err := l.Execute(fundCall(100))
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	b, err := l.Bounty(key)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, uint64(1700000000), b.CreatedAt)

	byID, err := l.BountyByID(key.ID())
	require.NoError(t, err)
	assert.Equal(t, b, byID)

	receipt, err = l.Execute(&runtime.Call{Method: runtime.MethodRegister, Caller: solver, Key: key, ExternalID: []byte("solver-gh")})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	id, err := l.SolverExternalID(solver)
	require.NoError(t, err)
	assert.Equal(t, []byte("solver-gh"), id)

	receipt, err = l.Execute(&runtime.Call{
		Method: runtime.MethodRelease,
		Caller: proposer,
		Key:    key,
		Solver: bounty.Solver{Address: solver, ExternalID: []byte("solver-gh")},
	})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	bal, err := l.Balance(solver)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Add(genesis.DevAccountBalance, big.NewInt(100)), bal)

	count, locked, err := l.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	assert.Equal(t, 0, locked.Sign())
}

func TestLedgerRevertLeavesNoTrace(t *testing.T) {
	l := newLedger(t)

	_, err := l.Execute(fundCall(50))
	require.NoError(t, err)

	receipt, err := l.Execute(fundCall(50))
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "bounty already exists", receipt.Reason)

	bal, err := l.Balance(proposer)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(genesis.DevAccountBalance, big.NewInt(50)), bal)

	custody, err := l.Balance(builtin.Bounty.Address)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), custody)
}

func TestLedgerPersistence(t *testing.T) {
	path := t.TempDir()
	gen := genesis.NewDevnet()

	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	l, err := New(db, gen, Options{})
	require.NoError(t, err)
	_, err = l.Execute(fundCall(10))
	require.NoError(t, err)
	l.Close()
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	l, err = New(db, gen, Options{})
	require.NoError(t, err)
	b, err := l.Bounty(key)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, big.NewInt(10), b.Amount)

	// genesis is not applied twice
	bal, err := l.Balance(proposer)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(genesis.DevAccountBalance, big.NewInt(10)), bal)

	other, err := genesis.NewCustomNet(&genesis.CustomGenesis{LaunchTime: 1})
	require.NoError(t, err)
	_, err = New(db, other, Options{})
	assert.ErrorIs(t, err, errGenesisMismatch)
}

func TestLedgerEvents(t *testing.T) {
	l := newLedger(t)

	ch := make(chan []*bounty.Event, 10)
	sub := l.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	_, err := l.Execute(fundCall(100))
	require.NoError(t, err)
	// reverted calls publish nothing
	_, err = l.Execute(fundCall(100))
	require.NoError(t, err)
	_, err = l.Execute(&runtime.Call{Method: runtime.MethodRegister, Caller: solver, Key: key})
	require.NoError(t, err)

	first := <-ch
	require.Len(t, first, 1)
	assert.Equal(t, bounty.EventFund, first[0].Name)

	second := <-ch
	require.Len(t, second, 1)
	assert.Equal(t, bounty.EventClaim, second[0].Name)

	select {
	case evs := <-ch:
		t.Fatalf("unexpected events %v", evs)
	default:
	}
}

func TestLedgerConcurrentExecution(t *testing.T) {
	l := newLedger(t)
	_, err := l.Execute(fundCall(100))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, acc := range genesis.DevAccounts()[1:] {
		wg.Add(1)
		go func(addr thor.Address) {
			defer wg.Done()
			receipt, err := l.Execute(&runtime.Call{Method: runtime.MethodRegister, Caller: addr, Key: key})
			assert.NoError(t, err)
			if !receipt.Reverted {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(acc.Address)
	}
	wg.Wait()

	b, err := l.Bounty(key)
	require.NoError(t, err)
	assert.Len(t, b.Solvers, 9)
	assert.Equal(t, 9, success)
}

func TestBlockTimeMonotonic(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	now := int64(1700000000)
	l, err := New(db, genesis.NewDevnet(), Options{Clock: func() time.Time { return time.Unix(now, 0) }})
	require.NoError(t, err)

	assert.Equal(t, uint64(1700000000), l.blockTime())
	now = 1600000000
	assert.Equal(t, uint64(1700000000), l.blockTime())
	now = 1700000005
	assert.Equal(t, uint64(1700000005), l.blockTime())
}

func TestBlockTimeSurvivesRestart(t *testing.T) {
	path := t.TempDir()
	gen := genesis.NewDevnet()

	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	l, err := New(db, gen, Options{Clock: fixedClock(1700000000)})
	require.NoError(t, err)
	_, err = l.Execute(fundCall(10))
	require.NoError(t, err)
	l.Close()
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	// clock moved backwards while the node was down
	l, err = New(db, gen, Options{Clock: fixedClock(1600000000)})
	require.NoError(t, err)
	defer l.Close()

	other := bounty.NewKey("multiversx", "mx-contracts-rs", 134)
	receipt, err := l.Execute(&runtime.Call{Method: runtime.MethodFund, Caller: proposer, Value: big.NewInt(10), Key: other})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	b, err := l.Bounty(other)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, uint64(1700000000), b.CreatedAt)
}

func TestGaugeValue(t *testing.T) {
	assert.Equal(t, int64(100), gaugeValue(big.NewInt(100)))
	assert.Equal(t, int64(math.MaxInt64), gaugeValue(genesis.DevAccountBalance))
	assert.Equal(t, int64(math.MinInt64), gaugeValue(new(big.Int).Neg(genesis.DevAccountBalance)))
}
