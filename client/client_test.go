// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/xbounty/api"
	"github.com/vechain/xbounty/api/bounties"
	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/genesis"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/lvldb"
)

var (
	proposer = genesis.DevAccounts()[0].Address
	solver   = genesis.DevAccounts()[1].Address
)

func newTestClient(t *testing.T) (*ledger.Ledger, *Client) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := ledger.New(db, genesis.NewDevnet(), ledger.Options{})
	require.NoError(t, err)

	handler, closeFunc := api.New(l, api.Options{AllowedOrigins: "*"})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeFunc()
		ts.Close()
	})
	return l, New(ts.URL + "/")
}

func TestClientLifecycle(t *testing.T) {
	l, c := newTestClient(t)
	key := bounty.NewKey("multiversx", "mx-contracts-rs", 133)

	gene, err := c.Genesis()
	require.NoError(t, err)
	assert.Equal(t, l.Genesis().ID(), gene.ID)
	cached, err := c.Genesis()
	require.NoError(t, err)
	assert.Same(t, gene, cached)

	_, err = c.GetBounty("multiversx", "mx-contracts-rs", 133)
	assert.ErrorIs(t, err, ErrNotFound)

	receipt, err := c.Fund(&bounties.FundRequest{
		RepoOwner: "multiversx", RepoURL: "mx-contracts-rs", IssueID: 133,
		Caller: proposer, Value: uint256.NewInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, key.ID(), receipt.BountyID)

	_, err = c.Register(&bounties.RegisterRequest{
		RepoOwner: "multiversx", RepoURL: "mx-contracts-rs", IssueID: 133,
		Caller: solver, ExternalID: "solver-gh",
	})
	require.NoError(t, err)

	b, err := c.GetBounty("multiversx", "mx-contracts-rs", 133)
	require.NoError(t, err)
	assert.Equal(t, "Registered", b.Status)

	account, err := c.GetAccount(builtin.Bounty.Address)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), (*big.Int)(account.Balance))

	_, err = c.Release(&bounties.ReleaseRequest{
		RepoOwner: "multiversx", RepoURL: "mx-contracts-rs", IssueID: 133,
		Caller: proposer, Solver: solver, SolverExternalID: "solver-gh",
	})
	require.NoError(t, err)

	b, err = c.GetBountyByID(key.ID())
	require.NoError(t, err)
	assert.Equal(t, "Completed", b.Status)

	raw, err := c.GetRawBounty(key.ID())
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Raw)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Count)

	account, err = c.GetAccount(solver)
	require.NoError(t, err)
	want := new(big.Int).Add(genesis.DevAccountBalance, big.NewInt(100))
	assert.Equal(t, 0, want.Cmp((*big.Int)(account.Balance)))
	assert.Equal(t, "solver-gh", account.SolverID)
}

func TestClientRevert(t *testing.T) {
	_, c := newTestClient(t)

	req := &bounties.FundRequest{RepoOwner: "o", RepoURL: "r", IssueID: 1, Caller: proposer, Value: uint256.NewInt(50)}
	_, err := c.Fund(req)
	require.NoError(t, err)

	receipt, err := c.Fund(req)
	var revertErr *RevertError
	require.True(t, errors.As(err, &revertErr))
	assert.Equal(t, "bounty already exists", revertErr.Receipt.Reason)
	assert.True(t, receipt.Reverted)

	_, err = c.Release(&bounties.ReleaseRequest{RepoOwner: "o", RepoURL: "r", IssueID: 2, Caller: proposer, Solver: solver})
	require.True(t, errors.As(err, &revertErr))
	assert.Equal(t, "bounty does not exist", revertErr.Receipt.Reason)
}

func TestClientNot200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.GetStats()
	assert.ErrorIs(t, err, ErrNot200Status)

	_, err = c.Fund(&bounties.FundRequest{})
	assert.ErrorIs(t, err, ErrNot200Status)
}

func TestSubscribeEvents(t *testing.T) {
	_, c := newTestClient(t)
	key := bounty.NewKey("o", "r", 1)
	id := key.ID()

	events, closeFunc, err := c.SubscribeEvents(&id)
	require.NoError(t, err)
	defer closeFunc()

	_, err = c.Fund(&bounties.FundRequest{RepoOwner: "o", RepoURL: "r", IssueID: 2, Caller: proposer, Value: uint256.NewInt(1)})
	require.NoError(t, err)
	_, err = c.Fund(&bounties.FundRequest{RepoOwner: "o", RepoURL: "r", IssueID: 1, Caller: proposer, Value: uint256.NewInt(7)})
	require.NoError(t, err)

	select {
	case ev := <-events:
		require.NoError(t, ev.Error)
		assert.Equal(t, id, ev.Data.BountyID)
		assert.Equal(t, big.NewInt(7), (*big.Int)(ev.Data.Amount))
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}
