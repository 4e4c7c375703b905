// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/lvldb"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

var (
	proposer = thor.BytesToAddress([]byte("proposer"))
	solver   = thor.BytesToAddress([]byte("solver"))
	key      = bounty.NewKey("multiversx", "mx-contracts-rs", 133)
)

func newRuntime(t *testing.T) (*Runtime, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db, 0).NewState()
	require.NoError(t, st.SetBalance(proposer, big.NewInt(1000)))
	return New(st, 1700000000), st
}

func balanceOf(t *testing.T, st *state.State, addr thor.Address) *big.Int {
	bal, err := st.GetBalance(addr)
	require.NoError(t, err)
	return bal
}

func TestExecuteLifecycle(t *testing.T) {
	rt, st := newRuntime(t)

	receipt, err := rt.Execute(&Call{Method: MethodFund, Caller: proposer, Value: big.NewInt(100), Key: key})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, key.ID(), receipt.BountyID)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, bounty.EventFund, receipt.Events[0].Name)
	assert.Equal(t, big.NewInt(900), balanceOf(t, st, proposer))
	assert.Equal(t, big.NewInt(100), balanceOf(t, st, builtin.Bounty.Address))

	receipt, err = rt.Execute(&Call{Method: MethodRegister, Caller: solver, Key: key, ExternalID: []byte("solver-gh")})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, bounty.EventClaim, receipt.Events[0].Name)

	receipt, err = rt.Execute(&Call{
		Method: MethodRelease,
		Caller: proposer,
		Key:    key,
		Solver: bounty.Solver{Address: solver, ExternalID: []byte("solver-gh")},
	})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, bounty.EventComplete, receipt.Events[0].Name)

	assert.Equal(t, big.NewInt(100), balanceOf(t, st, solver))
	assert.Equal(t, 0, balanceOf(t, st, builtin.Bounty.Address).Sign())

	b, err := builtin.Bounty.Native(st, nil).Get(key)
	require.NoError(t, err)
	assert.Equal(t, bounty.StatusCompleted, b.Status)
	assert.Equal(t, uint64(1700000000), b.CreatedAt)
}

func TestExecuteReverts(t *testing.T) {
	tests := []struct {
		name   string
		call   *Call
		reason string
	}{
		{
			"zero caller",
			&Call{Method: MethodFund, Value: big.NewInt(1), Key: key},
			"caller must not be zero",
		},
		{
			"contract caller",
			&Call{Method: MethodFund, Caller: builtin.Bounty.Address, Value: big.NewInt(1), Key: key},
			"caller must not be the contract",
		},
		{
			"zero amount",
			&Call{Method: MethodFund, Caller: proposer, Key: key},
			"payment amount must be greater than 0",
		},
		{
			"insufficient balance",
			&Call{Method: MethodFund, Caller: proposer, Value: big.NewInt(1001), Key: key},
			"insufficient balance",
		},
		{
			"value on register",
			&Call{Method: MethodRegister, Caller: solver, Value: big.NewInt(1), Key: key},
			"method does not accept value",
		},
		{
			"register absent",
			&Call{Method: MethodRegister, Caller: solver, Key: key},
			"bounty does not exist",
		},
		{
			"release absent",
			&Call{Method: MethodRelease, Caller: proposer, Key: key},
			"bounty does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, st := newRuntime(t)
			receipt, err := rt.Execute(tt.call)
			require.NoError(t, err)
			assert.True(t, receipt.Reverted)
			assert.Equal(t, tt.reason, receipt.Reason)
			assert.Empty(t, receipt.Events)

			assert.Equal(t, big.NewInt(1000), balanceOf(t, st, proposer))
			assert.Equal(t, 0, balanceOf(t, st, builtin.Bounty.Address).Sign())
		})
	}
}

func TestRevertedFundReturnsValue(t *testing.T) {
	rt, st := newRuntime(t)
	fund := &Call{Method: MethodFund, Caller: proposer, Value: big.NewInt(50), Key: key}

	receipt, err := rt.Execute(fund)
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	receipt, err = rt.Execute(fund)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "bounty already exists", receipt.Reason)

	assert.Equal(t, big.NewInt(950), balanceOf(t, st, proposer))
	assert.Equal(t, big.NewInt(50), balanceOf(t, st, builtin.Bounty.Address))
}

func TestContractCannotCall(t *testing.T) {
	rt, st := newRuntime(t)
	custody := builtin.Bounty.Address
	thief := thor.BytesToAddress([]byte("thief"))

	receipt, err := rt.Execute(&Call{Method: MethodFund, Caller: proposer, Value: big.NewInt(100), Key: key})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	other := bounty.NewKey("multiversx", "mx-contracts-rs", 134)
	calls := []*Call{
		{Method: MethodFund, Caller: custody, Value: big.NewInt(100), Key: other},
		{Method: MethodRegister, Caller: custody, Key: key, ExternalID: []byte("x")},
		{Method: MethodRelease, Caller: custody, Key: other, Solver: bounty.Solver{Address: thief}},
	}
	for _, call := range calls {
		receipt, err := rt.Execute(call)
		require.NoError(t, err)
		assert.True(t, receipt.Reverted, call.Method)
		assert.Equal(t, "caller must not be the contract", receipt.Reason, call.Method)
	}

	assert.Equal(t, big.NewInt(900), balanceOf(t, st, proposer))
	assert.Equal(t, big.NewInt(100), balanceOf(t, st, custody))
	assert.Equal(t, 0, balanceOf(t, st, thief).Sign())

	b, err := builtin.Bounty.Native(st, nil).Get(other)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestTransferToSelf(t *testing.T) {
	rt, st := newRuntime(t)

	require.NoError(t, rt.transfer(proposer, proposer, big.NewInt(100)))
	assert.Equal(t, big.NewInt(1000), balanceOf(t, st, proposer))
}

func TestMalformedCall(t *testing.T) {
	rt, _ := newRuntime(t)

	_, err := rt.Execute(&Call{Method: "claim", Caller: proposer, Key: key})
	assert.ErrorContains(t, err, "unknown method")

	_, err = rt.Execute(&Call{Method: MethodFund, Caller: proposer, Value: big.NewInt(-1), Key: key})
	assert.ErrorContains(t, err, "negative value")

	tooLarge := new(big.Int).Add(math.MaxBig256, big.NewInt(1))
	_, err = rt.Execute(&Call{Method: MethodFund, Caller: proposer, Value: tooLarge, Key: key})
	assert.ErrorContains(t, err, "too large")
}

func TestIsPayable(t *testing.T) {
	assert.True(t, IsPayable(MethodFund))
	assert.False(t, IsPayable(MethodRegister))
	assert.False(t, IsPayable(MethodRelease))
	assert.False(t, IsPayable("unknown"))
}
