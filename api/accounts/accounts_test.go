// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/genesis"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/lvldb"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/thor"
)

func newTestServer(t *testing.T) (*ledger.Ledger, *httptest.Server) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := ledger.New(db, genesis.NewDevnet(), ledger.Options{})
	require.NoError(t, err)

	router := mux.NewRouter()
	New(l).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return l, ts
}

func getAccount(t *testing.T, ts *httptest.Server, addr string) (int, *Account) {
	res, err := http.Get(ts.URL + "/accounts/" + addr) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return res.StatusCode, nil
	}
	var acc Account
	require.NoError(t, json.Unmarshal(data, &acc))
	return res.StatusCode, &acc
}

func TestGetAccount(t *testing.T) {
	l, ts := newTestServer(t)
	dev := genesis.DevAccounts()

	code, acc := getAccount(t, ts, dev[0].Address.String())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, genesis.DevAccountBalance.Cmp((*big.Int)(acc.Balance)))
	assert.False(t, acc.Custody)
	assert.Empty(t, acc.SolverID)

	code, acc = getAccount(t, ts, thor.BytesToAddress([]byte("nobody")).String())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, (*big.Int)(acc.Balance).Sign())

	key := bounty.NewKey("owner", "repo", 7)
	receipt, err := l.Execute(&runtime.Call{Method: runtime.MethodFund, Caller: dev[0].Address, Value: big.NewInt(1000), Key: key})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)
	receipt, err = l.Execute(&runtime.Call{Method: runtime.MethodRegister, Caller: dev[1].Address, Key: key, ExternalID: []byte("gh-1")})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	code, acc = getAccount(t, ts, builtin.Bounty.Address.String())
	require.Equal(t, http.StatusOK, code)
	assert.True(t, acc.Custody)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(acc.Balance))

	code, acc = getAccount(t, ts, dev[1].Address.String())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "gh-1", acc.SolverID)
}

func TestGetAccountBadAddress(t *testing.T) {
	_, ts := newTestServer(t)

	code, _ := getAccount(t, ts, "0x1234")
	assert.Equal(t, http.StatusBadRequest, code)
}
