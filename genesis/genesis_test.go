// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
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

func newStater(t *testing.T) *state.Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewStater(db, 0)
}

func TestDevAccounts(t *testing.T) {
	accs := DevAccounts()
	require.Len(t, accs, 10)
	assert.Equal(t, thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed").String(), accs[0].Address.String())
	assert.Equal(t, accs, DevAccounts())
}

func TestDevnet(t *testing.T) {
	gen := NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.Equal(t, uint64(1526400000), gen.LaunchTime())
	assert.Equal(t, gen.ID(), NewDevnet().ID())

	stater := newStater(t)
	require.NoError(t, gen.Build(stater))

	st := stater.NewState()
	for _, a := range DevAccounts() {
		bal, err := st.GetBalance(a.Address)
		require.NoError(t, err)
		assert.Equal(t, DevAccountBalance, bal)
	}
}

const customYAML = `
name: bountynet
launchTime: 1700000000
accounts:
  - address: "0x0000000000000000000000000000000000000001"
    balance: "1000"
  - address: "0x0000000000000000000000000000000000000002"
    balance: "0x64"
bounties:
  - repoOwner: multiversx
    repoUrl: mx-contracts-rs
    issueId: 133
    proposer: "0x0000000000000000000000000000000000000001"
    amount: "100"
`

func TestCustomNetYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0o600))

	custom, err := LoadCustomGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "bountynet", custom.Name)
	require.Len(t, custom.Accounts, 2)
	assert.Equal(t, big.NewInt(100), (*big.Int)(custom.Accounts[1].Balance))

	gen, err := NewCustomNet(custom)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), gen.LaunchTime())

	stater := newStater(t)
	require.NoError(t, gen.Build(stater))
	st := stater.NewState()

	bal, err := st.GetBalance(thor.BytesToAddress([]byte{1}))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(900), bal)

	custody, err := st.GetBalance(builtin.Bounty.Address)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), custody)

	b, err := builtin.Bounty.Native(st, nil).Get(bounty.NewKey("multiversx", "mx-contracts-rs", 133))
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, bounty.StatusFunded, b.Status)
	assert.Equal(t, uint64(1700000000), b.CreatedAt)
}

func TestCustomNetJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	data := `{"launchTime": 1, "accounts": [{"address": "0x0000000000000000000000000000000000000003", "balance": "5"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	custom, err := LoadCustomGenesis(path)
	require.NoError(t, err)
	gen, err := NewCustomNet(custom)
	require.NoError(t, err)
	assert.Equal(t, "customnet", gen.Name())
	assert.NotEqual(t, NewDevnet().ID(), gen.ID())
}

func TestCustomNetInvalid(t *testing.T) {
	addr := thor.BytesToAddress([]byte{1})
	one := hexOrDecimal(1)
	zero := hexOrDecimal(0)

	tests := []struct {
		name string
		gen  *CustomGenesis
		err  string
	}{
		{"missing balance", &CustomGenesis{Accounts: []Account{{Address: addr}}}, "balance must be set"},
		{"zero balance", &CustomGenesis{Accounts: []Account{{Address: addr, Balance: zero}}}, "non-zero"},
		{"duplicated", &CustomGenesis{Accounts: []Account{{addr, one}, {addr, one}}}, "duplicated"},
		{"missing amount", &CustomGenesis{Bounties: []Bounty{{RepoOwner: "o", RepoURL: "r"}}}, "amount must be set"},
		{
			"unfunded proposer",
			&CustomGenesis{Bounties: []Bounty{{RepoOwner: "o", RepoURL: "r", Proposer: addr, Amount: one}}},
			"insufficient balance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomNet(tt.gen)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func hexOrDecimal(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}
