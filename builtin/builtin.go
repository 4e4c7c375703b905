// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

// Builtin contracts binding.
var (
	Bounty = &bountyContract{newContract("Bounty")}
)

type contract struct {
	name    string
	Address thor.Address
}

// newContract derives the contract address from its name.
func newContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}

type bountyContract struct{ *contract }

// Native returns the native implementation operating on the given state.
func (b *bountyContract) Native(state *state.State, emitter bounty.Emitter) *bounty.Contract {
	return bounty.New(b.Address, state, emitter)
}
