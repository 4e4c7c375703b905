// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

// Genesis to build the initial ledger state.
type Genesis struct {
	builder    *Builder
	id         thor.Bytes32
	name       string
	launchTime uint64
}

func newGenesis(builder *Builder, name string) (*Genesis, error) {
	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name, builder.timestamp}, nil
}

// Build commits the genesis state into the store behind stater.
func (g *Genesis) Build(stater *state.Stater) error {
	_, err := g.builder.Build(stater)
	return err
}

// ID returns genesis ID.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the timestamp of the genesis, the lower bound of every invocation time.
func (g *Genesis) LaunchTime() uint64 {
	return g.launchTime
}
