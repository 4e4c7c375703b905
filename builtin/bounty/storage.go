// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/xbounty/builtin/solidity"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

var (
	slotBounties   = nameToSlot("bounties")
	slotSolverIDs  = nameToSlot("solvers")
	slotLocked     = nameToSlot("locked")
	slotBountySize = nameToSlot("bounties-size")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// storage represents the root storage for the bounty contract.
type storage struct {
	context   *solidity.Context
	bounties  *solidity.Mapping[thor.Bytes32, *Bounty] // bounty id -> record
	solverIDs *solidity.Mapping[thor.Address, []byte]  // solver address -> last registered external id
	locked    *solidity.Uint256                        // total value in custody for open bounties
	size      *solidity.Uint256                        // count of funded bounties
}

func newStorage(addr thor.Address, state *state.State) *storage {
	context := solidity.NewContext(addr, state)
	return &storage{
		context:   context,
		bounties:  solidity.NewMapping[thor.Bytes32, *Bounty](context, slotBounties),
		solverIDs: solidity.NewMapping[thor.Address, []byte](context, slotSolverIDs),
		locked:    solidity.NewUint256(context, slotLocked),
		size:      solidity.NewUint256(context, slotBountySize),
	}
}

func (s *storage) getBounty(id thor.Bytes32) (*Bounty, error) {
	b, err := s.bounties.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bounty")
	}
	return b, nil
}

func (s *storage) setBounty(id thor.Bytes32, b *Bounty) error {
	if err := s.bounties.Set(id, b); err != nil {
		return errors.Wrap(err, "failed to set bounty")
	}
	return nil
}

func (s *storage) rawBounty(id thor.Bytes32) ([]byte, error) {
	raw, err := s.bounties.Raw(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read bounty")
	}
	return raw, nil
}

func (s *storage) getSolverID(addr thor.Address) ([]byte, error) {
	id, err := s.solverIDs.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get solver id")
	}
	return id, nil
}

func (s *storage) setSolverID(addr thor.Address, externalID []byte) error {
	if err := s.solverIDs.Set(addr, externalID); err != nil {
		return errors.Wrap(err, "failed to set solver id")
	}
	return nil
}

func (s *storage) lock(amount *big.Int) error {
	if err := s.locked.Add(amount); err != nil {
		return errors.Wrap(err, "failed to lock amount")
	}
	return s.size.Add(big.NewInt(1))
}

func (s *storage) unlock(amount *big.Int) error {
	if err := s.locked.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to unlock amount")
	}
	return nil
}
