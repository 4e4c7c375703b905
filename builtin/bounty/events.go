// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"math/big"

	"github.com/vechain/xbounty/thor"
)

// Event names.
const (
	EventFund     = "fund"
	EventClaim    = "claim"
	EventComplete = "complete"
)

// Topics are the keccak hashes of the event signatures, the way logs are indexed on chain.
var (
	FundTopic     = thor.Keccak256([]byte("fund(bytes,bytes,uint64,uint256,address)"))
	ClaimTopic    = thor.Keccak256([]byte("claim(bytes,bytes,uint64,address,bytes)"))
	CompleteTopic = thor.Keccak256([]byte("complete(bytes,bytes,uint64,address,bytes,uint256)"))
)

// Event is a notification of a successful transition.
// Amount is set for fund and complete, Proposer for fund, Solver for claim and complete.
type Event struct {
	Name      string
	Topic     thor.Bytes32
	Contract  thor.Address
	BountyID  thor.Bytes32
	RepoOwner []byte
	RepoURL   []byte
	IssueID   uint64
	Amount    *big.Int
	Proposer  *thor.Address
	Solver    *Solver
}

// Emitter receives the events of an invocation.
type Emitter interface {
	Emit(ev *Event)
}

type noopEmitter struct{}

func (noopEmitter) Emit(*Event) {}

func (b *Contract) newEvent(name string, topic thor.Bytes32, key Key) *Event {
	return &Event{
		Name:      name,
		Topic:     topic,
		Contract:  b.addr,
		BountyID:  key.ID(),
		RepoOwner: key.RepoOwner,
		RepoURL:   key.RepoURL,
		IssueID:   key.IssueID,
	}
}

func (b *Contract) emitFund(key Key, amount *big.Int, proposer thor.Address) {
	ev := b.newEvent(EventFund, FundTopic, key)
	ev.Amount = new(big.Int).Set(amount)
	ev.Proposer = &proposer
	b.emitter.Emit(ev)
}

func (b *Contract) emitClaim(key Key, solver Solver) {
	ev := b.newEvent(EventClaim, ClaimTopic, key)
	ev.Solver = &solver
	b.emitter.Emit(ev)
}

func (b *Contract) emitComplete(key Key, solver Solver, amount *big.Int) {
	ev := b.newEvent(EventComplete, CompleteTopic, key)
	ev.Solver = &solver
	ev.Amount = new(big.Int).Set(amount)
	b.emitter.Emit(ev)
}
