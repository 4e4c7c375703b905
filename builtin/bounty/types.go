// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"bytes"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/xbounty/thor"
)

type Status = uint8

const (
	StatusUnknown    = Status(iota) // 0 -> never funded
	StatusFunded                    // value locked, no solver yet
	StatusRegistered                // at least one solver registered
	StatusCompleted                 // paid out, terminal
)

// StatusString returns the human readable form of a status.
func StatusString(s Status) string {
	switch s {
	case StatusFunded:
		return "Funded"
	case StatusRegistered:
		return "Registered"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Key identifies a bounty: one issue of one repository.
type Key struct {
	RepoOwner []byte
	RepoURL   []byte
	IssueID   uint64
}

func NewKey(owner, url string, issueID uint64) Key {
	return Key{RepoOwner: []byte(owner), RepoURL: []byte(url), IssueID: issueID}
}

// ID returns the hash of the rlp encoded key, used as the storage key of the record.
func (k Key) ID() thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		_ = rlp.Encode(w, []any{k.RepoOwner, k.RepoURL, k.IssueID})
	})
}

// Solver is a registered claimant of a bounty.
type Solver struct {
	Address    thor.Address // the account paid on release
	ExternalID []byte       // identity on the code hosting service
}

// Equal reports whether both the address and the external id match.
func (s Solver) Equal(other Solver) bool {
	return s.Address == other.Address && bytes.Equal(s.ExternalID, other.ExternalID)
}

// Bounty is the stored record of a funded issue.
type Bounty struct {
	RepoOwner []byte
	RepoURL   []byte
	IssueID   uint64
	Amount    *big.Int     // locked at fund, paid out in full at release
	Proposer  thor.Address // the funding account, the only one allowed to release
	Solvers   []Solver     // registration order
	Status    Status
	CreatedAt uint64 // timestamp of the funding invocation
}

// IsEmpty returns whether the entry can be treated as empty.
func (b *Bounty) IsEmpty() bool {
	return b.Status == StatusUnknown
}

// Key returns the identity of the bounty.
func (b *Bounty) Key() Key {
	return Key{RepoOwner: b.RepoOwner, RepoURL: b.RepoURL, IssueID: b.IssueID}
}

// HasSolver reports whether the exact (address, external id) pair is registered.
func (b *Bounty) HasSolver(solver Solver) bool {
	for _, s := range b.Solvers {
		if s.Equal(solver) {
			return true
		}
	}
	return false
}

func (b *Bounty) hasSolverAddress(addr thor.Address) bool {
	for _, s := range b.Solvers {
		if s.Address == addr {
			return true
		}
	}
	return false
}
