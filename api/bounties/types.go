// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounties

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/thor"
)

// FundRequest funds a bounty with the attached value.
type FundRequest struct {
	RepoOwner string       `json:"repoOwner"`
	RepoURL   string       `json:"repoUrl"`
	IssueID   uint64       `json:"issueId"`
	Caller    thor.Address `json:"caller"`
	Value     *uint256.Int `json:"value"`
}

// RegisterRequest registers the caller as a solver.
type RegisterRequest struct {
	RepoOwner  string       `json:"repoOwner"`
	RepoURL    string       `json:"repoUrl"`
	IssueID    uint64       `json:"issueId"`
	Caller     thor.Address `json:"caller"`
	ExternalID string       `json:"externalId"`
}

// ReleaseRequest pays a registered solver.
type ReleaseRequest struct {
	RepoOwner        string       `json:"repoOwner"`
	RepoURL          string       `json:"repoUrl"`
	IssueID          uint64       `json:"issueId"`
	Caller           thor.Address `json:"caller"`
	Solver           thor.Address `json:"solver"`
	SolverExternalID string       `json:"solverExternalId"`
}

type Solver struct {
	Address    thor.Address `json:"address"`
	ExternalID string       `json:"externalId"`
}

type Bounty struct {
	ID        thor.Bytes32          `json:"id"`
	RepoOwner string                `json:"repoOwner"`
	RepoURL   string                `json:"repoUrl"`
	IssueID   uint64                `json:"issueId"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Proposer  thor.Address          `json:"proposer"`
	Solvers   []Solver              `json:"solvers"`
	Status    string                `json:"status"`
	CreatedAt uint64                `json:"createdAt"`
}

type Event struct {
	Name      string                `json:"name"`
	Topic     thor.Bytes32          `json:"topic"`
	Contract  thor.Address          `json:"contract"`
	BountyID  thor.Bytes32          `json:"bountyId"`
	RepoOwner string                `json:"repoOwner"`
	RepoURL   string                `json:"repoUrl"`
	IssueID   uint64                `json:"issueId"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	Proposer  *thor.Address         `json:"proposer,omitempty"`
	Solver    *Solver               `json:"solver,omitempty"`
}

// Receipt is the outcome of a mutating call. Reverted calls carry the reason and no events.
type Receipt struct {
	BountyID thor.Bytes32 `json:"bountyId"`
	Reverted bool         `json:"reverted"`
	Reason   string       `json:"reason,omitempty"`
	Events   []*Event     `json:"events"`
}

type RawBounty struct {
	Raw hexutil.Bytes `json:"raw"`
}

type Stats struct {
	Count  uint64                `json:"count"`
	Locked *math.HexOrDecimal256 `json:"locked"`
}

func convertSolver(s bounty.Solver) Solver {
	return Solver{Address: s.Address, ExternalID: string(s.ExternalID)}
}

func ConvertBounty(b *bounty.Bounty) *Bounty {
	solvers := make([]Solver, 0, len(b.Solvers))
	for _, s := range b.Solvers {
		solvers = append(solvers, convertSolver(s))
	}
	return &Bounty{
		ID:        b.Key().ID(),
		RepoOwner: string(b.RepoOwner),
		RepoURL:   string(b.RepoURL),
		IssueID:   b.IssueID,
		Amount:    (*math.HexOrDecimal256)(new(big.Int).Set(b.Amount)),
		Proposer:  b.Proposer,
		Solvers:   solvers,
		Status:    bounty.StatusString(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func ConvertEvent(ev *bounty.Event) *Event {
	e := &Event{
		Name:      ev.Name,
		Topic:     ev.Topic,
		Contract:  ev.Contract,
		BountyID:  ev.BountyID,
		RepoOwner: string(ev.RepoOwner),
		RepoURL:   string(ev.RepoURL),
		IssueID:   ev.IssueID,
		Proposer:  ev.Proposer,
	}
	if ev.Amount != nil {
		e.Amount = (*math.HexOrDecimal256)(new(big.Int).Set(ev.Amount))
	}
	if ev.Solver != nil {
		s := convertSolver(*ev.Solver)
		e.Solver = &s
	}
	return e
}

func convertReceipt(r *runtime.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, ConvertEvent(ev))
	}
	return &Receipt{
		BountyID: r.BountyID,
		Reverted: r.Reverted,
		Reason:   r.Reason,
		Events:   events,
	}
}
