// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/xbounty/log"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

// MaxSolvers caps the registrations a single bounty accepts.
const MaxSolvers = 100

var logger = log.WithContext("pkg", "bounty")

// Contract implements the native methods of the bounty contract.
// The value attached to fund is expected to be in the contract balance already.
type Contract struct {
	addr    thor.Address
	state   *state.State
	storage *storage
	emitter Emitter
}

// New create a new instance. A nil emitter discards events.
func New(addr thor.Address, state *state.State, emitter Emitter) *Contract {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &Contract{
		addr:    addr,
		state:   state,
		storage: newStorage(addr, state),
		emitter: emitter,
	}
}

// Address returns the custody account of the contract.
func (b *Contract) Address() thor.Address {
	return b.addr
}

// Fund creates a bounty locking amount, paid by payer.
func (b *Contract) Fund(key Key, amount *big.Int, payer thor.Address, createdAt uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	id := key.ID()
	bounty, err := b.storage.getBounty(id)
	if err != nil {
		return err
	}
	if !bounty.IsEmpty() {
		return ErrBountyExists
	}

	bounty = &Bounty{
		RepoOwner: key.RepoOwner,
		RepoURL:   key.RepoURL,
		IssueID:   key.IssueID,
		Amount:    new(big.Int).Set(amount),
		Proposer:  payer,
		Status:    StatusUnknown,
		CreatedAt: createdAt,
	}
	if err := bounty.transit(StatusFunded); err != nil {
		return err
	}
	if err := b.storage.setBounty(id, bounty); err != nil {
		return err
	}
	if err := b.storage.lock(amount); err != nil {
		return err
	}

	logger.Debug("bounty funded", "id", id.AbbrevString(), "amount", amount, "proposer", payer)
	b.emitFund(key, amount, payer)
	return nil
}

// Register appends the caller as a solver of the bounty.
func (b *Contract) Register(key Key, caller thor.Address, externalID []byte) error {
	id := key.ID()
	bounty, err := b.storage.getBounty(id)
	if err != nil {
		return err
	}
	if bounty.IsEmpty() {
		return ErrBountyNotExist
	}
	if err := bounty.transit(StatusRegistered); err != nil {
		return err
	}
	if bounty.hasSolverAddress(caller) {
		return ErrSolverRegistered
	}
	if len(bounty.Solvers) >= MaxSolvers {
		return ErrSolversFull
	}

	solver := Solver{Address: caller, ExternalID: externalID}
	bounty.Solvers = append(bounty.Solvers, solver)
	if err := b.storage.setBounty(id, bounty); err != nil {
		return err
	}
	if err := b.storage.setSolverID(caller, externalID); err != nil {
		return err
	}

	logger.Debug("solver registered", "id", id.AbbrevString(), "solver", caller, "solvers", len(bounty.Solvers))
	b.emitClaim(key, solver)
	return nil
}

// Release pays the locked amount to a registered solver and completes the bounty.
// Only the proposer can release.
func (b *Contract) Release(key Key, caller thor.Address, solver Solver) error {
	id := key.ID()
	bounty, err := b.storage.getBounty(id)
	if err != nil {
		return err
	}
	if bounty.IsEmpty() {
		return ErrBountyNotExist
	}
	if bounty.Status != StatusRegistered {
		return ErrUnexpectedStatus
	}
	if bounty.Proposer != caller {
		return ErrNotProposer
	}
	if !bounty.HasSolver(solver) {
		return ErrSolverNotFound
	}
	if solver.Address.IsZero() {
		return ErrNoSolver
	}
	if err := bounty.transit(StatusCompleted); err != nil {
		return err
	}
	if err := b.transfer(solver.Address, bounty.Amount); err != nil {
		return err
	}
	if err := b.storage.setBounty(id, bounty); err != nil {
		return err
	}
	if err := b.storage.unlock(bounty.Amount); err != nil {
		return err
	}

	logger.Debug("bounty released", "id", id.AbbrevString(), "solver", solver.Address, "amount", bounty.Amount)
	b.emitComplete(key, solver, bounty.Amount)
	return nil
}

// transfer moves amount from the contract custody to the recipient.
func (b *Contract) transfer(to thor.Address, amount *big.Int) error {
	custody, err := b.state.GetBalance(b.addr)
	if err != nil {
		return errors.WithMessage(err, "custody balance")
	}
	if custody.Cmp(amount) < 0 {
		return ErrInsufficientCustody
	}
	if err := b.state.SetBalance(b.addr, custody.Sub(custody, amount)); err != nil {
		return err
	}
	balance, err := b.state.GetBalance(to)
	if err != nil {
		return errors.WithMessage(err, "recipient balance")
	}
	return b.state.SetBalance(to, balance.Add(balance, amount))
}

// Get returns the bounty of the given key, or nil if it was never funded.
func (b *Contract) Get(key Key) (*Bounty, error) {
	return b.GetByID(key.ID())
}

// GetByID returns the bounty of the given id, or nil if it was never funded.
func (b *Contract) GetByID(id thor.Bytes32) (*Bounty, error) {
	bounty, err := b.storage.getBounty(id)
	if err != nil {
		return nil, err
	}
	if bounty.IsEmpty() {
		return nil, nil
	}
	return bounty, nil
}

// Raw returns the stored encoding of a bounty, empty if absent. The encoding is not validated.
func (b *Contract) Raw(id thor.Bytes32) ([]byte, error) {
	return b.storage.rawBounty(id)
}

// SolverExternalID returns the external id most recently registered by the address.
func (b *Contract) SolverExternalID(addr thor.Address) ([]byte, error) {
	return b.storage.getSolverID(addr)
}

// Stats returns the count of funded bounties and the total amount locked by open ones.
func (b *Contract) Stats() (count uint64, locked *big.Int, err error) {
	size, err := b.storage.size.Get()
	if err != nil {
		return 0, nil, err
	}
	if locked, err = b.storage.locked.Get(); err != nil {
		return 0, nil, err
	}
	return size.Uint64(), locked, nil
}
