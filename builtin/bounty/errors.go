// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import "github.com/vechain/xbounty/builtin/reverts"

var (
	ErrZeroAmount          = reverts.New("payment amount must be greater than 0")
	ErrBountyExists        = reverts.New("bounty already exists")
	ErrBountyNotExist      = reverts.New("bounty does not exist")
	ErrUnexpectedStatus    = reverts.New("bounty is not in the expected status")
	ErrNotProposer         = reverts.New("only proposer can release")
	ErrSolverNotFound      = reverts.New("solver wasn't previously registered")
	ErrNoSolver            = reverts.New("no solver for this bounty")
	ErrSolverRegistered    = reverts.New("solver already registered")
	ErrSolversFull         = reverts.New("solver list is full")
	ErrInsufficientCustody = reverts.New("insufficient custody balance")
)
