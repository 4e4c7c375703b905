// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger state: native balances of accounts and the storage of
// builtin contracts. Changes are journaled in memory, can be reverted to a checkpoint, and are
// written to the underlying kv store in one batch when a stage is committed.
package state
