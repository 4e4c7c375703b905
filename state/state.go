// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/xbounty/stackedmap"
	"github.com/vechain/xbounty/thor"
)

type (
	accountKey thor.Address
	storageKey struct {
		addr thor.Address
		key  thor.Bytes32
	}
)

func (k accountKey) dbKey() []byte {
	return append([]byte(accountBucket), k[:]...)
}

func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, len(storageBucket)+thor.AddressLength+32)
	b = append(b, storageBucket...)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the ledger state.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap[any, any]
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case accountKey:
		data, err := s.stater.get(k.dbKey())
		if err != nil {
			return nil, false, err
		}
		acc, err := decodeAccount(data)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case storageKey:
		data, err := s.stater.get(k.dbKey())
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	}
	panic(fmt.Errorf("unexpected key type %T", key))
}

func (s *State) getAccount(addr thor.Address) (*Account, error) {
	v, _, err := s.sm.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	acc, err := s.getAccount(addr)
	if err != nil {
		return &Error{err}
	}
	cpy := acc.copy()
	cpy.Balance.Set(balance)
	s.sm.Put(accountKey(addr), cpy)
	return nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
// An empty raw value removes the slot.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the latest value of every changed entry, ready to be committed.
func (s *State) Stage() (*Stage, error) {
	changes := make(map[string][]byte)
	var order []string
	var err error

	s.sm.Journal(func(k, v any) bool {
		var (
			dbKey []byte
			data  []byte
		)
		switch key := k.(type) {
		case accountKey:
			dbKey = key.dbKey()
			if data, err = encodeAccount(v.(*Account)); err != nil {
				return false
			}
		case storageKey:
			dbKey = key.dbKey()
			data = v.(rlp.RawValue)
		default:
			return true
		}
		if _, seen := changes[string(dbKey)]; !seen {
			order = append(order, string(dbKey))
		}
		changes[string(dbKey)] = data
		return true
	})
	if err != nil {
		return nil, &Error{err}
	}
	return &Stage{stater: s.stater, order: order, changes: changes}, nil
}
