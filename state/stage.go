// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/xbounty/thor"
)

// Stage abstracts changes that can be committed to the store.
type Stage struct {
	stater  *Stater
	order   []string
	changes map[string][]byte
}

// Len returns the count of changed entries.
func (s *Stage) Len() int {
	return len(s.order)
}

// Hash returns the digest of the changes, in the order they were made.
func (s *Stage) Hash() thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		for _, k := range s.order {
			_ = rlp.Encode(w, []any{[]byte(k), s.changes[k]})
		}
	})
}

// Commit writes all changes in one batch.
func (s *Stage) Commit() error {
	bulk := s.stater.db.Bulk()
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete([]byte(k))
		} else {
			err = bulk.Put([]byte(k), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	for _, k := range s.order {
		s.stater.cache.Add(k, s.changes[k])
	}
	metricCommittedEntries().Add(int64(len(s.order)))
	return nil
}
