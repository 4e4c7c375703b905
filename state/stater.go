// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/xbounty/cache"
	"github.com/vechain/xbounty/kv"
)

const (
	accountBucket = kv.Bucket("a")
	storageBucket = kv.Bucket("s")

	defaultCacheSize = 4096
)

// Stater is the state creator. Committed entries are cached and shared by the states it creates.
type Stater struct {
	db    kv.Store
	cache *cache.LRU
}

// NewStater create a new stater.
func NewStater(db kv.Store, cacheSize int) *Stater {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	c, _ := cache.NewLRU(cacheSize)
	return &Stater{db: db, cache: c}
}

// NewState create a new state object on top of the committed entries.
func (s *Stater) NewState() *State {
	return newState(s)
}

func (s *Stater) get(key []byte) ([]byte, error) {
	v, err := s.cache.GetOrLoad(string(key), func(any) (any, error) {
		data, err := s.db.Get(key)
		if err != nil {
			if s.db.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	hit, miss := s.cache.Stats()
	metricStateCache().SetWithLabel(hit, map[string]string{"event": "hit"})
	metricStateCache().SetWithLabel(miss, map[string]string{"event": "miss"})
	return v.([]byte), nil
}
