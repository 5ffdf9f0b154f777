// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/cache"
	"github.com/eotlabs/staking-ledger/kv"
)

const storeName = "s"

// Stater creates states over the committed slots of a kv store.
// Committed slots are cached, so all writes must go through Commit.
type Stater struct {
	store kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue]
}

// NewStater create a new stater. cacheSize bounds the count of cached slots.
func NewStater(db kv.Store, cacheSize int) (*Stater, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	c, err := cache.NewLRU[storageKey, rlp.RawValue](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "new slot cache")
	}
	return &Stater{
		store: kv.Bucket(storeName).NewStore(db),
		cache: c,
	}, nil
}

// NewState create a new state object on top of the latest committed slots.
func (s *Stater) NewState() *State {
	return newState(s)
}

func (s *Stater) get(key storageKey) (rlp.RawValue, error) {
	return s.cache.GetOrLoad(key, s.load)
}

func (s *Stater) load(key storageKey) (rlp.RawValue, error) {
	metricSlotLoads().Add(1)
	val, err := s.store.Get(key.bytes())
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, err
		}
		val = nil
	}
	return val, nil
}

// CacheStats returns the slot cache hits and misses so far.
func (s *Stater) CacheStats() (hit, miss int64) {
	_, hit, miss = s.cache.Stats()
	return
}

// Commit atomically writes the staged changes and refreshes the cache.
func (s *Stater) Commit(stage *Stage) error {
	bulk := s.store.Bulk()
	if err := stage.Write(bulk); err != nil {
		return errors.Wrap(err, "stage")
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write")
	}
	for _, k := range stage.order {
		s.cache.Add(k, stage.changes[k])
	}
	metricSlotWrites().Add(int64(stage.Len()))
	if changed, hit, miss := s.cache.Stats(); changed && hit+miss > 0 {
		metricCacheHitRate().Set(hit * 1000 / (hit + miss))
	}
	return nil
}
