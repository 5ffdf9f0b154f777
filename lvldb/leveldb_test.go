// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/kv"
)

func newStores(t *testing.T) []*LevelDB {
	disk, err := Open(t.TempDir(), Options{CacheSize: 16, OpenFilesCacheCapacity: 16})
	require.NoError(t, err)
	mem, err := NewMem()
	require.NoError(t, err)

	t.Cleanup(func() {
		disk.Close()
		mem.Close()
	})
	return []*LevelDB{disk, mem}
}

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	for _, db := range newStores(t) {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBulkAndSnapshot(t *testing.T) {
	for _, db := range newStores(t) {
		require.NoError(t, db.Put([]byte("a"), []byte("1")))

		snap := db.Snapshot()

		bulk := db.Bulk()
		require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
		require.NoError(t, bulk.Delete([]byte("a")))

		// nothing applied before Write
		has, err := db.Has([]byte("b"))
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, bulk.Write())

		got, err := db.Get([]byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), got)

		// snapshot still sees the old view
		got, err = snap.Get([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), got)
		_, err = snap.Get([]byte("b"))
		assert.True(t, snap.IsNotFound(err))
		snap.Release()
	}
}

func TestLevelDBBucketIterate(t *testing.T) {
	for _, db := range newStores(t) {
		store := kv.Bucket("x/").NewStore(db)
		other := kv.Bucket("y/").NewStore(db)

		for _, k := range []string{"3", "1", "2"} {
			require.NoError(t, store.Put([]byte(k), []byte("v"+k)))
		}
		require.NoError(t, other.Put([]byte("0"), []byte("skip")))

		iter := store.Iterate(kv.Range{})
		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
		}
		iter.Release()
		require.NoError(t, iter.Error())
		assert.Equal(t, []string{"1", "2", "3"}, keys)
	}
}
