// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
)

var (
	alice   = staking.BytesToAccountID([]byte("alice"))
	otherID = staking.LockIdentifier{'v', 'e', 's', 't', 'i', 'n', 'g', ' '}
)

func newBalances(t *testing.T) (*Balances, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	st := stater.NewState()
	return New(staking.BalancesAccount, st), st
}

func TestMint(t *testing.T) {
	b, _ := newBalances(t)

	free, err := b.FreeBalance(alice)
	require.NoError(t, err)
	assert.True(t, free.IsZero())

	require.NoError(t, b.Mint(alice, uint256.NewInt(1000)))
	require.NoError(t, b.Mint(alice, uint256.NewInt(500)))

	free, err = b.FreeBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), free.Uint64())

	issuance, err := b.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), issuance.Uint64())

	assert.EqualError(t, b.Mint(alice, new(uint256.Int).SetAllOne()), "free balance overflow")
	free, err = b.FreeBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), free.Uint64())
	issuance, err = b.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), issuance.Uint64())
}

func TestLocks(t *testing.T) {
	b, _ := newBalances(t)
	require.NoError(t, b.Mint(alice, uint256.NewInt(1000)))

	require.NoError(t, b.SetLock(alice, staking.StakingLockID, uint256.NewInt(100)))
	require.NoError(t, b.SetLock(alice, otherID, uint256.NewInt(300)))

	lock, err := b.Lock(alice, staking.StakingLockID)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), lock.Uint64())

	// locks overlap
	usable, err := b.UsableBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), usable.Uint64())

	// replace
	require.NoError(t, b.SetLock(alice, staking.StakingLockID, uint256.NewInt(400)))
	locks, err := b.Locks(alice)
	require.NoError(t, err)
	assert.Len(t, locks, 2)
	usable, err = b.UsableBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), usable.Uint64())

	// remove, twice
	require.NoError(t, b.RemoveLock(alice, staking.StakingLockID))
	require.NoError(t, b.RemoveLock(alice, staking.StakingLockID))
	lock, err = b.Lock(alice, staking.StakingLockID)
	require.NoError(t, err)
	assert.True(t, lock.IsZero())

	// zero amount removes
	require.NoError(t, b.SetLock(alice, otherID, new(uint256.Int)))
	locks, err = b.Locks(alice)
	require.NoError(t, err)
	assert.Empty(t, locks)
}

func TestLocksRevertWithState(t *testing.T) {
	b, st := newBalances(t)
	require.NoError(t, b.Mint(alice, uint256.NewInt(1000)))

	cp := st.NewCheckpoint()
	require.NoError(t, b.SetLock(alice, staking.StakingLockID, uint256.NewInt(100)))
	st.RevertTo(cp)

	lock, err := b.Lock(alice, staking.StakingLockID)
	require.NoError(t, err)
	assert.True(t, lock.IsZero())
}

func TestLockWithoutBalance(t *testing.T) {
	b, _ := newBalances(t)

	require.NoError(t, b.SetLock(alice, staking.StakingLockID, uint256.NewInt(10)))
	usable, err := b.UsableBalance(alice)
	require.NoError(t, err)
	assert.True(t, usable.IsZero())
}
