// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
	"github.com/eotlabs/staking-ledger/storage"
)

var (
	alice   = staking.BytesToAccountID([]byte("alice"))
	bob     = staking.BytesToAccountID([]byte("bob"))
	charlie = staking.BytesToAccountID([]byte("charlie"))
)

func owners(c *Candidate) []staking.AccountID {
	ids := make([]staking.AccountID, 0, len(c.Delegators))
	for _, d := range c.Delegators {
		ids = append(ids, d.Owner)
	}
	return ids
}

func TestCandidateDelegators(t *testing.T) {
	c := NewCandidate(uint256.NewInt(100))

	require.NoError(t, c.AddDelegator(bob, uint256.NewInt(10)))
	require.NoError(t, c.AddDelegator(charlie, uint256.NewInt(20)))
	require.NoError(t, c.AddDelegator(alice, uint256.NewInt(10)))
	assert.Equal(t, []staking.AccountID{charlie, bob, alice}, owners(c))
	assert.Equal(t, uint64(40), c.DelegatedStake.Uint64())

	total, err := c.Total()
	require.NoError(t, err)
	assert.Equal(t, uint64(140), total.Uint64())

	lowest, ok := c.Lowest()
	require.True(t, ok)
	assert.Equal(t, alice, lowest.Owner)

	assert.ErrorIs(t, c.AddDelegator(bob, uint256.NewInt(1)), reverts.ErrDuplicateDelegation)

	require.NoError(t, c.IncreaseDelegator(bob, uint256.NewInt(15)))
	assert.Equal(t, []staking.AccountID{bob, charlie, alice}, owners(c))

	assert.ErrorIs(t, c.DecreaseDelegator(alice, uint256.NewInt(11)), reverts.ErrInvalidAmount)
	require.NoError(t, c.DecreaseDelegator(bob, uint256.NewInt(20)))
	assert.Equal(t, []staking.AccountID{charlie, alice, bob}, owners(c))

	amount, err := c.RemoveDelegator(charlie)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), amount.Uint64())
	assert.Equal(t, []staking.AccountID{alice, bob}, owners(c))
	assert.Equal(t, uint64(15), c.DelegatedStake.Uint64())
	assert.Nil(t, c.Delegation(charlie))

	_, err = c.RemoveDelegator(charlie)
	assert.ErrorIs(t, err, reverts.ErrNotFound)
	assert.ErrorIs(t, c.IncreaseDelegator(charlie, uint256.NewInt(1)), reverts.ErrNotFound)
}

func TestCandidateOverflow(t *testing.T) {
	c := NewCandidate(new(uint256.Int).SetAllOne())
	require.NoError(t, c.AddDelegator(bob, uint256.NewInt(1)))

	_, err := c.Total()
	assert.ErrorIs(t, err, reverts.ErrOverflow)

	c = NewCandidate(uint256.NewInt(1))
	require.NoError(t, c.AddDelegator(bob, new(uint256.Int).SetAllOne()))
	assert.ErrorIs(t, c.AddDelegator(alice, uint256.NewInt(1)), reverts.ErrOverflow)
	assert.ErrorIs(t, c.IncreaseDelegator(bob, uint256.NewInt(1)), reverts.ErrOverflow)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	svc := New(storage.NewContext(staking.StakerAccount, stater.NewState()))

	got, err := svc.Get(alice)
	require.NoError(t, err)
	assert.Nil(t, got)

	c := NewCandidate(uint256.NewInt(110))
	require.NoError(t, c.AddDelegator(bob, uint256.NewInt(5)))
	require.NoError(t, svc.Set(alice, c))

	got, err = svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	svc.Delete(alice)
	got, err = svc.Get(alice)
	require.NoError(t, err)
	assert.Nil(t, got)
}
