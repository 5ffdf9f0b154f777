// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/kv"
	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/precompile"
	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staker/round"
	"github.com/eotlabs/staking-ledger/staking"
)

var (
	alice = staking.BytesToAccountID([]byte("alice"))
	bob   = staking.BytesToAccountID([]byte("bob"))
)

func testParams() *staking.Params {
	p := staking.DefaultParams()
	p.MinCollatorStake = uint256.NewInt(10)
	p.MinDelegatorStake = uint256.NewInt(5)
	p.UnstakingDelay = 3
	p.BlocksPerRound = 4
	return p
}

func setup(t *testing.T, l *Ledger) {
	require.NoError(t, l.Setup(func(s *staker.Staker, b *balances.Balances) error {
		for _, id := range []staking.AccountID{alice, bob} {
			if err := b.Mint(id, uint256.NewInt(100)); err != nil {
				return err
			}
		}
		return s.JoinCandidates(alice, uint256.NewInt(10))
	}))
}

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := New(db, testParams(), Options{})
	require.NoError(t, err)
	setup(t, l)
	return l
}

func args(format string, a ...any) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(format, a...))
}

func TestSetup(t *testing.T) {
	l := newLedger(t)

	ok, err := l.Initialized()
	require.NoError(t, err)
	assert.True(t, ok)

	err = l.Setup(func(*staker.Staker, *balances.Balances) error { return nil })
	assert.ErrorIs(t, err, ErrInitialized)

	require.NoError(t, l.View(func(s *staker.Staker) error {
		info, err := s.Round()
		require.NoError(t, err)
		assert.Equal(t, uint32(0), info.Current)
		return nil
	}))
}

func TestExecute(t *testing.T) {
	l := newLedger(t)

	_, err := l.Execute("join_delegators", bob, args(`{"collator":"%v","stake":"100"}`, alice))
	require.NoError(t, err)

	out, err := l.Execute("get_collator_list", staking.AccountID{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []precompile.CollatorInfo{{Owner: alice, Amount: uint256.NewInt(110)}}, out)

	// rejected calls leave nothing behind
	_, err = l.Execute("delegator_stake_more", bob, args(`{"collator":"%v","stake":"1"}`, alice))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	_, err = l.Execute("revoke_delegation", bob, args(`{"collator":"%v"}`, alice))
	require.NoError(t, err)

	require.NoError(t, l.View(func(s *staker.Staker) error {
		q, err := s.Unstaking(bob)
		require.NoError(t, err)
		require.Len(t, q, 1)
		assert.Equal(t, uint32(3), q[0].Block)
		assert.Equal(t, uint64(100), q[0].Amount.Uint64())
		return nil
	}))

	_, err = l.Execute("transfer", bob, nil)
	assert.ErrorIs(t, err, precompile.ErrUnknownMethod)
	_, err = l.Execute("leave_delegators", staking.AccountID{}, nil)
	assert.ErrorIs(t, err, ErrZeroCaller)
	_, err = l.Execute("join_candidates", bob, args(`{"stake":true}`))
	assert.ErrorIs(t, err, precompile.ErrInvalidArgs)
}

func TestViewDiscardsChanges(t *testing.T) {
	l := newLedger(t)

	require.NoError(t, l.View(func(s *staker.Staker) error {
		return s.JoinDelegators(bob, alice, uint256.NewInt(50), 0)
	}))
	require.NoError(t, l.View(func(s *staker.Staker) error {
		d, err := s.Delegator(bob)
		require.NoError(t, err)
		assert.Nil(t, d)
		return nil
	}))

	require.NoError(t, l.ViewBalances(func(b *balances.Balances) error {
		free, err := b.FreeBalance(bob)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), free.Uint64())
		return nil
	}))
}

func TestAdvance(t *testing.T) {
	l := newLedger(t)
	_, err := l.Execute("join_delegators", bob, args(`{"collator":"%v","stake":"100"}`, alice))
	require.NoError(t, err)
	_, err = l.Execute("revoke_delegation", bob, args(`{"collator":"%v"}`, alice))
	require.NoError(t, err)

	head, err := l.Advance(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), head)

	out, err := l.Execute("unlock_unstaked", alice, args(`{"target":"%v"}`, bob))
	require.NoError(t, err)
	assert.True(t, out.(*uint256.Int).IsZero())

	head, err = l.AdvanceTo(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), l.Block())
	_, err = l.AdvanceTo(3)
	assert.Error(t, err)

	out, err = l.Execute("unlock_unstaked", alice, args(`{"target":"%v"}`, bob))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), out.(*uint256.Int).Uint64())

	require.NoError(t, l.View(func(s *staker.Staker) error {
		info, err := s.Round()
		require.NoError(t, err)
		assert.Equal(t, uint32(1), info.Current)
		assert.Equal(t, uint32(4), info.First)
		assert.Equal(t, head, info.First)
		return nil
	}))
}

func TestAdvanceAcrossRounds(t *testing.T) {
	roundOf := func(l *Ledger) (info *round.Info) {
		require.NoError(t, l.View(func(s *staker.Staker) (err error) {
			info, err = s.Round()
			return
		}))
		return
	}

	stepped := newLedger(t)
	for range 41 {
		_, err := stepped.Advance(1)
		require.NoError(t, err)
	}
	jumped := newLedger(t)
	head, err := jumped.Advance(41)
	require.NoError(t, err)
	assert.Equal(t, uint32(41), head)
	assert.Equal(t, roundOf(stepped), roundOf(jumped))
	assert.Equal(t, uint32(10), roundOf(jumped).Current)
	assert.Equal(t, uint32(40), roundOf(jumped).First)

	head, err = jumped.Advance(100_000)
	require.NoError(t, err)
	assert.Equal(t, uint32(100_041), head)
	assert.Equal(t, uint32(25_010), roundOf(jumped).Current)
	assert.Equal(t, uint32(100_040), roundOf(jumped).First)
}

func TestReopen(t *testing.T) {
	path := t.TempDir()
	open := func(params *staking.Params) (*Ledger, *lvldb.LevelDB) {
		db, err := lvldb.Open(path, lvldb.Options{})
		require.NoError(t, err)
		l, err := New(db, params, Options{CacheSize: 16})
		require.NoError(t, err)
		return l, db
	}

	l, db := open(testParams())
	setup(t, l)
	_, err := l.Execute("join_delegators", bob, args(`{"collator":"%v","stake":"40"}`, alice))
	require.NoError(t, err)
	_, err = l.Advance(7)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// stored params win over the ones passed in
	l, db = open(staking.DefaultParams())
	defer db.Close()
	assert.Equal(t, uint32(7), l.Block())
	assert.Equal(t, uint32(3), l.Params().UnstakingDelay)

	ok, err := l.Initialized()
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.View(func(s *staker.Staker) error {
		total, err := s.TotalStake()
		require.NoError(t, err)
		assert.Equal(t, uint64(10), total.Collators.Uint64())
		assert.Equal(t, uint64(40), total.Delegators.Uint64())
		locked, err := s.LockedAmount(bob)
		require.NoError(t, err)
		assert.Equal(t, uint64(40), locked.Uint64())
		return nil
	}))
}

func TestNewRejectsInvalidParams(t *testing.T) {
	var db kv.Store
	mem, err := lvldb.NewMem()
	require.NoError(t, err)
	defer mem.Close()
	db = mem

	params := testParams()
	params.MaxUnstakeRequests = 0
	_, err = New(db, params, Options{})
	assert.Error(t, err)
}
