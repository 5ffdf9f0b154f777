// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package precompile

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
)

var (
	alice   = staking.BytesToAccountID([]byte("alice"))
	bob     = staking.BytesToAccountID([]byte("bob"))
	charlie = staking.BytesToAccountID([]byte("charlie"))
)

func newStaker(t *testing.T) *staker.Staker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	st := stater.NewState()

	bals := balances.New(staking.BalancesAccount, st)
	for _, id := range []staking.AccountID{alice, bob, charlie} {
		require.NoError(t, bals.Mint(id, uint256.NewInt(1000)))
	}
	params := staking.DefaultParams()
	params.MinCollatorStake = uint256.NewInt(10)
	params.MinDelegatorStake = uint256.NewInt(5)
	params.UnstakingDelay = 2
	return staker.New(staking.StakerAccount, st, params, bals)
}

func call(t *testing.T, s *staker.Staker, caller staking.AccountID, block uint32, name, args string) (any, error) {
	m, err := Lookup(name)
	require.NoError(t, err)
	return m.Run(s, caller, block, json.RawMessage(args))
}

func TestMethods(t *testing.T) {
	assert.Equal(t, []string{
		"candidate_stake_less",
		"candidate_stake_more",
		"delegate_another_candidate",
		"delegator_stake_less",
		"delegator_stake_more",
		"get_collator_list",
		"join_candidates",
		"join_delegators",
		"leave_candidates",
		"leave_delegators",
		"revoke_delegation",
		"unlock_unstaked",
	}, Methods())

	m, err := Lookup("get_collator_list")
	require.NoError(t, err)
	assert.True(t, m.View())
	assert.Equal(t, "get_collator_list", m.Name())

	m, err = Lookup("join_delegators")
	require.NoError(t, err)
	assert.False(t, m.View())

	_, err = Lookup("transfer")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestCalls(t *testing.T) {
	s := newStaker(t)

	_, err := call(t, s, alice, 0, "join_candidates", `{"stake":"10"}`)
	require.NoError(t, err)
	_, err = call(t, s, charlie, 0, "join_candidates", `{"stake":"20"}`)
	require.NoError(t, err)
	_, err = call(t, s, bob, 0, "join_delegators", fmt.Sprintf(`{"collator":"%v","stake":"100"}`, alice))
	require.NoError(t, err)

	out, err := call(t, s, bob, 0, "get_collator_list", "")
	require.NoError(t, err)
	assert.Equal(t, []CollatorInfo{
		{Owner: alice, Amount: uint256.NewInt(110)},
		{Owner: charlie, Amount: uint256.NewInt(20)},
	}, out)

	_, err = call(t, s, bob, 0, "delegate_another_candidate", fmt.Sprintf(`{"collator":"%v","stake":"0x10"}`, charlie))
	require.NoError(t, err)
	_, err = call(t, s, bob, 0, "delegator_stake_more", fmt.Sprintf(`{"collator":"%v","stake":"5"}`, charlie))
	require.NoError(t, err)
	_, err = call(t, s, bob, 0, "delegator_stake_less", fmt.Sprintf(`{"collator":"%v","stake":"6"}`, charlie))
	require.NoError(t, err)
	_, err = call(t, s, alice, 0, "candidate_stake_more", `{"stake":"5"}`)
	require.NoError(t, err)
	_, err = call(t, s, alice, 0, "candidate_stake_less", `{"stake":"5"}`)
	require.NoError(t, err)

	d, err := s.Delegator(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), d.Find(charlie).Uint64())

	_, err = call(t, s, bob, 1, "revoke_delegation", fmt.Sprintf(`{"collator":"%v"}`, charlie))
	require.NoError(t, err)
	_, err = call(t, s, bob, 1, "leave_delegators", "")
	require.NoError(t, err)
	_, err = call(t, s, charlie, 1, "leave_candidates", "")
	require.NoError(t, err)

	out, err = call(t, s, alice, 3, "unlock_unstaked", fmt.Sprintf(`{"target":"%v"}`, bob))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(121), out)

	locked, err := s.LockedAmount(bob)
	require.NoError(t, err)
	assert.True(t, locked.IsZero())
}

func TestCallErrors(t *testing.T) {
	s := newStaker(t)
	_, err := call(t, s, alice, 0, "join_candidates", `{"stake":"10"}`)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		args   string
		want   error
	}{
		{"missing args", "join_delegators", "", ErrInvalidArgs},
		{"bad json", "join_delegators", "{", ErrInvalidArgs},
		{"unknown field", "join_candidates", `{"stake":"10","extra":1}`, ErrInvalidArgs},
		{"bad account", "revoke_delegation", `{"collator":"0x12"}`, ErrInvalidArgs},
		{"bad amount", "join_candidates", `{"stake":"ten"}`, ErrInvalidArgs},
		{"missing stake", "join_candidates", `{}`, reverts.ErrInvalidAmount},
		{"missing candidate", "join_delegators", fmt.Sprintf(`{"collator":"%v","stake":"10"}`, charlie), reverts.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, s, bob, 0, tt.method, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	d, err := s.Delegator(bob)
	require.NoError(t, err)
	assert.Nil(t, d)
}
