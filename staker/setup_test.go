// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
)

var (
	alice   = staking.BytesToAccountID([]byte("alice"))
	bob     = staking.BytesToAccountID([]byte("bob"))
	charlie = staking.BytesToAccountID([]byte("charlie"))
	dave    = staking.BytesToAccountID([]byte("dave"))
	eve     = staking.BytesToAccountID([]byte("eve"))
	parent  = staking.BytesToAccountID([]byte("parent"))
)

func amount(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func testParams() *staking.Params {
	return &staking.Params{
		MinCollatorStake:         amount(10),
		MinDelegatorStake:        amount(5),
		MaxDelegations:           5,
		MaxDelegatorsPerCollator: 25,
		MaxCandidates:            10,
		MaxSelectedCandidates:    5,
		MaxUnstakeRequests:       10,
		UnstakingDelay:           2,
		BlocksPerRound:           5,
	}
}

type testStaker struct {
	*Staker
	balances *balances.Balances
	state    *state.State
}

func newTestStaker(t *testing.T, params *staking.Params, funds map[staking.AccountID]uint64) *testStaker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	st := stater.NewState()

	bals := balances.New(staking.BalancesAccount, st)
	for id, n := range funds {
		require.NoError(t, bals.Mint(id, amount(n)))
	}
	return &testStaker{
		Staker:   New(staking.StakerAccount, st, params, bals),
		balances: bals,
		state:    st,
	}
}

func (ts *testStaker) lock(t *testing.T, id staking.AccountID) uint64 {
	l, err := ts.LockedAmount(id)
	require.NoError(t, err)
	return l.Uint64()
}

func (ts *testStaker) queue(t *testing.T, id staking.AccountID) map[uint32]uint64 {
	q, err := ts.Unstaking(id)
	require.NoError(t, err)
	m := make(map[uint32]uint64, len(q))
	for _, e := range q {
		m[e.Block] = e.Amount.Uint64()
	}
	return m
}

func (ts *testStaker) totals(t *testing.T) (uint64, uint64) {
	total, err := ts.TotalStake()
	require.NoError(t, err)
	return total.Collators.Uint64(), total.Delegators.Uint64()
}

// checkInvariants recomputes the aggregates from the records of accounts.
func (ts *testStaker) checkInvariants(t *testing.T, accounts []staking.AccountID) {
	collators, delegators := new(uint256.Int), new(uint256.Int)
	delegatedTo := make(map[staking.AccountID]*uint256.Int)

	list, err := ts.CollatorList()
	require.NoError(t, err)
	inPool := make(map[staking.AccountID]bool, len(list))
	for i, s := range list {
		inPool[s.Owner] = true
		if i > 0 {
			assert.True(t, list[i-1].Amount.Cmp(s.Amount) >= 0, "pool order")
		}
	}

	for _, id := range accounts {
		c, err := ts.Candidate(id)
		require.NoError(t, err)
		d, err := ts.Delegator(id)
		require.NoError(t, err)
		assert.False(t, c != nil && d != nil, "roles are exclusive")
		assert.Equal(t, c != nil, inPool[id], "pool membership")

		if c != nil {
			collators.Add(collators, c.SelfStake)
			delegators.Add(delegators, c.DelegatedStake)
			sum := new(uint256.Int)
			for _, s := range c.Delegators {
				sum.Add(sum, s.Amount)
			}
			assert.Equal(t, c.DelegatedStake, sum, "delegated stake of %v", id)
			assert.LessOrEqual(t, len(c.Delegators), int(ts.params.MaxDelegatorsPerCollator))
		}
		if d != nil {
			assert.NotEmpty(t, d.Delegations, "empty delegator record")
			assert.LessOrEqual(t, len(d.Delegations), int(ts.params.MaxDelegations))
			for _, s := range d.Delegations {
				if delegatedTo[s.Owner] == nil {
					delegatedTo[s.Owner] = new(uint256.Int)
				}
				delegatedTo[s.Owner].Add(delegatedTo[s.Owner], s.Amount)
			}
		}

		q, err := ts.Unstaking(id)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(q), int(ts.params.MaxUnstakeRequests))
		for i := 1; i < len(q); i++ {
			assert.Less(t, q[i-1].Block, q[i].Block, "queue order")
		}

		active, err := ts.ActiveStake(id)
		require.NoError(t, err)
		pending, _ := q.Total()
		lock, err := ts.LockedAmount(id)
		require.NoError(t, err)
		assert.Equal(t, new(uint256.Int).Add(active, pending), lock, "lock of %v", id)
	}

	for id, sum := range delegatedTo {
		c, err := ts.Candidate(id)
		require.NoError(t, err)
		require.NotNil(t, c, "delegation to missing candidate")
		assert.Equal(t, c.DelegatedStake, sum)
	}

	total, err := ts.TotalStake()
	require.NoError(t, err)
	assert.Equal(t, collators, total.Collators, "total collators")
	assert.Equal(t, delegators, total.Delegators, "total delegators")
}
