// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"fmt"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
)

type operation struct {
	Kind    uint8
	Actor   uint8
	Target  uint8
	Amount  uint16
	Advance uint8
}

const operationKinds = 11

func (ts *testStaker) apply(op operation, accounts []staking.AccountID, block uint32) (string, error) {
	actor := accounts[int(op.Actor)%len(accounts)]
	target := accounts[int(op.Target)%len(accounts)]
	amt := amount(uint64(op.Amount % 300))

	switch op.Kind % operationKinds {
	case 0:
		return "join delegators", ts.JoinDelegators(actor, target, amt, block)
	case 1:
		return "delegate another", ts.DelegateAnotherCandidate(actor, target, amt, block)
	case 2:
		return "delegator stake more", ts.DelegatorStakeMore(actor, target, amt)
	case 3:
		return "delegator stake less", ts.DelegatorStakeLess(actor, target, amt, block)
	case 4:
		return "revoke", ts.RevokeDelegation(actor, target, block)
	case 5:
		return "leave delegators", ts.LeaveDelegators(actor, block)
	case 6:
		return "join candidates", ts.JoinCandidates(actor, amt)
	case 7:
		return "candidate stake more", ts.CandidateStakeMore(actor, amt)
	case 8:
		return "candidate stake less", ts.CandidateStakeLess(actor, amt, block)
	case 9:
		return "leave candidates", ts.LeaveCandidates(actor, block)
	default:
		first, err := ts.UnlockUnstaked(actor, block)
		if err != nil {
			return "unlock", err
		}
		// a second release at the same block finds nothing
		second, err := ts.UnlockUnstaked(actor, block)
		if err == nil && !second.IsZero() {
			err = fmt.Errorf("released %v then %v at block %d", first, second, block)
		}
		return "unlock", err
	}
}

func TestRandomSequences(t *testing.T) {
	accounts := []staking.AccountID{alice, bob, charlie, dave, eve, parent}
	funds := make(map[staking.AccountID]uint64, len(accounts))
	for _, id := range accounts {
		funds[id] = 20_000
	}

	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			params := testParams()
			params.MaxDelegations = 3
			params.MaxDelegatorsPerCollator = 2
			params.MaxCandidates = 4
			params.MaxSelectedCandidates = 2
			params.MaxUnstakeRequests = 3
			ts := newTestStaker(t, params, funds)

			var ops []operation
			fuzz.NewWithSeed(seed).NilChance(0).NumElements(50, 150).Fuzz(&ops)

			block := uint32(0)
			for i, op := range ops {
				block += uint32(op.Advance % 3)
				_, err := ts.OnInitialize(block)
				require.NoError(t, err)

				name, err := ts.apply(op, accounts, block)
				if err != nil {
					require.True(t, reverts.IsRevertErr(err), "op %d %s: internal error %v", i, name, err)
				}
				ts.checkInvariants(t, accounts)
				if t.Failed() {
					t.Fatalf("invariant broken after op %d %s (%+v)", i, name, op)
				}
			}

			// everything drains once every account leaves and unlocks
			for _, id := range accounts {
				// a full unstaking queue may still refuse
				if d, err := ts.Delegator(id); assert.NoError(t, err) && d != nil {
					if err := ts.LeaveDelegators(id, block); err != nil {
						require.ErrorIs(t, err, reverts.ErrCapacityExceeded)
					}
				}
				if c, err := ts.Candidate(id); assert.NoError(t, err) && c != nil {
					if err := ts.LeaveCandidates(id, block); err != nil {
						require.ErrorIs(t, err, reverts.ErrCapacityExceeded)
					}
				}
			}
			block += params.UnstakingDelay
			for _, id := range accounts {
				_, err := ts.UnlockUnstaked(id, block)
				require.NoError(t, err)
			}
			ts.checkInvariants(t, accounts)
		})
	}
}
