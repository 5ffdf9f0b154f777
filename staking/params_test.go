// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestDefaultParamsAreValid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}

func TestParamsValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(p *Params)
		err    string
	}{
		{"zero collator stake", func(p *Params) { p.MinCollatorStake = uint256.NewInt(0) }, "min collator stake"},
		{"nil delegator stake", func(p *Params) { p.MinDelegatorStake = nil }, "min delegator stake"},
		{"no delegations", func(p *Params) { p.MaxDelegations = 0 }, "max delegations"},
		{"no delegators", func(p *Params) { p.MaxDelegatorsPerCollator = 0 }, "max delegators per collator"},
		{"no candidates", func(p *Params) { p.MaxCandidates = 0 }, "max candidates"},
		{"too many selected", func(p *Params) { p.MaxSelectedCandidates = p.MaxCandidates + 1 }, "max selected candidates"},
		{"no unstake requests", func(p *Params) { p.MaxUnstakeRequests = 0 }, "max unstake requests"},
		{"no round length", func(p *Params) { p.BlocksPerRound = 0 }, "blocks per round"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.modify(p)
			assert.ErrorContains(t, p.Validate(), tc.err)
		})
	}
}

func TestParamsCopy(t *testing.T) {
	p := DefaultParams()
	cpy := p.Copy()
	cpy.MinCollatorStake.SetUint64(1)
	cpy.MaxDelegations = 1

	assert.Equal(t, uint64(10_000), p.MinCollatorStake.Uint64())
	assert.Equal(t, uint32(5), p.MaxDelegations)
}

func TestLockIdentifier(t *testing.T) {
	assert.Equal(t, "stkledgr", StakingLockID.String())
}
