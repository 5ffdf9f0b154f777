// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// LockIdentifier tags a balance lock, so locks of different owners can coexist on one account.
type LockIdentifier [8]byte

// String implements the stringer interface.
func (l LockIdentifier) String() string {
	return string(l[:])
}

// StakingLockID is the identifier of every lock set by the staking ledger.
var StakingLockID = LockIdentifier{'s', 't', 'k', 'l', 'e', 'd', 'g', 'r'}

// Params are the bounds and thresholds of the staking ledger.
type Params struct {
	// MinCollatorStake is the minimum self stake of a collator candidate.
	MinCollatorStake *uint256.Int `json:"minCollatorStake"`
	// MinDelegatorStake is the minimum amount of a single delegation.
	MinDelegatorStake *uint256.Int `json:"minDelegatorStake"`

	MaxDelegations           uint32 `json:"maxDelegations"`           // distinct candidates per delegator
	MaxDelegatorsPerCollator uint32 `json:"maxDelegatorsPerCollator"` // delegators per candidate
	MaxCandidates            uint32 `json:"maxCandidates"`            // size of the candidate pool
	MaxSelectedCandidates    uint32 `json:"maxSelectedCandidates"`    // candidates snapshotted per round
	MaxUnstakeRequests       uint32 `json:"maxUnstakeRequests"`       // distinct maturity blocks per account

	UnstakingDelay uint32 `json:"unstakingDelay"` // in blocks
	BlocksPerRound uint32 `json:"blocksPerRound"`
}

// DefaultParams returns the params used when the genesis does not override them.
func DefaultParams() *Params {
	return &Params{
		MinCollatorStake:         uint256.NewInt(10_000),
		MinDelegatorStake:        uint256.NewInt(1_000),
		MaxDelegations:           5,
		MaxDelegatorsPerCollator: 25,
		MaxCandidates:            75,
		MaxSelectedCandidates:    16,
		MaxUnstakeRequests:       10,
		UnstakingDelay:           50_400, // 7 days of 12s blocks
		BlocksPerRound:           600,    // 2 hours
	}
}

// Copy returns a deep copy of the params.
func (p *Params) Copy() *Params {
	cpy := *p
	if p.MinCollatorStake != nil {
		cpy.MinCollatorStake = p.MinCollatorStake.Clone()
	}
	if p.MinDelegatorStake != nil {
		cpy.MinDelegatorStake = p.MinDelegatorStake.Clone()
	}
	return &cpy
}

// Validate checks that the params describe a usable ledger.
func (p *Params) Validate() error {
	if p.MinCollatorStake == nil || p.MinCollatorStake.IsZero() {
		return errors.New("min collator stake must be positive")
	}
	if p.MinDelegatorStake == nil || p.MinDelegatorStake.IsZero() {
		return errors.New("min delegator stake must be positive")
	}
	if p.MaxDelegations == 0 {
		return errors.New("max delegations must be positive")
	}
	if p.MaxDelegatorsPerCollator == 0 {
		return errors.New("max delegators per collator must be positive")
	}
	if p.MaxCandidates == 0 {
		return errors.New("max candidates must be positive")
	}
	if p.MaxSelectedCandidates == 0 || p.MaxSelectedCandidates > p.MaxCandidates {
		return errors.Errorf("max selected candidates must be in (0, %d]", p.MaxCandidates)
	}
	if p.MaxUnstakeRequests == 0 {
		return errors.New("max unstake requests must be positive")
	}
	if p.BlocksPerRound == 0 {
		return errors.New("blocks per round must be positive")
	}
	return nil
}
