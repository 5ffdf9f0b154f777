// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staker/stakes"
	"github.com/eotlabs/staking-ledger/staking"
)

// Candidate is a collator candidate record.
// DelegatedStake always equals the sum of Delegators.
type Candidate struct {
	SelfStake      *uint256.Int   `json:"selfStake"`
	DelegatedStake *uint256.Int   `json:"delegatedStake"`
	Delegators     []stakes.Stake `json:"delegators"`
}

// NewCandidate creates a candidate with the given self stake.
func NewCandidate(selfStake *uint256.Int) *Candidate {
	return &Candidate{
		SelfStake:      new(uint256.Int).Set(selfStake),
		DelegatedStake: new(uint256.Int),
	}
}

// Total returns SelfStake + DelegatedStake.
func (c *Candidate) Total() (*uint256.Int, error) {
	total, overflow := new(uint256.Int).AddOverflow(c.SelfStake, c.DelegatedStake)
	if overflow {
		return nil, reverts.New(reverts.KindOverflow, "candidate total overflow")
	}
	return total, nil
}

func (c *Candidate) index(delegator staking.AccountID) int {
	for i, d := range c.Delegators {
		if d.Owner == delegator {
			return i
		}
	}
	return -1
}

// Delegation returns the amount delegated by delegator, nil if none.
func (c *Candidate) Delegation(delegator staking.AccountID) *uint256.Int {
	if i := c.index(delegator); i >= 0 {
		return c.Delegators[i].Amount
	}
	return nil
}

// Lowest returns the smallest delegation, the last one in order.
func (c *Candidate) Lowest() (stakes.Stake, bool) {
	if len(c.Delegators) == 0 {
		return stakes.Stake{}, false
	}
	return c.Delegators[len(c.Delegators)-1], true
}

func (c *Candidate) sort() {
	sort.SliceStable(c.Delegators, func(i, j int) bool {
		return stakes.Ranks(c.Delegators[i], c.Delegators[j])
	})
}

func (c *Candidate) addDelegated(amount *uint256.Int) error {
	sum, overflow := new(uint256.Int).AddOverflow(c.DelegatedStake, amount)
	if overflow {
		return reverts.New(reverts.KindOverflow, "delegated stake overflow")
	}
	c.DelegatedStake = sum
	return nil
}

// AddDelegator adds a new delegation. The caller enforces the delegator bound.
func (c *Candidate) AddDelegator(delegator staking.AccountID, amount *uint256.Int) error {
	if c.index(delegator) >= 0 {
		return reverts.New(reverts.KindDuplicateDelegation, "delegator already delegates to candidate")
	}
	if err := c.addDelegated(amount); err != nil {
		return err
	}
	c.Delegators = append(c.Delegators, stakes.Stake{Owner: delegator, Amount: new(uint256.Int).Set(amount)})
	c.sort()
	return nil
}

// IncreaseDelegator adds amount to an existing delegation.
func (c *Candidate) IncreaseDelegator(delegator staking.AccountID, amount *uint256.Int) error {
	i := c.index(delegator)
	if i < 0 {
		return reverts.New(reverts.KindNotFound, "delegation not found")
	}
	if err := c.addDelegated(amount); err != nil {
		return err
	}
	c.Delegators[i].Amount.Add(c.Delegators[i].Amount, amount)
	c.sort()
	return nil
}

// DecreaseDelegator removes amount from an existing delegation, dropping it when
// it reaches zero.
func (c *Candidate) DecreaseDelegator(delegator staking.AccountID, amount *uint256.Int) error {
	i := c.index(delegator)
	if i < 0 {
		return reverts.New(reverts.KindNotFound, "delegation not found")
	}
	d := c.Delegators[i].Amount
	if d.Lt(amount) {
		return reverts.New(reverts.KindInvalidAmount, "amount exceeds delegation")
	}
	d.Sub(d, amount)
	c.DelegatedStake.Sub(c.DelegatedStake, amount)
	if d.IsZero() {
		c.Delegators = append(c.Delegators[:i], c.Delegators[i+1:]...)
		return nil
	}
	c.sort()
	return nil
}

// RemoveDelegator drops the whole delegation and returns its amount.
func (c *Candidate) RemoveDelegator(delegator staking.AccountID) (*uint256.Int, error) {
	amount := c.Delegation(delegator)
	if amount == nil {
		return nil, reverts.New(reverts.KindNotFound, "delegation not found")
	}
	amount = new(uint256.Int).Set(amount)
	return amount, c.DecreaseDelegator(delegator, amount)
}
