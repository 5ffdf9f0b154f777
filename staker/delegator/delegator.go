// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegator

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staker/stakes"
	"github.com/eotlabs/staking-ledger/staking"
)

// Delegator holds the delegations of an account, one per candidate and
// sorted by candidate id. The Owner of each stake is the candidate.
type Delegator struct {
	Delegations []stakes.Stake `json:"delegations"`
}

// Total sums the delegations.
func (d *Delegator) Total() (*uint256.Int, error) {
	total, overflow := stakes.Sum(d.Delegations)
	if overflow {
		return nil, reverts.New(reverts.KindOverflow, "delegator total overflow")
	}
	return total, nil
}

func (d *Delegator) IsEmpty() bool {
	return len(d.Delegations) == 0
}

func (d *Delegator) search(candidate staking.AccountID) (int, bool) {
	i := sort.Search(len(d.Delegations), func(i int) bool {
		return d.Delegations[i].Owner.Compare(candidate) >= 0
	})
	return i, i < len(d.Delegations) && d.Delegations[i].Owner == candidate
}

// Find returns the amount delegated to candidate, nil if none.
func (d *Delegator) Find(candidate staking.AccountID) *uint256.Int {
	if i, ok := d.search(candidate); ok {
		return d.Delegations[i].Amount
	}
	return nil
}

// Candidates lists the delegated candidates in id order.
func (d *Delegator) Candidates() []staking.AccountID {
	ids := make([]staking.AccountID, 0, len(d.Delegations))
	for _, s := range d.Delegations {
		ids = append(ids, s.Owner)
	}
	return ids
}

// Add records a new delegation to candidate.
func (d *Delegator) Add(candidate staking.AccountID, amount *uint256.Int) error {
	i, ok := d.search(candidate)
	if ok {
		return reverts.New(reverts.KindDuplicateDelegation, "already delegates to candidate")
	}
	d.Delegations = append(d.Delegations, stakes.Stake{})
	copy(d.Delegations[i+1:], d.Delegations[i:])
	d.Delegations[i] = stakes.Stake{Owner: candidate, Amount: new(uint256.Int).Set(amount)}
	return nil
}

// Increase adds amount to the delegation to candidate.
func (d *Delegator) Increase(candidate staking.AccountID, amount *uint256.Int) error {
	i, ok := d.search(candidate)
	if !ok {
		return reverts.New(reverts.KindNotFound, "delegation not found")
	}
	sum, overflow := new(uint256.Int).AddOverflow(d.Delegations[i].Amount, amount)
	if overflow {
		return reverts.New(reverts.KindOverflow, "delegation overflow")
	}
	d.Delegations[i].Amount = sum
	return nil
}

// Decrease removes amount from the delegation to candidate, dropping it when
// it reaches zero.
func (d *Delegator) Decrease(candidate staking.AccountID, amount *uint256.Int) error {
	i, ok := d.search(candidate)
	if !ok {
		return reverts.New(reverts.KindNotFound, "delegation not found")
	}
	left, underflow := new(uint256.Int).SubOverflow(d.Delegations[i].Amount, amount)
	if underflow {
		return reverts.New(reverts.KindInvalidAmount, "amount exceeds delegation")
	}
	if left.IsZero() {
		d.Delegations = append(d.Delegations[:i], d.Delegations[i+1:]...)
		return nil
	}
	d.Delegations[i].Amount = left
	return nil
}

// Remove drops the delegation to candidate and returns its amount.
func (d *Delegator) Remove(candidate staking.AccountID) (*uint256.Int, error) {
	i, ok := d.search(candidate)
	if !ok {
		return nil, reverts.New(reverts.KindNotFound, "delegation not found")
	}
	amount := d.Delegations[i].Amount
	d.Delegations = append(d.Delegations[:i], d.Delegations[i+1:]...)
	return amount, nil
}
