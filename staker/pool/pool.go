// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool keeps the candidate pool, a doubly linked list in storage
// ordered by total stake descending, ties broken by owner ascending.
package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staker/stakes"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/storage"
)

var (
	slotHead   = staking.BytesToBytes32([]byte("pool-head"))
	slotTail   = staking.BytesToBytes32([]byte("pool-tail"))
	slotCount  = staking.BytesToBytes32([]byte("pool-count"))
	slotTotals = staking.BytesToBytes32([]byte("pool-totals"))
	slotNext   = staking.BytesToBytes32([]byte("pool-next"))
	slotPrev   = staking.BytesToBytes32([]byte("pool-prev"))
)

type Pool struct {
	head   *storage.Account
	tail   *storage.Account
	count  *storage.Uint256
	next   *storage.Mapping[staking.AccountID, staking.AccountID]
	prev   *storage.Mapping[staking.AccountID, staking.AccountID]
	totals *storage.Mapping[staking.AccountID, *uint256.Int]
}

func New(sctx *storage.Context) *Pool {
	return &Pool{
		head:   storage.NewAccount(sctx, slotHead),
		tail:   storage.NewAccount(sctx, slotTail),
		count:  storage.NewUint256(sctx, slotCount),
		next:   storage.NewMapping[staking.AccountID, staking.AccountID](sctx, slotNext),
		prev:   storage.NewMapping[staking.AccountID, staking.AccountID](sctx, slotPrev),
		totals: storage.NewMapping[staking.AccountID, *uint256.Int](sctx, slotTotals),
	}
}

// Len returns the number of candidates in the pool.
func (p *Pool) Len() (uint64, error) {
	n, err := p.count.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Contains reports whether owner is in the pool.
func (p *Pool) Contains(owner staking.AccountID) (bool, error) {
	total, err := p.totals.Get(owner)
	if err != nil {
		return false, err
	}
	return total != nil, nil
}

func (p *Pool) rank(owner staking.AccountID, total *uint256.Int, other staking.AccountID) (bool, error) {
	otherTotal, err := p.totals.Get(other)
	if err != nil {
		return false, err
	}
	return stakes.Ranks(stakes.Stake{Owner: owner, Amount: total}, stakes.Stake{Owner: other, Amount: otherTotal}), nil
}

// Insert adds owner at its ordered position.
func (p *Pool) Insert(owner staking.AccountID, total *uint256.Int) error {
	if owner.IsZero() {
		return errors.New("zero account can not join the pool")
	}
	if ok, err := p.Contains(owner); err != nil {
		return err
	} else if ok {
		return errors.New("account already in the pool")
	}
	if err := p.totals.Set(owner, total); err != nil {
		return err
	}

	// walk from the head to the first node ranking below owner
	var prev staking.AccountID
	cur, err := p.head.Get()
	if err != nil {
		return err
	}
	for !cur.IsZero() {
		before, err := p.rank(owner, total, cur)
		if err != nil {
			return err
		}
		if before {
			break
		}
		prev = cur
		if cur, err = p.next.Get(cur); err != nil {
			return err
		}
	}

	if prev.IsZero() {
		p.head.Set(&owner)
	} else if err := p.next.Set(prev, owner); err != nil {
		return err
	}
	if cur.IsZero() {
		p.tail.Set(&owner)
	} else if err := p.prev.Set(cur, owner); err != nil {
		return err
	}
	if !prev.IsZero() {
		if err := p.prev.Set(owner, prev); err != nil {
			return err
		}
	}
	if !cur.IsZero() {
		if err := p.next.Set(owner, cur); err != nil {
			return err
		}
	}
	return p.count.Add(uint256.NewInt(1))
}

// Remove unlinks owner, doing nothing if it is not in the pool.
func (p *Pool) Remove(owner staking.AccountID) error {
	if ok, err := p.Contains(owner); err != nil || !ok {
		return err
	}

	prev, err := p.prev.Get(owner)
	if err != nil {
		return err
	}
	next, err := p.next.Get(owner)
	if err != nil {
		return err
	}

	if prev.IsZero() {
		p.head.Set(&next)
	} else if err := p.next.Set(prev, next); err != nil {
		return err
	}
	if next.IsZero() {
		p.tail.Set(&prev)
	} else if err := p.prev.Set(next, prev); err != nil {
		return err
	}

	p.next.Delete(owner)
	p.prev.Delete(owner)
	p.totals.Delete(owner)
	return p.count.Sub(uint256.NewInt(1))
}

// Update moves owner to the position of its new total.
func (p *Pool) Update(owner staking.AccountID, total *uint256.Int) error {
	if err := p.Remove(owner); err != nil {
		return err
	}
	return p.Insert(owner, total)
}

// Iter walks the pool in order until callback returns false or an error.
func (p *Pool) Iter(callback func(stakes.Stake) (bool, error)) error {
	cur, err := p.head.Get()
	if err != nil {
		return err
	}
	for !cur.IsZero() {
		total, err := p.totals.Get(cur)
		if err != nil {
			return err
		}
		if total == nil {
			return errors.Errorf("pool node %v has no total", cur)
		}
		if ok, err := callback(stakes.Stake{Owner: cur, Amount: total}); err != nil || !ok {
			return err
		}
		if cur, err = p.next.Get(cur); err != nil {
			return err
		}
	}
	return nil
}

// Top returns at most n leading entries, every entry when n is zero.
func (p *Pool) Top(n int) ([]stakes.Stake, error) {
	var list []stakes.Stake
	err := p.Iter(func(s stakes.Stake) (bool, error) {
		list = append(list, s)
		return n == 0 || len(list) < n, nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
