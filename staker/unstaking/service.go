// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unstaking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/storage"
)

var slotQueues = staking.BytesToBytes32([]byte("unstaking"))

// Service schedules stake withdrawals. Each account has a bounded queue of
// entries maturing UnstakingDelay blocks after the request.
type Service struct {
	queues      *storage.Mapping[staking.AccountID, Queue]
	delay       uint32
	maxRequests uint32
}

func New(sctx *storage.Context, delay, maxRequests uint32) *Service {
	return &Service{
		queues:      storage.NewMapping[staking.AccountID, Queue](sctx, slotQueues),
		delay:       delay,
		maxRequests: maxRequests,
	}
}

// Get returns the pending queue of the account, empty when none exists.
func (s *Service) Get(account staking.AccountID) (Queue, error) {
	q, err := s.queues.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unstaking queue")
	}
	return q, nil
}

func (s *Service) put(account staking.AccountID, q Queue) error {
	if len(q) == 0 {
		s.queues.Delete(account)
		return nil
	}
	if err := s.queues.Set(account, q); err != nil {
		return errors.Wrap(err, "failed to set unstaking queue")
	}
	return nil
}

// Pending returns the sum of every entry of the account, mature or not.
func (s *Service) Pending(account staking.AccountID) (*uint256.Int, error) {
	q, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	total, overflow := q.Total()
	if overflow {
		return nil, errors.New("unstaking queue total overflow")
	}
	return total, nil
}

// Enqueue schedules amount to mature at currentBlock + delay. Requests maturing
// at the same block are merged into one entry.
func (s *Service) Enqueue(account staking.AccountID, amount *uint256.Int, currentBlock uint32) (uint32, error) {
	block, ok := maturity(currentBlock, s.delay)
	if !ok {
		return 0, reverts.Newf(reverts.KindOverflow, "maturity block overflow at %d", currentBlock)
	}

	q, err := s.Get(account)
	if err != nil {
		return 0, err
	}

	i := q.search(block)
	if i < len(q) && q[i].Block == block {
		if _, overflow := q[i].Amount.AddOverflow(q[i].Amount, amount); overflow {
			return 0, reverts.Newf(reverts.KindOverflow, "unstaking amount overflow at block %d", block)
		}
	} else {
		if uint32(len(q)) >= s.maxRequests {
			return 0, reverts.Newf(reverts.KindCapacityExceeded, "unstaking queue is full (%d requests)", s.maxRequests)
		}
		q = append(q, Entry{})
		copy(q[i+1:], q[i:])
		q[i] = Entry{Block: block, Amount: new(uint256.Int).Set(amount)}
	}

	if _, overflow := q.Total(); overflow {
		return 0, reverts.New(reverts.KindOverflow, "unstaking queue total overflow")
	}
	return block, s.put(account, q)
}

// Release removes every entry matured at currentBlock and returns their sum.
// It succeeds with zero when nothing is mature.
func (s *Service) Release(account staking.AccountID, currentBlock uint32) (*uint256.Int, error) {
	q, err := s.Get(account)
	if err != nil {
		return nil, err
	}

	released := new(uint256.Int)
	n := 0
	for ; n < len(q) && q[n].Block <= currentBlock; n++ {
		if _, overflow := released.AddOverflow(released, q[n].Amount); overflow {
			return nil, errors.New("released amount overflow")
		}
	}
	if n == 0 {
		return released, nil
	}
	return released, s.put(account, q[n:])
}

// Consume takes up to amount back from the pending entries, latest maturity
// first, and returns how much was taken.
func (s *Service) Consume(account staking.AccountID, amount *uint256.Int) (*uint256.Int, error) {
	q, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if len(q) == 0 || amount.IsZero() {
		return new(uint256.Int), nil
	}

	left := new(uint256.Int).Set(amount)
	for len(q) > 0 && !left.IsZero() {
		last := &q[len(q)-1]
		if last.Amount.Cmp(left) > 0 {
			last.Amount.Sub(last.Amount, left)
			left.Clear()
			break
		}
		left.Sub(left, last.Amount)
		q = q[:len(q)-1]
	}

	if err := s.put(account, q); err != nil {
		return nil, err
	}
	return new(uint256.Int).Sub(amount, left), nil
}
