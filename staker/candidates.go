// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/staker/candidate"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
)

// JoinCandidates makes owner a collator candidate bonding amount.
func (s *Staker) JoinCandidates(owner staking.AccountID, amount *uint256.Int) error {
	logger.Debug("joining candidates", "candidate", owner, "amount", amount)

	err := s.joinCandidates(owner, amount)
	if err != nil {
		logger.Info("join candidates failed", "candidate", owner, "error", err)
		return err
	}

	logger.Info("joined candidates", "candidate", owner, "amount", amount)
	return nil
}

func (s *Staker) joinCandidates(owner staking.AccountID, amount *uint256.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		c, err := s.candidates.Get(owner)
		if err != nil {
			return err
		}
		if c != nil {
			return reverts.New(reverts.KindAlreadyCandidate, "already a candidate")
		}
		d, err := s.delegators.Get(owner)
		if err != nil {
			return err
		}
		if d != nil {
			return reverts.New(reverts.KindAlreadyDelegating, "delegators can not be candidates")
		}
		if amount.Lt(s.params.MinCollatorStake) {
			return reverts.Newf(reverts.KindBelowMinimum, "self stake below minimum of %v", s.params.MinCollatorStake)
		}
		n, err := s.pool.Len()
		if err != nil {
			return err
		}
		if n >= uint64(s.params.MaxCandidates) {
			return reverts.Newf(reverts.KindCapacityExceeded, "candidate pool reached %d candidates", s.params.MaxCandidates)
		}

		if err := s.bond(owner, amount); err != nil {
			return err
		}
		c = candidate.NewCandidate(amount)
		if err := s.stats.AddCollators(amount); err != nil {
			return err
		}
		if err := s.candidates.Set(owner, c); err != nil {
			return err
		}
		if err := s.pool.Insert(owner, amount); err != nil {
			return err
		}
		return s.syncLock(owner)
	})
}

// CandidateStakeMore increases the self stake of owner.
func (s *Staker) CandidateStakeMore(owner staking.AccountID, amount *uint256.Int) error {
	logger.Debug("increasing self stake", "candidate", owner, "amount", amount)

	err := s.candidateStakeMore(owner, amount)
	if err != nil {
		logger.Info("increase self stake failed", "candidate", owner, "error", err)
		return err
	}

	logger.Info("increased self stake", "candidate", owner, "amount", amount)
	return nil
}

func (s *Staker) candidateStakeMore(owner staking.AccountID, amount *uint256.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		c, err := s.getCandidate(owner)
		if err != nil {
			return err
		}
		if err := s.bond(owner, amount); err != nil {
			return err
		}
		sum, overflow := new(uint256.Int).AddOverflow(c.SelfStake, amount)
		if overflow {
			return reverts.New(reverts.KindOverflow, "self stake overflow")
		}
		c.SelfStake = sum
		if err := s.stats.AddCollators(amount); err != nil {
			return err
		}
		return s.saveCandidate(owner, c)
	})
}

// CandidateStakeLess decreases the self stake of owner, scheduling the amount
// for withdrawal. The remaining self stake must stay above the minimum.
func (s *Staker) CandidateStakeLess(owner staking.AccountID, amount *uint256.Int, block uint32) error {
	logger.Debug("decreasing self stake", "candidate", owner, "amount", amount)

	err := s.candidateStakeLess(owner, amount, block)
	if err != nil {
		logger.Info("decrease self stake failed", "candidate", owner, "error", err)
		return err
	}

	logger.Info("decreased self stake", "candidate", owner, "amount", amount)
	return nil
}

func (s *Staker) candidateStakeLess(owner staking.AccountID, amount *uint256.Int, block uint32) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		c, err := s.getCandidate(owner)
		if err != nil {
			return err
		}
		if amount.Gt(c.SelfStake) {
			return reverts.New(reverts.KindInvalidAmount, "amount exceeds self stake")
		}
		left := new(uint256.Int).Sub(c.SelfStake, amount)
		if left.Lt(s.params.MinCollatorStake) {
			return reverts.Newf(reverts.KindBelowMinimum, "remaining self stake below minimum of %v", s.params.MinCollatorStake)
		}
		c.SelfStake = left
		if err := s.stats.SubCollators(amount); err != nil {
			return err
		}
		if _, err := s.unstaking.Enqueue(owner, amount, block); err != nil {
			return err
		}
		return s.saveCandidate(owner, c)
	})
}

func (s *Staker) saveCandidate(owner staking.AccountID, c *candidate.Candidate) error {
	if err := s.candidates.Set(owner, c); err != nil {
		return err
	}
	if err := s.refreshPool(owner, c); err != nil {
		return err
	}
	return s.syncLock(owner)
}

// LeaveCandidates removes owner from the candidates. Its self stake and every
// delegation to it are scheduled for withdrawal in the queue of their owner.
func (s *Staker) LeaveCandidates(owner staking.AccountID, block uint32) error {
	logger.Debug("leaving candidates", "candidate", owner)

	err := s.atomic(func() error {
		c, err := s.getCandidate(owner)
		if err != nil {
			return err
		}

		for _, stake := range c.Delegators {
			d, err := s.getDelegator(stake.Owner)
			if err != nil {
				return err
			}
			if _, err := d.Remove(owner); err != nil {
				return err
			}
			if err := s.stats.SubDelegators(stake.Amount); err != nil {
				return err
			}
			if _, err := s.unstaking.Enqueue(stake.Owner, stake.Amount, block); err != nil {
				return err
			}
			if err := s.delegators.Set(stake.Owner, d); err != nil {
				return err
			}
			if err := s.syncLock(stake.Owner); err != nil {
				return err
			}
		}

		if err := s.stats.SubCollators(c.SelfStake); err != nil {
			return err
		}
		if _, err := s.unstaking.Enqueue(owner, c.SelfStake, block); err != nil {
			return err
		}
		s.candidates.Delete(owner)
		if err := s.pool.Remove(owner); err != nil {
			return err
		}
		return s.syncLock(owner)
	})
	if err != nil {
		logger.Info("leave candidates failed", "candidate", owner, "error", err)
		return err
	}

	logger.Info("left candidates", "candidate", owner)
	return nil
}
