// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/staker/candidate"
	"github.com/eotlabs/staking-ledger/staker/delegator"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
)

// JoinDelegators adds a delegation from delegatorID to candidateID, creating the
// delegator record on its first delegation.
// block is needed when the candidate is full and its lowest delegator is kicked.
func (s *Staker) JoinDelegators(delegatorID, candidateID staking.AccountID, amount *uint256.Int, block uint32) error {
	logger.Debug("joining delegators", "delegator", delegatorID, "candidate", candidateID, "amount", amount)

	err := s.joinDelegators(delegatorID, candidateID, amount, block)
	if err != nil {
		logger.Info("join delegators failed", "delegator", delegatorID, "candidate", candidateID, "error", err)
		return err
	}

	logger.Info("joined delegators", "delegator", delegatorID, "candidate", candidateID, "amount", amount)
	return nil
}

func (s *Staker) joinDelegators(delegatorID, candidateID staking.AccountID, amount *uint256.Int, block uint32) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		c, err := s.getCandidate(candidateID)
		if err != nil {
			return err
		}
		asCandidate, err := s.candidates.Get(delegatorID)
		if err != nil {
			return err
		}
		if asCandidate != nil {
			return reverts.New(reverts.KindAlreadyCandidate, "candidates can not delegate")
		}
		d, err := s.delegators.Get(delegatorID)
		if err != nil {
			return err
		}
		if d == nil {
			d = &delegator.Delegator{}
		}
		if err := s.checkNewDelegation(d, candidateID, amount); err != nil {
			return err
		}
		return s.addDelegation(delegatorID, d, candidateID, c, amount, block)
	})
}

// DelegateAnotherCandidate adds a delegation to an existing delegator.
func (s *Staker) DelegateAnotherCandidate(delegatorID, candidateID staking.AccountID, amount *uint256.Int, block uint32) error {
	logger.Debug("adding delegation", "delegator", delegatorID, "candidate", candidateID, "amount", amount)

	err := s.delegateAnotherCandidate(delegatorID, candidateID, amount, block)
	if err != nil {
		logger.Info("add delegation failed", "delegator", delegatorID, "candidate", candidateID, "error", err)
		return err
	}

	logger.Info("added delegation", "delegator", delegatorID, "candidate", candidateID, "amount", amount)
	return nil
}

func (s *Staker) delegateAnotherCandidate(delegatorID, candidateID staking.AccountID, amount *uint256.Int, block uint32) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		d, err := s.getDelegator(delegatorID)
		if err != nil {
			return err
		}
		c, err := s.getCandidate(candidateID)
		if err != nil {
			return err
		}
		if err := s.checkNewDelegation(d, candidateID, amount); err != nil {
			return err
		}
		return s.addDelegation(delegatorID, d, candidateID, c, amount, block)
	})
}

func (s *Staker) checkNewDelegation(d *delegator.Delegator, candidateID staking.AccountID, amount *uint256.Int) error {
	if d.Find(candidateID) != nil {
		return reverts.New(reverts.KindDuplicateDelegation, "already delegates to candidate")
	}
	if uint32(len(d.Delegations)) >= s.params.MaxDelegations {
		return reverts.Newf(reverts.KindCapacityExceeded, "delegator reached %d delegations", s.params.MaxDelegations)
	}
	if amount.Lt(s.params.MinDelegatorStake) {
		return reverts.Newf(reverts.KindBelowMinimum, "delegation below minimum of %v", s.params.MinDelegatorStake)
	}
	return nil
}

// addDelegation bonds a new delegation. A full candidate accepts it only when
// it beats the lowest delegation, which is kicked out.
func (s *Staker) addDelegation(
	delegatorID staking.AccountID,
	d *delegator.Delegator,
	candidateID staking.AccountID,
	c *candidate.Candidate,
	amount *uint256.Int,
	block uint32,
) error {
	if uint32(len(c.Delegators)) >= s.params.MaxDelegatorsPerCollator {
		lowest, ok := c.Lowest()
		if !ok || !amount.Gt(lowest.Amount) {
			return reverts.Newf(reverts.KindCapacityExceeded, "candidate reached %d delegators", s.params.MaxDelegatorsPerCollator)
		}
		if err := s.kick(lowest.Owner, candidateID, c, block); err != nil {
			return err
		}
	}

	if err := s.bond(delegatorID, amount); err != nil {
		return err
	}
	if err := c.AddDelegator(delegatorID, amount); err != nil {
		return err
	}
	if err := d.Add(candidateID, amount); err != nil {
		return err
	}
	if err := s.stats.AddDelegators(amount); err != nil {
		return err
	}
	if err := s.candidates.Set(candidateID, c); err != nil {
		return err
	}
	if err := s.delegators.Set(delegatorID, d); err != nil {
		return err
	}
	if err := s.refreshPool(candidateID, c); err != nil {
		return err
	}
	return s.syncLock(delegatorID)
}

// kick unstakes the delegation of kickedID to a full candidate. The caller saves c.
func (s *Staker) kick(kickedID, candidateID staking.AccountID, c *candidate.Candidate, block uint32) error {
	amount, err := c.RemoveDelegator(kickedID)
	if err != nil {
		return err
	}
	d, err := s.getDelegator(kickedID)
	if err != nil {
		return err
	}
	if _, err := d.Remove(candidateID); err != nil {
		return err
	}
	if err := s.stats.SubDelegators(amount); err != nil {
		return err
	}
	if _, err := s.unstaking.Enqueue(kickedID, amount, block); err != nil {
		return err
	}
	if err := s.delegators.Set(kickedID, d); err != nil {
		return err
	}
	logger.Debug("kicked delegator", "delegator", kickedID, "candidate", candidateID, "amount", amount)
	return s.syncLock(kickedID)
}

// DelegatorStakeMore increases the delegation to candidateID.
func (s *Staker) DelegatorStakeMore(delegatorID, candidateID staking.AccountID, amount *uint256.Int) error {
	logger.Debug("increasing delegation", "delegator", delegatorID, "candidate", candidateID, "amount", amount)

	err := s.delegatorStakeMore(delegatorID, candidateID, amount)
	if err != nil {
		logger.Info("increase delegation failed", "delegator", delegatorID, "candidate", candidateID, "error", err)
		return err
	}

	logger.Info("increased delegation", "delegator", delegatorID, "candidate", candidateID, "amount", amount)
	return nil
}

func (s *Staker) delegatorStakeMore(delegatorID, candidateID staking.AccountID, amount *uint256.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		d, err := s.getDelegator(delegatorID)
		if err != nil {
			return err
		}
		if d.Find(candidateID) == nil {
			return reverts.New(reverts.KindNotFound, "delegation not found")
		}
		c, err := s.getCandidate(candidateID)
		if err != nil {
			return err
		}

		if err := s.bond(delegatorID, amount); err != nil {
			return err
		}
		if err := c.IncreaseDelegator(delegatorID, amount); err != nil {
			return err
		}
		if err := d.Increase(candidateID, amount); err != nil {
			return err
		}
		if err := s.stats.AddDelegators(amount); err != nil {
			return err
		}
		return s.saveDelegation(delegatorID, d, candidateID, c)
	})
}

// DelegatorStakeLess decreases the delegation to candidateID, scheduling the
// amount for withdrawal. Use RevokeDelegation to remove it entirely.
func (s *Staker) DelegatorStakeLess(delegatorID, candidateID staking.AccountID, amount *uint256.Int, block uint32) error {
	logger.Debug("decreasing delegation", "delegator", delegatorID, "candidate", candidateID, "amount", amount)

	err := s.delegatorStakeLess(delegatorID, candidateID, amount, block)
	if err != nil {
		logger.Info("decrease delegation failed", "delegator", delegatorID, "candidate", candidateID, "error", err)
		return err
	}

	logger.Info("decreased delegation", "delegator", delegatorID, "candidate", candidateID, "amount", amount)
	return nil
}

func (s *Staker) delegatorStakeLess(delegatorID, candidateID staking.AccountID, amount *uint256.Int, block uint32) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.atomic(func() error {
		d, err := s.getDelegator(delegatorID)
		if err != nil {
			return err
		}
		current := d.Find(candidateID)
		if current == nil {
			return reverts.New(reverts.KindNotFound, "delegation not found")
		}
		if amount.Gt(current) {
			return reverts.New(reverts.KindInvalidAmount, "amount exceeds delegation")
		}
		if new(uint256.Int).Sub(current, amount).Lt(s.params.MinDelegatorStake) {
			return reverts.Newf(reverts.KindBelowMinimum, "remaining delegation below minimum of %v", s.params.MinDelegatorStake)
		}
		c, err := s.getCandidate(candidateID)
		if err != nil {
			return err
		}

		if err := c.DecreaseDelegator(delegatorID, amount); err != nil {
			return err
		}
		if err := d.Decrease(candidateID, amount); err != nil {
			return err
		}
		if err := s.stats.SubDelegators(amount); err != nil {
			return err
		}
		if _, err := s.unstaking.Enqueue(delegatorID, amount, block); err != nil {
			return err
		}
		return s.saveDelegation(delegatorID, d, candidateID, c)
	})
}

func (s *Staker) saveDelegation(delegatorID staking.AccountID, d *delegator.Delegator, candidateID staking.AccountID, c *candidate.Candidate) error {
	if err := s.candidates.Set(candidateID, c); err != nil {
		return err
	}
	if err := s.delegators.Set(delegatorID, d); err != nil {
		return err
	}
	if err := s.refreshPool(candidateID, c); err != nil {
		return err
	}
	return s.syncLock(delegatorID)
}

// RevokeDelegation removes the whole delegation to candidateID.
func (s *Staker) RevokeDelegation(delegatorID, candidateID staking.AccountID, block uint32) error {
	logger.Debug("revoking delegation", "delegator", delegatorID, "candidate", candidateID)

	err := s.atomic(func() error {
		d, err := s.getDelegator(delegatorID)
		if err != nil {
			return err
		}
		if err := s.revoke(delegatorID, d, candidateID, block); err != nil {
			return err
		}
		if err := s.delegators.Set(delegatorID, d); err != nil {
			return err
		}
		return s.syncLock(delegatorID)
	})
	if err != nil {
		logger.Info("revoke delegation failed", "delegator", delegatorID, "candidate", candidateID, "error", err)
		return err
	}

	logger.Info("revoked delegation", "delegator", delegatorID, "candidate", candidateID)
	return nil
}

// LeaveDelegators revokes every delegation of delegatorID.
func (s *Staker) LeaveDelegators(delegatorID staking.AccountID, block uint32) error {
	logger.Debug("leaving delegators", "delegator", delegatorID)

	err := s.atomic(func() error {
		d, err := s.getDelegator(delegatorID)
		if err != nil {
			return err
		}
		for _, candidateID := range d.Candidates() {
			if err := s.revoke(delegatorID, d, candidateID, block); err != nil {
				return err
			}
		}
		if err := s.delegators.Set(delegatorID, d); err != nil {
			return err
		}
		return s.syncLock(delegatorID)
	})
	if err != nil {
		logger.Info("leave delegators failed", "delegator", delegatorID, "error", err)
		return err
	}

	logger.Info("left delegators", "delegator", delegatorID)
	return nil
}

// revoke drops the delegation from d and from the candidate and schedules it
// for withdrawal. The caller saves d.
func (s *Staker) revoke(delegatorID staking.AccountID, d *delegator.Delegator, candidateID staking.AccountID, block uint32) error {
	amount, err := d.Remove(candidateID)
	if err != nil {
		return err
	}
	c, err := s.getCandidate(candidateID)
	if err != nil {
		return err
	}
	if _, err := c.RemoveDelegator(delegatorID); err != nil {
		return err
	}
	if err := s.stats.SubDelegators(amount); err != nil {
		return err
	}
	if _, err := s.unstaking.Enqueue(delegatorID, amount, block); err != nil {
		return err
	}
	if err := s.candidates.Set(candidateID, c); err != nil {
		return err
	}
	return s.refreshPool(candidateID, c)
}
