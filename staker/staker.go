// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staker implements the delegated staking ledger of collator
// candidates and their delegators.
package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/log"
	"github.com/eotlabs/staking-ledger/staker/candidate"
	"github.com/eotlabs/staking-ledger/staker/delegator"
	"github.com/eotlabs/staking-ledger/staker/globalstats"
	"github.com/eotlabs/staking-ledger/staker/pool"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staker/round"
	"github.com/eotlabs/staking-ledger/staker/stakes"
	"github.com/eotlabs/staking-ledger/staker/unstaking"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
	"github.com/eotlabs/staking-ledger/storage"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Currency holds the balance locks of accounts.
type Currency interface {
	FreeBalance(id staking.AccountID) (*uint256.Int, error)
	Lock(id staking.AccountID, lockID staking.LockIdentifier) (*uint256.Int, error)
	SetLock(id staking.AccountID, lockID staking.LockIdentifier, amount *uint256.Int) error
	RemoveLock(id staking.AccountID, lockID staking.LockIdentifier) error
}

// Staker implements the staking operations over a journaled state.
// Every mutating operation either fully applies or leaves the state untouched.
type Staker struct {
	state    *state.State
	params   *staking.Params
	currency Currency

	candidates *candidate.Service
	delegators *delegator.Service
	unstaking  *unstaking.Service
	stats      *globalstats.Service
	pool       *pool.Pool
	rounds     *round.Service
}

// New create a new instance. The currency should keep its data in st, so a
// reverted operation also reverts the locks.
func New(addr staking.AccountID, st *state.State, params *staking.Params, currency Currency) *Staker {
	sctx := storage.NewContext(addr, st)
	return &Staker{
		state:    st,
		params:   params,
		currency: currency,

		candidates: candidate.New(sctx),
		delegators: delegator.New(sctx),
		unstaking:  unstaking.New(sctx, params.UnstakingDelay, params.MaxUnstakeRequests),
		stats:      globalstats.New(sctx),
		pool:       pool.New(sctx),
		rounds:     round.New(sctx),
	}
}

//
// Getters - no state change
//

// Params returns the params the staker was built with.
func (s *Staker) Params() *staking.Params {
	return s.params
}

// Candidate returns the candidate record of id, nil if it is not a candidate.
func (s *Staker) Candidate(id staking.AccountID) (*candidate.Candidate, error) {
	return s.candidates.Get(id)
}

// Delegator returns the delegator record of id, nil if it does not delegate.
func (s *Staker) Delegator(id staking.AccountID) (*delegator.Delegator, error) {
	return s.delegators.Get(id)
}

// Unstaking returns the pending withdrawals of id.
func (s *Staker) Unstaking(id staking.AccountID) (unstaking.Queue, error) {
	return s.unstaking.Get(id)
}

// TotalStake returns the network wide totals.
func (s *Staker) TotalStake() (*globalstats.TotalStake, error) {
	return s.stats.Get()
}

// CollatorList lists every candidate with its total, highest first.
func (s *Staker) CollatorList() ([]stakes.Stake, error) {
	return s.pool.Top(0)
}

// SelectedCandidates returns the candidates selected for the running round.
// Before the first round it returns the current top of the pool.
func (s *Staker) SelectedCandidates() ([]stakes.Stake, error) {
	info, err := s.rounds.Info()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return s.pool.Top(int(s.params.MaxSelectedCandidates))
	}
	snap, err := s.rounds.Snapshot(info.Current)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errors.Errorf("missing snapshot of round %d", info.Current)
	}
	return snap.Selected, nil
}

// Round returns the running round, nil before the first one.
func (s *Staker) Round() (*round.Info, error) {
	return s.rounds.Info()
}

// RoundSnapshot returns the snapshot taken when round started.
func (s *Staker) RoundSnapshot(r uint32) (*round.Snapshot, error) {
	return s.rounds.Snapshot(r)
}

// LockedAmount returns the amount held under the staking lock of id.
func (s *Staker) LockedAmount(id staking.AccountID) (*uint256.Int, error) {
	return s.currency.Lock(id, staking.StakingLockID)
}

// ActiveStake returns what id has bonded, as candidate and as delegator.
func (s *Staker) ActiveStake(id staking.AccountID) (*uint256.Int, error) {
	active := new(uint256.Int)
	c, err := s.candidates.Get(id)
	if err != nil {
		return nil, err
	}
	if c != nil {
		active.Set(c.SelfStake)
	}
	d, err := s.delegators.Get(id)
	if err != nil {
		return nil, err
	}
	if d != nil {
		total, err := d.Total()
		if err != nil {
			return nil, err
		}
		if _, overflow := active.AddOverflow(active, total); overflow {
			return nil, reverts.New(reverts.KindOverflow, "active stake overflow")
		}
	}
	return active, nil
}

//
// Helpers
//

// atomic runs fn inside a checkpoint reverted when fn fails.
func (s *Staker) atomic(fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

func validateAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return reverts.New(reverts.KindInvalidAmount, "amount must be positive")
	}
	return nil
}

// syncLock sets the staking lock of id to its active stake plus pending
// withdrawals, removing it when both are empty.
func (s *Staker) syncLock(id staking.AccountID) error {
	active, err := s.ActiveStake(id)
	if err != nil {
		return err
	}
	pending, err := s.unstaking.Pending(id)
	if err != nil {
		return err
	}
	want, overflow := new(uint256.Int).AddOverflow(active, pending)
	if overflow {
		return reverts.New(reverts.KindOverflow, "lock amount overflow")
	}
	if want.IsZero() {
		return s.currency.RemoveLock(id, staking.StakingLockID)
	}

	current, err := s.currency.Lock(id, staking.StakingLockID)
	if err != nil {
		return errors.Wrap(err, "failed to get lock")
	}
	if want.Gt(current) {
		free, err := s.currency.FreeBalance(id)
		if err != nil {
			return errors.Wrap(err, "failed to get free balance")
		}
		if want.Gt(free) {
			return reverts.Newf(reverts.KindInsufficientBalance, "balance %v can not cover lock of %v", free, want)
		}
	}
	return s.currency.SetLock(id, staking.StakingLockID, want)
}

// bond takes amount back from the pending withdrawals of id before the
// stake grows, so re-staking does not lock the same funds twice.
func (s *Staker) bond(id staking.AccountID, amount *uint256.Int) error {
	consumed, err := s.unstaking.Consume(id, amount)
	if err != nil {
		return err
	}
	if !consumed.IsZero() {
		logger.Debug("restaked pending unstaking", "account", id, "amount", consumed)
	}
	return nil
}

// refreshPool moves a candidate to the position of its current total.
func (s *Staker) refreshPool(id staking.AccountID, c *candidate.Candidate) error {
	total, err := c.Total()
	if err != nil {
		return err
	}
	return s.pool.Update(id, total)
}

func (s *Staker) getCandidate(id staking.AccountID) (*candidate.Candidate, error) {
	c, err := s.candidates.Get(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, reverts.Newf(reverts.KindNotFound, "candidate %v not found", id.AbbrevString())
	}
	return c, nil
}

func (s *Staker) getDelegator(id staking.AccountID) (*delegator.Delegator, error) {
	d, err := s.delegators.Get(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, reverts.Newf(reverts.KindNotFound, "delegator %v not found", id.AbbrevString())
	}
	return d, nil
}
