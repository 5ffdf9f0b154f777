// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math"

	"github.com/eotlabs/staking-ledger/staker/round"
)

// OnInitialize runs at the start of every block. It starts a new round once
// the running one has lasted BlocksPerRound blocks, or the first round if
// none was started yet.
func (s *Staker) OnInitialize(block uint32) (started bool, err error) {
	err = s.atomic(func() error {
		info, err := s.rounds.Info()
		if err != nil {
			return err
		}
		next := &round.Info{First: block, Length: s.params.BlocksPerRound}
		if info != nil {
			if !info.ShouldStart(block) {
				return nil
			}
			next.Current = info.Current + 1
		}

		total, err := s.stats.Get()
		if err != nil {
			return err
		}
		selected, err := s.pool.Top(int(s.params.MaxSelectedCandidates))
		if err != nil {
			return err
		}
		if err := s.rounds.Start(next, &round.Snapshot{
			Round:      next.Current,
			TotalStake: *total,
			Selected:   selected,
		}); err != nil {
			return err
		}
		started = true
		logger.Debug("started new round", "round", next.Current, "block", block, "selected", len(selected))
		return nil
	})
	return
}

// NextRoundStart returns the first block not before from at which
// OnInitialize starts a round. ok is false when no such block fits in uint32.
func (s *Staker) NextRoundStart(from uint32) (block uint32, ok bool, err error) {
	info, err := s.rounds.Info()
	if err != nil {
		return 0, false, err
	}
	if info == nil {
		return from, true, nil
	}
	next := uint64(info.First) + uint64(info.Length)
	if next < uint64(from) {
		next = uint64(from)
	}
	if next > math.MaxUint32 {
		return 0, false, nil
	}
	return uint32(next), true, nil
}
