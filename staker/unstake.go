// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/staking"
)

// UnlockUnstaked releases the matured withdrawals of account and shrinks its
// lock to what is still staked or pending. It returns the released amount,
// zero when nothing is mature.
func (s *Staker) UnlockUnstaked(account staking.AccountID, block uint32) (*uint256.Int, error) {
	var released *uint256.Int
	err := s.atomic(func() error {
		var err error
		if released, err = s.unstaking.Release(account, block); err != nil {
			return err
		}
		return s.syncLock(account)
	})
	if err != nil {
		logger.Info("unlock unstaked failed", "account", account, "error", err)
		return nil, err
	}

	if !released.IsZero() {
		logger.Info("unlocked unstaked", "account", account, "amount", released, "block", block)
	}
	return released, nil
}
