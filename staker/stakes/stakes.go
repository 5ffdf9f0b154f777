// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/staking"
)

// Stake is an amount bonded by or towards Owner.
type Stake struct {
	Owner  staking.AccountID `json:"owner"`
	Amount *uint256.Int      `json:"amount"`
}

func (s Stake) Copy() Stake {
	return Stake{Owner: s.Owner, Amount: new(uint256.Int).Set(s.Amount)}
}

// Ranks reports whether a sorts before b: larger amounts first, ties by owner ascending.
func Ranks(a, b Stake) bool {
	if c := a.Amount.Cmp(b.Amount); c != 0 {
		return c > 0
	}
	return a.Owner.Compare(b.Owner) < 0
}

// Sum adds up the amounts. The boolean reports an overflow.
func Sum(list []Stake) (*uint256.Int, bool) {
	total := new(uint256.Int)
	for _, s := range list {
		if _, overflow := total.AddOverflow(total, s.Amount); overflow {
			return nil, true
		}
	}
	return total, false
}
