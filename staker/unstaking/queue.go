// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unstaking

import (
	"math"
	"sort"

	"github.com/holiman/uint256"
)

// Entry is an amount withdrawable from Block on.
type Entry struct {
	Block  uint32       `json:"block"`
	Amount *uint256.Int `json:"amount"`
}

// Queue holds the pending entries of an account sorted by block, one entry per block.
type Queue []Entry

// Total sums the pending amounts. The boolean reports an overflow.
func (q Queue) Total() (*uint256.Int, bool) {
	total := new(uint256.Int)
	for _, e := range q {
		if _, overflow := total.AddOverflow(total, e.Amount); overflow {
			return nil, true
		}
	}
	return total, false
}

func (q Queue) search(block uint32) int {
	return sort.Search(len(q), func(i int) bool { return q[i].Block >= block })
}

func maturity(current, delay uint32) (uint32, bool) {
	if uint64(current)+uint64(delay) > math.MaxUint32 {
		return 0, false
	}
	return current + delay, true
}
