// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/eotlabs/staking-ledger/staking"
)

// DevAccounts are the well known accounts of the dev genesis.
var DevAccounts = map[string]staking.AccountID{
	"alice":   staking.BytesToAccountID([]byte("alice")),
	"bob":     staking.BytesToAccountID([]byte("bob")),
	"charlie": staking.BytesToAccountID([]byte("charlie")),
	"dave":    staking.BytesToAccountID([]byte("dave")),
}

func uint32p(v uint32) *uint32 {
	return &v
}

// NewDevnet returns a small genesis with short delays, for local testing.
func NewDevnet() *Genesis {
	alice := Account(DevAccounts["alice"])
	bob := Account(DevAccounts["bob"])
	charlie := Account(DevAccounts["charlie"])
	dave := Account(DevAccounts["dave"])

	return &Genesis{
		Params: Params{
			MinCollatorStake:  NewAmount(10),
			MinDelegatorStake: NewAmount(5),
			UnstakingDelay:    uint32p(10),
			BlocksPerRound:    uint32p(20),
		},
		Balances: []Balance{
			{alice, NewAmount(1000)},
			{bob, NewAmount(1000)},
			{charlie, NewAmount(1000)},
			{dave, NewAmount(1000)},
		},
		Collators: []Collator{
			{alice, NewAmount(100)},
			{charlie, NewAmount(50)},
		},
		Delegators: []Delegation{
			{bob, alice, NewAmount(100)},
		},
	}
}
