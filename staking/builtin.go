// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

// Accounts owning the storage of the builtin modules.
var (
	StakerAccount   = BytesToAccountID([]byte("Staker"))
	BalancesAccount = BytesToAccountID([]byte("Balances"))
	LedgerAccount   = BytesToAccountID([]byte("Ledger"))
)
