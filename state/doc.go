// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage slots of the ledger's builtin accounts.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk write ]
//	         |
//	  [ slot cache ]
//	         |
//	  [ kv store ]
//
// Every slot is addressed by an owner account and a 32 bytes key, and
// holds an rlp encoded value. An empty value means the slot is absent.
package state
