// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/eotlabs/staking-ledger/kv"
)

// Stage holds the final value of every slot touched by a state.
type Stage struct {
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Write puts all changes into the given putter.
func (s *Stage) Write(putter kv.Putter) error {
	for _, k := range s.order {
		v := s.changes[k]
		if len(v) == 0 {
			if err := putter.Delete(k.bytes()); err != nil {
				return err
			}
			continue
		}
		if err := putter.Put(k.bytes(), v); err != nil {
			return err
		}
	}
	return nil
}
