// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegator

import (
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/storage"
)

var slotDelegators = staking.BytesToBytes32([]byte("delegators"))

// Service stores delegator records keyed by owner.
type Service struct {
	delegators *storage.Mapping[staking.AccountID, *Delegator]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		delegators: storage.NewMapping[staking.AccountID, *Delegator](sctx, slotDelegators),
	}
}

// Get returns the delegator of owner, nil when it does not exist.
func (s *Service) Get(owner staking.AccountID) (*Delegator, error) {
	d, err := s.delegators.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegator")
	}
	return d, nil
}

// Set stores the record, deleting it once it holds no delegation.
func (s *Service) Set(owner staking.AccountID, d *Delegator) error {
	if d.IsEmpty() {
		s.delegators.Delete(owner)
		return nil
	}
	if err := s.delegators.Set(owner, d); err != nil {
		return errors.Wrap(err, "failed to set delegator")
	}
	return nil
}
