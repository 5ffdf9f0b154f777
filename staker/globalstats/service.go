// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/storage"
)

var (
	slotCollators  = staking.BytesToBytes32([]byte("total-collators"))
	slotDelegators = staking.BytesToBytes32([]byte("total-delegators"))
)

// TotalStake is the network wide stake consumed by collator selection.
type TotalStake struct {
	Collators  *uint256.Int `json:"collators"`
	Delegators *uint256.Int `json:"delegators"`
}

// Service manages contract-wide staking totals.
// Every delta must be applied in the same checkpoint as the record change it mirrors.
type Service struct {
	collators  *storage.Uint256
	delegators *storage.Uint256
}

func New(sctx *storage.Context) *Service {
	return &Service{
		collators:  storage.NewUint256(sctx, slotCollators),
		delegators: storage.NewUint256(sctx, slotDelegators),
	}
}

// Get returns the current totals.
func (s *Service) Get() (*TotalStake, error) {
	collators, err := s.collators.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get collators total")
	}
	delegators, err := s.delegators.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegators total")
	}
	return &TotalStake{Collators: collators, Delegators: delegators}, nil
}

func (s *Service) AddCollators(delta *uint256.Int) error {
	return add(s.collators, delta, "collators")
}

func (s *Service) SubCollators(delta *uint256.Int) error {
	return sub(s.collators, delta, "collators")
}

func (s *Service) AddDelegators(delta *uint256.Int) error {
	return add(s.delegators, delta, "delegators")
}

func (s *Service) SubDelegators(delta *uint256.Int) error {
	return sub(s.delegators, delta, "delegators")
}

func add(slot *storage.Uint256, delta *uint256.Int, name string) error {
	if err := slot.Add(delta); err != nil {
		if errors.Is(err, storage.ErrOverflow) {
			return reverts.Newf(reverts.KindOverflow, "total %s overflow", name)
		}
		return errors.Wrapf(err, "failed to add %s total", name)
	}
	return nil
}

// sub reports an underflow as an internal error, it means the totals drifted
// from the records.
func sub(slot *storage.Uint256, delta *uint256.Int, name string) error {
	if err := slot.Sub(delta); err != nil {
		return errors.Wrapf(err, "failed to sub %s total", name)
	}
	return nil
}
