// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/storage"
)

var slotCandidates = staking.BytesToBytes32([]byte("candidates"))

// Service stores candidate records keyed by owner.
type Service struct {
	candidates *storage.Mapping[staking.AccountID, *Candidate]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		candidates: storage.NewMapping[staking.AccountID, *Candidate](sctx, slotCandidates),
	}
}

// Get returns the candidate of owner, nil when it does not exist.
func (s *Service) Get(owner staking.AccountID) (*Candidate, error) {
	c, err := s.candidates.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate")
	}
	return c, nil
}

func (s *Service) Set(owner staking.AccountID, c *Candidate) error {
	if err := s.candidates.Set(owner, c); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	return nil
}

func (s *Service) Delete(owner staking.AccountID) {
	s.candidates.Delete(owner)
}
