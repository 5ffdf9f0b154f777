// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package round

import (
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staker/globalstats"
	"github.com/eotlabs/staking-ledger/staker/stakes"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/storage"
)

var (
	slotInfo      = staking.BytesToBytes32([]byte("round-info"))
	slotSnapshots = staking.BytesToBytes32([]byte("round-snapshots"))
)

// Info describes the running round.
type Info struct {
	Current uint32 `json:"current"`
	First   uint32 `json:"first"`
	Length  uint32 `json:"length"`
}

// ShouldStart reports whether a new round begins at block.
func (i *Info) ShouldStart(block uint32) bool {
	return uint64(block) >= uint64(i.First)+uint64(i.Length)
}

// Snapshot is what selection reads for a whole round.
type Snapshot struct {
	Round      uint32                 `json:"round"`
	TotalStake globalstats.TotalStake `json:"totalStake"`
	Selected   []stakes.Stake         `json:"selected"`
}

type roundKey uint32

func (k roundKey) Bytes() []byte {
	return []byte{byte(k >> 24), byte(k >> 16), byte(k >> 8), byte(k)}
}

type Service struct {
	info      *storage.Value[*Info]
	snapshots *storage.Mapping[roundKey, *Snapshot]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		info:      storage.NewValue[*Info](sctx, slotInfo),
		snapshots: storage.NewMapping[roundKey, *Snapshot](sctx, slotSnapshots),
	}
}

// Info returns the running round, nil before the first one starts.
func (s *Service) Info() (*Info, error) {
	info, err := s.info.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get round info")
	}
	return info, nil
}

// Snapshot returns the snapshot of round, nil if it was never taken.
func (s *Service) Snapshot(round uint32) (*Snapshot, error) {
	snap, err := s.snapshots.Get(roundKey(round))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get round snapshot")
	}
	return snap, nil
}

// Start makes info the running round and records its snapshot.
func (s *Service) Start(info *Info, snap *Snapshot) error {
	if snap.Round != info.Current {
		return errors.Errorf("snapshot of round %d for round %d", snap.Round, info.Current)
	}
	if err := s.info.Set(info); err != nil {
		return errors.Wrap(err, "failed to set round info")
	}
	if err := s.snapshots.Set(roundKey(snap.Round), snap); err != nil {
		return errors.Wrap(err, "failed to set round snapshot")
	}
	return nil
}
