// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/json"

	"github.com/holiman/uint256"

	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/staker/candidate"
	"github.com/eotlabs/staking-ledger/staker/delegator"
	"github.com/eotlabs/staking-ledger/staker/round"
	"github.com/eotlabs/staking-ledger/staker/stakes"
	"github.com/eotlabs/staking-ledger/staker/unstaking"
	"github.com/eotlabs/staking-ledger/staking"
)

type Stake struct {
	Owner  staking.AccountID `json:"owner"`
	Amount *uint256.Int      `json:"amount"`
}

func convertStakes(list []stakes.Stake) []Stake {
	out := make([]Stake, 0, len(list))
	for _, s := range list {
		out = append(out, Stake{Owner: s.Owner, Amount: s.Amount})
	}
	return out
}

type Candidate struct {
	ID             staking.AccountID `json:"id"`
	SelfStake      *uint256.Int      `json:"selfStake"`
	DelegatedStake *uint256.Int      `json:"delegatedStake"`
	Total          *uint256.Int      `json:"total"`
	Delegators     []Stake           `json:"delegators"`
}

func convertCandidate(id staking.AccountID, c *candidate.Candidate, total *uint256.Int) *Candidate {
	return &Candidate{
		ID:             id,
		SelfStake:      c.SelfStake,
		DelegatedStake: c.DelegatedStake,
		Total:          total,
		Delegators:     convertStakes(c.Delegators),
	}
}

type Delegator struct {
	ID          staking.AccountID `json:"id"`
	Total       *uint256.Int      `json:"total"`
	Delegations []Stake           `json:"delegations"`
}

func convertDelegator(id staking.AccountID, d *delegator.Delegator, total *uint256.Int) *Delegator {
	return &Delegator{
		ID:          id,
		Total:       total,
		Delegations: convertStakes(d.Delegations),
	}
}

type Unstaking struct {
	Block  uint32       `json:"block"`
	Amount *uint256.Int `json:"amount"`
}

func convertQueue(queue unstaking.Queue) []Unstaking {
	out := make([]Unstaking, 0, len(queue))
	for _, e := range queue {
		out = append(out, Unstaking{Block: e.Block, Amount: e.Amount})
	}
	return out
}

type Lock struct {
	ID     string       `json:"id"`
	Amount *uint256.Int `json:"amount"`
}

type Account struct {
	ID      staking.AccountID `json:"id"`
	Free    *uint256.Int      `json:"free"`
	Usable  *uint256.Int      `json:"usable"`
	Locks   []Lock            `json:"locks"`
	Active  *uint256.Int      `json:"active"`
	Pending []Unstaking       `json:"pending"`
}

func convertLocks(locks []balances.Lock) []Lock {
	out := make([]Lock, 0, len(locks))
	for _, l := range locks {
		out = append(out, Lock{ID: l.ID.String(), Amount: l.Amount})
	}
	return out
}

type TotalStake struct {
	Collators  *uint256.Int `json:"collators"`
	Delegators *uint256.Int `json:"delegators"`
}

type Round struct {
	Current    uint32      `json:"current"`
	First      uint32      `json:"first"`
	Length     uint32      `json:"length"`
	TotalStake *TotalStake `json:"totalStake"`
	Selected   []Stake     `json:"selected"`
}

func convertRound(info *round.Info, snap *round.Snapshot) *Round {
	r := &Round{
		Current: info.Current,
		First:   info.First,
		Length:  info.Length,
	}
	if snap != nil {
		r.TotalStake = &TotalStake{Collators: snap.TotalStake.Collators, Delegators: snap.TotalStake.Delegators}
		r.Selected = convertStakes(snap.Selected)
	}
	return r
}

type Method struct {
	Name string `json:"name"`
	View bool   `json:"view"`
}

// CallRequest is a call executed at the head block.
type CallRequest struct {
	Caller *staking.AccountID `json:"caller"`
	Method string             `json:"method"`
	Args   json.RawMessage    `json:"args,omitempty"`
}

// CallResult reports the outcome of a call. A reverted call changes nothing.
type CallResult struct {
	Block    uint32 `json:"block"`
	Result   any    `json:"result"`
	Reverted bool   `json:"reverted"`
	Revert   string `json:"revert,omitempty"`
	Error    string `json:"error,omitempty"`
}
