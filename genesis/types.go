// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/eotlabs/staking-ledger/staking"
)

// Amount is a 256 bits amount written as a decimal or 0x prefixed hex scalar.
type Amount uint256.Int

func NewAmount(n uint64) *Amount {
	return (*Amount)(uint256.NewInt(n))
}

// Int returns the amount as a new uint256.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set((*uint256.Int)(a))
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", node.Line)
	}
	var v uint256.Int
	if err := v.UnmarshalText([]byte(node.Value)); err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", node.Line, node.Value)
	}
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	v := uint256.Int(a)
	return v.Dec(), nil
}

// Account is an account id written as a 0x prefixed hex scalar.
type Account staking.AccountID

func (a *Account) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: account must be a scalar", node.Line)
	}
	id, err := staking.ParseAccountID(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid account %q", node.Line, node.Value)
	}
	*a = Account(id)
	return nil
}

func (a Account) MarshalYAML() (any, error) {
	return staking.AccountID(a).String(), nil
}

// Params overrides the default staking params. Absent fields keep their default.
type Params struct {
	MinCollatorStake         *Amount `yaml:"minCollatorStake,omitempty"`
	MinDelegatorStake        *Amount `yaml:"minDelegatorStake,omitempty"`
	MaxDelegations           *uint32 `yaml:"maxDelegations,omitempty"`
	MaxDelegatorsPerCollator *uint32 `yaml:"maxDelegatorsPerCollator,omitempty"`
	MaxCandidates            *uint32 `yaml:"maxCandidates,omitempty"`
	MaxSelectedCandidates    *uint32 `yaml:"maxSelectedCandidates,omitempty"`
	MaxUnstakeRequests       *uint32 `yaml:"maxUnstakeRequests,omitempty"`
	UnstakingDelay           *uint32 `yaml:"unstakingDelay,omitempty"`
	BlocksPerRound           *uint32 `yaml:"blocksPerRound,omitempty"`
}

// Balance is an amount minted to an account.
type Balance struct {
	Account Account `yaml:"account"`
	Amount  *Amount `yaml:"amount"`
}

// Collator is a candidate joining with a self stake.
type Collator struct {
	Account Account `yaml:"account"`
	Stake   *Amount `yaml:"stake"`
}

// Delegation is a stake of a delegator to a collator.
type Delegation struct {
	Account  Account `yaml:"account"`
	Collator Account `yaml:"collator"`
	Stake    *Amount `yaml:"stake"`
}
