// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial state of a ledger from a yaml file.
package genesis

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/log"
	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staking"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis describes the params, balances and stakes the ledger starts with.
type Genesis struct {
	Params     Params       `yaml:"params"`
	Balances   []Balance    `yaml:"balances"`
	Collators  []Collator   `yaml:"collators"`
	Delegators []Delegation `yaml:"delegators"`
}

// Load reads the genesis file at path.
func Load(path string) (*Genesis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer file.Close()

	gen, err := Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v", path)
	}
	return gen, nil
}

// Decode reads a genesis document. Unknown fields are rejected.
func Decode(r io.Reader) (*Genesis, error) {
	var gen Genesis
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&gen); err != nil {
		if err == io.EOF {
			return &gen, nil
		}
		return nil, err
	}
	return &gen, nil
}

// StakingParams returns the default params with the overrides applied.
func (g *Genesis) StakingParams() (*staking.Params, error) {
	p := staking.DefaultParams()
	o := g.Params
	if o.MinCollatorStake != nil {
		p.MinCollatorStake = o.MinCollatorStake.Int()
	}
	if o.MinDelegatorStake != nil {
		p.MinDelegatorStake = o.MinDelegatorStake.Int()
	}
	for _, f := range []struct {
		dst *uint32
		src *uint32
	}{
		{&p.MaxDelegations, o.MaxDelegations},
		{&p.MaxDelegatorsPerCollator, o.MaxDelegatorsPerCollator},
		{&p.MaxCandidates, o.MaxCandidates},
		{&p.MaxSelectedCandidates, o.MaxSelectedCandidates},
		{&p.MaxUnstakeRequests, o.MaxUnstakeRequests},
		{&p.UnstakingDelay, o.UnstakingDelay},
		{&p.BlocksPerRound, o.BlocksPerRound},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis params")
	}
	return p, nil
}

// Apply mints the balances, then joins the collators and the delegators in
// file order. It is meant to run inside ledger.Setup.
func (g *Genesis) Apply(s *staker.Staker, b *balances.Balances) error {
	for _, bal := range g.Balances {
		id := staking.AccountID(bal.Account)
		if bal.Amount == nil || bal.Amount.Int().IsZero() {
			return errors.Errorf("%v: balance must be positive", id)
		}
		if err := b.Mint(id, bal.Amount.Int()); err != nil {
			return errors.Wrapf(err, "mint %v", id)
		}
	}

	for _, c := range g.Collators {
		id := staking.AccountID(c.Account)
		if err := s.JoinCandidates(id, c.Stake.Int()); err != nil {
			return errors.Wrapf(err, "collator %v", id)
		}
	}

	for _, d := range g.Delegators {
		id, collator := staking.AccountID(d.Account), staking.AccountID(d.Collator)
		existing, err := s.Delegator(id)
		if err != nil {
			return err
		}
		if existing == nil {
			err = s.JoinDelegators(id, collator, d.Stake.Int(), 0)
		} else {
			err = s.DelegateAnotherCandidate(id, collator, d.Stake.Int(), 0)
		}
		if err != nil {
			return errors.Wrapf(err, "delegator %v to %v", id, collator)
		}
	}

	logger.Info("genesis applied",
		"balances", len(g.Balances),
		"collators", len(g.Collators),
		"delegators", len(g.Delegators),
	)
	return nil
}
