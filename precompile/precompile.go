// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package precompile maps named external calls to staking operations.
package precompile

import (
	"encoding/json"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staking"
)

// ErrUnknownMethod is returned for calls to methods that do not exist.
var ErrUnknownMethod = errors.New("unknown method")

// CollatorInfo is an entry of the collator list.
type CollatorInfo struct {
	Owner  staking.AccountID `json:"owner"`
	Amount *uint256.Int      `json:"amount"`
}

// Method describes a call.
type Method struct {
	name string
	view bool
	run  func(env *Env) (any, error)
}

func (m *Method) Name() string {
	return m.name
}

// View reports whether the method leaves the state untouched.
func (m *Method) View() bool {
	return m.view
}

// Run invokes the method on behalf of caller at block.
func (m *Method) Run(s *staker.Staker, caller staking.AccountID, block uint32, args json.RawMessage) (any, error) {
	return m.run(NewEnv(s, caller, block, args))
}

var methods = make(map[string]*Method)

// Lookup returns the method called name.
func Lookup(name string) (*Method, error) {
	m, ok := methods[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMethod, "%q", name)
	}
	return m, nil
}

// Methods lists the method names in order.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	type collatorArgs struct {
		Collator staking.AccountID `json:"collator"`
		Stake    *uint256.Int      `json:"stake"`
	}
	type stakeArgs struct {
		Stake *uint256.Int `json:"stake"`
	}

	defines := []struct {
		name string
		view bool
		run  func(env *Env) (any, error)
	}{
		{"get_collator_list", true, func(env *Env) (any, error) {
			list, err := env.Staker().CollatorList()
			if err != nil {
				return nil, err
			}
			infos := make([]CollatorInfo, 0, len(list))
			for _, s := range list {
				infos = append(infos, CollatorInfo{Owner: s.Owner, Amount: s.Amount})
			}
			return infos, nil
		}},
		{"join_delegators", false, func(env *Env) (any, error) {
			var args collatorArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().JoinDelegators(env.Caller(), args.Collator, args.Stake, env.BlockNumber())
		}},
		{"delegate_another_candidate", false, func(env *Env) (any, error) {
			var args collatorArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().DelegateAnotherCandidate(env.Caller(), args.Collator, args.Stake, env.BlockNumber())
		}},
		{"delegator_stake_more", false, func(env *Env) (any, error) {
			var args collatorArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().DelegatorStakeMore(env.Caller(), args.Collator, args.Stake)
		}},
		{"delegator_stake_less", false, func(env *Env) (any, error) {
			var args collatorArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().DelegatorStakeLess(env.Caller(), args.Collator, args.Stake, env.BlockNumber())
		}},
		{"revoke_delegation", false, func(env *Env) (any, error) {
			var args struct {
				Collator staking.AccountID `json:"collator"`
			}
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().RevokeDelegation(env.Caller(), args.Collator, env.BlockNumber())
		}},
		{"leave_delegators", false, func(env *Env) (any, error) {
			return nil, env.Staker().LeaveDelegators(env.Caller(), env.BlockNumber())
		}},
		{"unlock_unstaked", false, func(env *Env) (any, error) {
			var args struct {
				Target staking.AccountID `json:"target"`
			}
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			released, err := env.Staker().UnlockUnstaked(args.Target, env.BlockNumber())
			if err != nil {
				return nil, err
			}
			return released, nil
		}},
		{"join_candidates", false, func(env *Env) (any, error) {
			var args stakeArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().JoinCandidates(env.Caller(), args.Stake)
		}},
		{"candidate_stake_more", false, func(env *Env) (any, error) {
			var args stakeArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().CandidateStakeMore(env.Caller(), args.Stake)
		}},
		{"candidate_stake_less", false, func(env *Env) (any, error) {
			var args stakeArgs
			if err := env.ParseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.Staker().CandidateStakeLess(env.Caller(), args.Stake, env.BlockNumber())
		}},
		{"leave_candidates", false, func(env *Env) (any, error) {
			return nil, env.Staker().LeaveCandidates(env.Caller(), env.BlockNumber())
		}},
	}

	for _, def := range defines {
		if _, ok := methods[def.name]; ok {
			panic("duplicated method " + def.name)
		}
		methods[def.name] = &Method{name: def.name, view: def.view, run: def.run}
	}
}
