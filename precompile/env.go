// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package precompile

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staking"
)

// ErrInvalidArgs is returned when the arguments of a call can not be decoded.
var ErrInvalidArgs = errors.New("invalid arguments")

// Env is the environment of a call invocation.
type Env struct {
	staker *staker.Staker
	caller staking.AccountID
	block  uint32
	args   json.RawMessage
}

func NewEnv(s *staker.Staker, caller staking.AccountID, block uint32, args json.RawMessage) *Env {
	return &Env{staker: s, caller: caller, block: block, args: args}
}

func (env *Env) Staker() *staker.Staker {
	return env.staker
}

func (env *Env) Caller() staking.AccountID {
	return env.caller
}

func (env *Env) BlockNumber() uint32 {
	return env.block
}

// ParseArgs decodes the call arguments into v. Unknown fields are rejected.
func (env *Env) ParseArgs(v any) error {
	if len(bytes.TrimSpace(env.args)) == 0 {
		return errors.Wrap(ErrInvalidArgs, "missing arguments")
	}
	dec := json.NewDecoder(bytes.NewReader(env.args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(ErrInvalidArgs, "%v", err)
	}
	return nil
}
