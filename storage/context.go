// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed slots for builtin accounts, laid out the
// way a contract lays out its storage.
package storage

import (
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
)

// Context binds slots to the account owning them and the state holding them.
type Context struct {
	address staking.AccountID
	state   *state.State
}

func NewContext(address staking.AccountID, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() staking.AccountID {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
