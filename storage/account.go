// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/eotlabs/staking-ledger/staking"
)

// Account is a slot holding an account id. The zero id means unset.
type Account struct {
	context *Context
	pos     staking.Bytes32
}

func NewAccount(context *Context, pos staking.Bytes32) *Account {
	return &Account{context: context, pos: pos}
}

func (a *Account) Get() (staking.AccountID, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return staking.AccountID{}, err
	}
	return staking.AccountID(storage), nil
}

func (a *Account) Set(id *staking.AccountID) {
	var storage staking.Bytes32
	if id != nil {
		storage = staking.Bytes32(*id)
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
