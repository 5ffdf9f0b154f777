// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/staking"
)

var (
	// ErrOverflow is returned when an addition exceeds 256 bits.
	ErrOverflow = errors.New("uint256 overflow")
	// ErrUnderflow is returned when a subtraction goes below zero.
	ErrUnderflow = errors.New("uint256 underflow")
)

// Uint256 is a slot holding an unsigned 256 bits integer.
type Uint256 struct {
	context *Context
	pos     staking.Bytes32
}

func NewUint256(context *Context, pos staking.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, staking.Bytes32(value.Bytes32()))
}

// Add increases the stored value, failing with ErrOverflow instead of wrapping.
func (u *Uint256) Add(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := storage.AddOverflow(storage, value); overflow {
		return ErrOverflow
	}
	u.Set(storage)
	return nil
}

// Sub decreases the stored value, failing with ErrUnderflow instead of wrapping.
func (u *Uint256) Sub(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := storage.SubOverflow(storage, value); underflow {
		return ErrUnderflow
	}
	u.Set(storage)
	return nil
}
