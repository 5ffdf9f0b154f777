// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances keeps free balances and named balance locks of accounts.
// Locks of different identifiers overlap: the usable balance is the free
// balance minus the largest lock.
package balances

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/log"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
	"github.com/eotlabs/staking-ledger/storage"
)

var (
	logger = log.WithContext("pkg", "balances")

	slotAccounts = staking.BytesToBytes32([]byte("accounts"))
	slotIssuance = staking.BytesToBytes32([]byte("total-issuance"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Lock is a named reservation on an account's free balance.
type Lock struct {
	ID     staking.LockIdentifier
	Amount *uint256.Int
}

type account struct {
	Free  *uint256.Int
	Locks []Lock
}

func (a *account) isEmpty() bool {
	return (a.Free == nil || a.Free.IsZero()) && len(a.Locks) == 0
}

func (a *account) lockIndex(id staking.LockIdentifier) int {
	for i, l := range a.Locks {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Balances is the balance lock manager.
type Balances struct {
	accounts *storage.Mapping[staking.AccountID, *account]
	issuance *storage.Uint256
}

// New creates balances over the storage of addr.
func New(addr staking.AccountID, st *state.State) *Balances {
	sctx := storage.NewContext(addr, st)
	return &Balances{
		accounts: storage.NewMapping[staking.AccountID, *account](sctx, slotAccounts),
		issuance: storage.NewUint256(sctx, slotIssuance),
	}
}

func (b *Balances) get(id staking.AccountID) (*account, error) {
	acc, err := b.accounts.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if acc == nil {
		acc = &account{}
	}
	if acc.Free == nil {
		acc.Free = new(uint256.Int)
	}
	return acc, nil
}

func (b *Balances) put(id staking.AccountID, acc *account) error {
	if acc.isEmpty() {
		b.accounts.Delete(id)
		return nil
	}
	if err := b.accounts.Set(id, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// FreeBalance returns the free balance of id, locked funds included.
func (b *Balances) FreeBalance(id staking.AccountID) (*uint256.Int, error) {
	acc, err := b.get(id)
	if err != nil {
		return nil, err
	}
	return acc.Free, nil
}

// UsableBalance returns the part of the free balance not held by any lock.
func (b *Balances) UsableBalance(id staking.AccountID) (*uint256.Int, error) {
	acc, err := b.get(id)
	if err != nil {
		return nil, err
	}
	frozen := new(uint256.Int)
	for _, l := range acc.Locks {
		if l.Amount.Gt(frozen) {
			frozen = l.Amount
		}
	}
	if frozen.Gt(acc.Free) {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(acc.Free, frozen), nil
}

// Mint credits amount to the free balance of id.
func (b *Balances) Mint(id staking.AccountID, amount *uint256.Int) error {
	acc, err := b.get(id)
	if err != nil {
		return err
	}
	if _, overflow := acc.Free.AddOverflow(acc.Free, amount); overflow {
		return errors.New("free balance overflow")
	}
	if err := b.issuance.Add(amount); err != nil {
		return errors.Wrap(err, "total issuance")
	}
	return b.put(id, acc)
}

// TotalIssuance returns the sum of every minted amount.
func (b *Balances) TotalIssuance() (*uint256.Int, error) {
	return b.issuance.Get()
}

// Lock returns the amount held under lock id, zero when absent.
func (b *Balances) Lock(id staking.AccountID, lockID staking.LockIdentifier) (*uint256.Int, error) {
	acc, err := b.get(id)
	if err != nil {
		return nil, err
	}
	if i := acc.lockIndex(lockID); i >= 0 {
		return new(uint256.Int).Set(acc.Locks[i].Amount), nil
	}
	return new(uint256.Int), nil
}

// Locks returns every lock of id.
func (b *Balances) Locks(id staking.AccountID) ([]Lock, error) {
	acc, err := b.get(id)
	if err != nil {
		return nil, err
	}
	return acc.Locks, nil
}

// SetLock creates or replaces lock lockID of id. A zero amount removes it.
func (b *Balances) SetLock(id staking.AccountID, lockID staking.LockIdentifier, amount *uint256.Int) error {
	if amount.IsZero() {
		return b.RemoveLock(id, lockID)
	}
	acc, err := b.get(id)
	if err != nil {
		return err
	}
	lock := Lock{ID: lockID, Amount: new(uint256.Int).Set(amount)}
	if i := acc.lockIndex(lockID); i >= 0 {
		acc.Locks[i] = lock
	} else {
		acc.Locks = append(acc.Locks, lock)
	}
	logger.Trace("set lock", "account", id, "lock", lockID, "amount", amount)
	return b.put(id, acc)
}

// RemoveLock removes lock lockID of id. Removing an absent lock succeeds.
func (b *Balances) RemoveLock(id staking.AccountID, lockID staking.LockIdentifier) error {
	acc, err := b.get(id)
	if err != nil {
		return err
	}
	i := acc.lockIndex(lockID)
	if i < 0 {
		return nil
	}
	acc.Locks = append(acc.Locks[:i], acc.Locks[i+1:]...)
	logger.Trace("remove lock", "account", id, "lock", lockID)
	return b.put(id, acc)
}
