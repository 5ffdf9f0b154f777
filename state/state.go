// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/eotlabs/staking-ledger/stackedmap"
	"github.com/eotlabs/staking-ledger/staking"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr staking.AccountID
	key  staking.Bytes32
}

// bytes returns the key as stored in the kv store.
func (k storageKey) bytes() []byte {
	b := make([]byte, 0, len(k.addr)+len(k.key))
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// slotReader loads committed slots.
type slotReader interface {
	get(key storageKey) (rlp.RawValue, error)
}

// State is a revertable view over committed storage slots.
// It is not safe for concurrent use.
type State struct {
	reader slotReader
	sm     *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

func newState(reader slotReader) *State {
	s := &State{reader: reader}
	s.sm = stackedmap.New(func(key storageKey) (rlp.RawValue, bool, error) {
		v, err := s.reader.get(key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	return s
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr staking.AccountID, key staking.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
// A nil or empty raw value removes the slot.
func (s *State) SetRawStorage(addr staking.AccountID, key staking.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr staking.AccountID, key staking.Bytes32) (staking.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return staking.Bytes32{}, err
	}
	if len(raw) == 0 {
		return staking.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return staking.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized structured value, return hash of raw data
		return staking.Blake2b(raw), nil
	}
	return staking.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr staking.AccountID, key, value staking.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr staking.AccountID, key staking.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr staking.AccountID, key staking.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects cumulative changes into a stage object ready to commit.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	var order []storageKey

	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{changes: changes, order: order}
}
