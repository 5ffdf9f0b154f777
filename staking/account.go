// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountIDLength length of account identifier in bytes.
const AccountIDLength = 32

// AccountID identifies an account in the native 32-byte account space.
type AccountID [AccountIDLength]byte

var (
	_ json.Marshaler   = (*AccountID)(nil)
	_ json.Unmarshaler = (*AccountID)(nil)
)

// String implements the stringer interface.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// AbbrevString returns abbrev string presentation.
func (a AccountID) AbbrevString() string {
	return hexutil.Encode(a[:4]) + "…" + hex.EncodeToString(a[28:])
}

// Bytes returns byte slice form of the account id.
func (a AccountID) Bytes() []byte {
	return a[:]
}

// IsZero returns if the id has all zero bytes.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// Compare orders account ids by their raw bytes.
func (a AccountID) Compare(other AccountID) int {
	return bytes.Compare(a[:], other[:])
}

// MarshalText implements encoding.TextMarshaler, so ids can be used as map keys.
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a *AccountID) MarshalJSON() ([]byte, error) {
	if a == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AccountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

// ParseAccountID converts a hex string, with or without 0x prefix, into an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	if len(s) == AccountIDLength*2 {
		s = "0x" + s
	} else if len(s) == AccountIDLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return AccountID{}, errors.New("invalid prefix")
		}
		s = "0x" + s[2:]
	} else {
		return AccountID{}, errors.New("invalid length")
	}

	raw, err := hexutil.Decode(s)
	if err != nil {
		return AccountID{}, err
	}
	return BytesToAccountID(raw), nil
}

// MustParseAccountID converts a hex string into an AccountID, panic on error.
func MustParseAccountID(s string) AccountID {
	id, err := ParseAccountID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// BytesToAccountID converts bytes slice into an AccountID.
// If b is larger than the id length, b will be cropped (from the left).
// If b is smaller than the id length, b will be extended (from the left).
func BytesToAccountID(b []byte) AccountID {
	var a AccountID
	if len(b) > len(a) {
		b = b[len(b)-AccountIDLength:]
	}
	copy(a[AccountIDLength-len(b):], b)
	return a
}
