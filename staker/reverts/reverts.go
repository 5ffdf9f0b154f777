// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the errors of rejected staking operations.
// A revert leaves the ledger untouched, unlike an internal storage error.
package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindBelowMinimum
	KindCapacityExceeded
	KindInvalidAmount
	KindDuplicateDelegation
	KindInsufficientBalance
	KindAlreadyCandidate
	KindAlreadyDelegating
	KindOverflow
)

var kindNames = map[Kind]string{
	KindNotFound:            "not found",
	KindBelowMinimum:        "below minimum",
	KindCapacityExceeded:    "capacity exceeded",
	KindInvalidAmount:       "invalid amount",
	KindDuplicateDelegation: "duplicate delegation",
	KindInsufficientBalance: "insufficient balance",
	KindAlreadyCandidate:    "already candidate",
	KindAlreadyDelegating:   "already delegating",
	KindOverflow:            "overflow",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels to match with errors.Is.
var (
	ErrNotFound            = &ErrRevert{kind: KindNotFound}
	ErrBelowMinimum        = &ErrRevert{kind: KindBelowMinimum}
	ErrCapacityExceeded    = &ErrRevert{kind: KindCapacityExceeded}
	ErrInvalidAmount       = &ErrRevert{kind: KindInvalidAmount}
	ErrDuplicateDelegation = &ErrRevert{kind: KindDuplicateDelegation}
	ErrInsufficientBalance = &ErrRevert{kind: KindInsufficientBalance}
	ErrAlreadyCandidate    = &ErrRevert{kind: KindAlreadyCandidate}
	ErrAlreadyDelegating   = &ErrRevert{kind: KindAlreadyDelegating}
	ErrOverflow            = &ErrRevert{kind: KindOverflow}
)

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.message
}

// Kind returns the classification of the revert.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches reverts of the same kind.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped by err, or zero.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}
