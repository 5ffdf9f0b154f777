// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger sequences staking calls over a persistent store.
package ledger

import (
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/kv"
	"github.com/eotlabs/staking-ledger/log"
	"github.com/eotlabs/staking-ledger/precompile"
	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
	"github.com/eotlabs/staking-ledger/storage"
)

var logger = log.WithContext("pkg", "ledger")

func SetLogger(l log.Logger) {
	logger = l
}

var (
	// ErrInitialized is returned when setting up an already initialized ledger.
	ErrInitialized = errors.New("ledger already initialized")
	// ErrZeroCaller is returned for mutating calls without a caller.
	ErrZeroCaller = errors.New("zero caller")

	slotHead        = staking.BytesToBytes32([]byte("head"))
	slotParams      = staking.BytesToBytes32([]byte("params"))
	slotInitialized = staking.BytesToBytes32([]byte("initialized"))
)

// Options of the ledger.
type Options struct {
	// CacheSize bounds the count of cached storage slots.
	CacheSize int
}

// Ledger owns the head block and applies calls one at a time, committing
// the changes of every successful mutating call.
type Ledger struct {
	mu     sync.Mutex
	stater *state.Stater
	params *staking.Params
	head   uint32
}

type meta struct {
	head        *storage.Value[uint32]
	params      *storage.Value[*staking.Params]
	initialized *storage.Value[bool]
}

func newMeta(st *state.State) *meta {
	sctx := storage.NewContext(staking.LedgerAccount, st)
	return &meta{
		head:        storage.NewValue[uint32](sctx, slotHead),
		params:      storage.NewValue[*staking.Params](sctx, slotParams),
		initialized: storage.NewValue[bool](sctx, slotInitialized),
	}
}

// New opens the ledger stored in db. The params persisted by a previous
// setup take precedence over params.
func New(db kv.Store, params *staking.Params, opts Options) (*Ledger, error) {
	stater, err := state.NewStater(db, opts.CacheSize)
	if err != nil {
		return nil, err
	}

	m := newMeta(stater.NewState())
	head, err := m.head.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load head block")
	}
	stored, err := m.params.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load params")
	}
	if stored != nil {
		params = stored
	}
	if params == nil {
		params = staking.DefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}

	metricHeadBlock().Set(int64(head))
	logger.Debug("ledger opened", "head", head)
	return &Ledger{
		stater: stater,
		params: params.Copy(),
		head:   head,
	}, nil
}

// Params returns a copy of the params in effect.
func (l *Ledger) Params() *staking.Params {
	return l.params.Copy()
}

// Block returns the current block number.
func (l *Ledger) Block() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

func (l *Ledger) newStaker(st *state.State) (*staker.Staker, *balances.Balances) {
	bals := balances.New(staking.BalancesAccount, st)
	return staker.New(staking.StakerAccount, st, l.params, bals), bals
}

func (l *Ledger) commit(st *state.State) error {
	if err := l.stater.Commit(st.Stage()); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// Initialized reports whether Setup ran on the store.
func (l *Ledger) Initialized() (bool, error) {
	return newMeta(l.stater.NewState()).initialized.Get()
}

// Setup runs fn once on an empty ledger, persists the params and starts the
// first round at the current block.
func (l *Ledger) Setup(fn func(s *staker.Staker, b *balances.Balances) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.stater.NewState()
	m := newMeta(st)
	done, err := m.initialized.Get()
	if err != nil {
		return err
	}
	if done {
		return ErrInitialized
	}

	s, bals := l.newStaker(st)
	if err := fn(s, bals); err != nil {
		return errors.Wrap(err, "setup")
	}
	if _, err := s.OnInitialize(l.head); err != nil {
		return errors.Wrap(err, "start first round")
	}
	if err := m.params.Set(l.params); err != nil {
		return err
	}
	if err := m.initialized.Set(true); err != nil {
		return err
	}
	if err := m.head.Set(l.head); err != nil {
		return err
	}
	if err := l.commit(st); err != nil {
		return err
	}
	l.updateGauges(s)
	logger.Info("ledger initialized", "head", l.head)
	return nil
}

// Execute runs method on behalf of caller at the current block. Mutating
// calls are committed when they succeed and discarded otherwise.
func (l *Ledger) Execute(method string, caller staking.AccountID, args json.RawMessage) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	startTime := time.Now()
	m, err := precompile.Lookup(method)
	if err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"method": "unknown", "outcome": "unknown"})
		return nil, err
	}
	defer func() {
		metricCallDuration().ObserveWithLabels(time.Since(startTime).Microseconds(), map[string]string{"method": method})
	}()

	if !m.View() && caller.IsZero() {
		metricCalls().AddWithLabel(1, map[string]string{"method": method, "outcome": "invalid"})
		return nil, ErrZeroCaller
	}

	st := l.stater.NewState()
	s, _ := l.newStaker(st)
	out, err := m.Run(s, caller, l.head, args)
	if err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"method": method, "outcome": outcome(err)})
		return nil, err
	}
	if !m.View() {
		if err := l.commit(st); err != nil {
			metricCalls().AddWithLabel(1, map[string]string{"method": method, "outcome": "error"})
			return nil, err
		}
		l.updateGauges(s)
	}
	metricCalls().AddWithLabel(1, map[string]string{"method": method, "outcome": "ok"})
	return out, nil
}

func outcome(err error) string {
	switch {
	case reverts.IsRevertErr(err):
		return "revert"
	case errors.Is(err, precompile.ErrInvalidArgs):
		return "invalid"
	default:
		return "error"
	}
}

// Advance moves the head n blocks forward. Blocks between round boundaries
// leave the state untouched, so only the boundaries are initialized.
func (l *Ledger) Advance(n uint32) (uint32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if uint64(l.head)+uint64(n) > math.MaxUint32 {
		return l.head, errors.Errorf("advance %d blocks from %d overflows", n, l.head)
	}
	if n == 0 {
		return l.head, nil
	}

	st := l.stater.NewState()
	s, _ := l.newStaker(st)
	target := l.head + n
	for block := l.head + 1; ; {
		next, ok, err := s.NextRoundStart(block)
		if err != nil {
			return l.head, errors.Wrapf(err, "next round after block %d", block)
		}
		if !ok || next > target {
			break
		}
		started, err := s.OnInitialize(next)
		if err != nil {
			return l.head, errors.Wrapf(err, "initialize block %d", next)
		}
		if !started {
			return l.head, errors.Errorf("no round started at block %d", next)
		}
		logger.Debug("round started", "block", next)
		if next == target {
			break
		}
		block = next + 1
	}
	if err := newMeta(st).head.Set(target); err != nil {
		return l.head, err
	}
	if err := l.commit(st); err != nil {
		return l.head, err
	}
	l.head = target
	l.updateGauges(s)
	logger.Debug("advanced head", "head", target)
	return target, nil
}

// AdvanceTo moves the head to block, which must not be behind it.
func (l *Ledger) AdvanceTo(block uint32) (uint32, error) {
	head := l.Block()
	if block < head {
		return head, errors.Errorf("block %d is behind head %d", block, head)
	}
	return l.Advance(block - head)
}

// View runs fn on the latest committed state. Changes made by fn are discarded.
func (l *Ledger) View(fn func(s *staker.Staker) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, _ := l.newStaker(l.stater.NewState())
	return fn(s)
}

// ViewBalances runs fn on the balances of the latest committed state.
func (l *Ledger) ViewBalances(fn func(b *balances.Balances) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, bals := l.newStaker(l.stater.NewState())
	return fn(bals)
}

func (l *Ledger) updateGauges(s *staker.Staker) {
	metricHeadBlock().Set(int64(l.head))
	if list, err := s.CollatorList(); err == nil {
		metricCandidates().Set(int64(len(list)))
	}
	if info, err := s.Round(); err == nil && info != nil {
		metricRound().Set(int64(info.Current))
	}
}
