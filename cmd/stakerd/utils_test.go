// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/genesis"
	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/staker"
)

func TestOpenLedgerRunsGenesisOnce(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	l, err := openLedger(db, gen, 0)
	require.NoError(t, err)
	_, err = l.Advance(3)
	require.NoError(t, err)

	// a second open must keep the state instead of applying the genesis again
	l, err = openLedger(db, gen, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), l.Block())
	require.NoError(t, l.View(func(s *staker.Staker) error {
		list, err := s.CollatorList()
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, uint256.NewInt(200), list[0].Amount)
		return nil
	}))
}

func TestProduceBlocks(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	l, err := openLedger(db, genesis.NewDevnet(), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- produceBlocks(ctx, l, time.Millisecond)
	}()
	assert.Eventually(t, func() bool { return l.Block() >= 3 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
