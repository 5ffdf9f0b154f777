// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/lvldb"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
	"github.com/eotlabs/staking-ledger/state"
	"github.com/eotlabs/staking-ledger/storage"
)

func TestTotals(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	svc := New(storage.NewContext(staking.StakerAccount, stater.NewState()))

	total, err := svc.Get()
	require.NoError(t, err)
	assert.True(t, total.Collators.IsZero())
	assert.True(t, total.Delegators.IsZero())

	require.NoError(t, svc.AddCollators(uint256.NewInt(110)))
	require.NoError(t, svc.AddDelegators(uint256.NewInt(100)))
	require.NoError(t, svc.SubDelegators(uint256.NewInt(40)))

	total, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(110), total.Collators.Uint64())
	assert.Equal(t, uint64(60), total.Delegators.Uint64())

	err = svc.SubCollators(uint256.NewInt(111))
	require.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err), "underflow is an internal error")

	err = svc.AddDelegators(new(uint256.Int).SetAllOne())
	assert.ErrorIs(t, err, reverts.ErrOverflow)
}
