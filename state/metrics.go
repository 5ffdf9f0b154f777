// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/eotlabs/staking-ledger/metrics"

var (
	metricSlotLoads    = metrics.LazyLoadCounter("state_slot_load_count")
	metricSlotWrites   = metrics.LazyLoadCounter("state_slot_write_count")
	metricCacheHitRate = metrics.LazyLoadGauge("state_cache_hit_permille")
)
