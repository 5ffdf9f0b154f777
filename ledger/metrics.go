// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/eotlabs/staking-ledger/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("ledger_calls_count", []string{"method", "outcome"})
	metricCallDuration = metrics.LazyLoadHistogramVec("ledger_call_duration_us", []string{"method"}, metrics.BucketCallDuration)
	metricHeadBlock    = metrics.LazyLoadGauge("ledger_head_block")
	metricCandidates   = metrics.LazyLoadGauge("ledger_candidates_count")
	metricRound        = metrics.LazyLoadGauge("ledger_round")
)
