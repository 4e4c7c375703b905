// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/vechain/xbounty/metrics"

var (
	metricCommitDuration = metrics.LazyLoadHistogramVec("commit_duration_ms", []string{"method"}, metrics.BucketHTTPReqs)
	metricBountyCount    = metrics.LazyLoadGauge("bounty_count")
	metricLocked         = metrics.LazyLoadGauge("bounty_locked")
)
