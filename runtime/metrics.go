// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/xbounty/metrics"

var metricInvocations = metrics.LazyLoadCounterVec("invocation_count", []string{"method", "result"})
