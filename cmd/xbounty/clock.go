// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"
)

// bounty creation times are taken from the local clock
const maxClockOffset = 5 * time.Second

var queryNTP = func() (time.Duration, error) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

func checkClockOffset() {
	offset, err := queryNTP()
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if offset > maxClockOffset || offset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", offset)
	}
}

func clockSyncLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset()
		}
	}
}
