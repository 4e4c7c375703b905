// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

// transitions lists the allowed status changes. Completed has no way out.
var transitions = map[Status][]Status{
	StatusUnknown:    {StatusFunded},
	StatusFunded:     {StatusRegistered},
	StatusRegistered: {StatusRegistered, StatusCompleted},
}

func canTransit(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transit moves the bounty to the given status, or reverts if the move is not allowed.
func (b *Bounty) transit(to Status) error {
	if !canTransit(b.Status, to) {
		return ErrUnexpectedStatus
	}
	b.Status = to
	return nil
}
