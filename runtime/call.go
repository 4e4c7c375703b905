// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/thor"
)

// Method names of the bounty contract.
const (
	MethodFund     = "fund"
	MethodRegister = "register"
	MethodRelease  = "releaseBounty"
)

var payable = map[string]bool{
	MethodFund:     true,
	MethodRegister: false,
	MethodRelease:  false,
}

// Call is a single invocation of the bounty contract.
type Call struct {
	Method string
	Caller thor.Address
	Value  *big.Int // attached native value, only accepted by payable methods
	Key    bounty.Key

	ExternalID []byte        // register
	Solver     bounty.Solver // releaseBounty
}

// IsPayable reports whether the method accepts attached value.
func IsPayable(method string) bool {
	return payable[method]
}

// resolveCall performs basic validation on the call and returns the attached value.
// Errors returned here are malformed calls rather than contract reverts.
func resolveCall(call *Call) (*big.Int, error) {
	if _, ok := payable[call.Method]; !ok {
		return nil, errors.Errorf("unknown method %q", call.Method)
	}
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return nil, errors.New("call with negative value")
	}
	if value.Cmp(math.MaxBig256) > 0 {
		return nil, errors.New("call value too large")
	}
	return value, nil
}
