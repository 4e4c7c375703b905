// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/builtin/reverts"
	"github.com/vechain/xbounty/log"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

var (
	logger = log.WithContext("pkg", "runtime")

	errZeroCaller      = reverts.New("caller must not be zero")
	errContractCaller  = reverts.New("caller must not be the contract")
	errNotPayable      = reverts.New("method does not accept value")
	errInsufficientBal = reverts.New("insufficient balance")
)

// Receipt is the outcome of an invocation.
// A reverted invocation has no events and leaves the state untouched.
type Receipt struct {
	BountyID thor.Bytes32
	Reverted bool
	Reason   string
	Events   []*bounty.Event
}

// eventBuffer collects the events emitted during an invocation.
type eventBuffer struct {
	events []*bounty.Event
}

func (b *eventBuffer) Emit(ev *bounty.Event) {
	b.events = append(b.events, ev)
}

// Runtime executes invocations against a state.
type Runtime struct {
	state     *state.State
	blockTime uint64
}

// New create a Runtime object.
func New(state *state.State, blockTime uint64) *Runtime {
	return &Runtime{
		state:     state,
		blockTime: blockTime,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockTime() uint64   { return rt.blockTime }

// Execute runs the call. Contract validation failures are reported in the receipt,
// any other error aborts the invocation and is returned.
// In both cases the state is reverted to where it was before the call.
func (rt *Runtime) Execute(call *Call) (*Receipt, error) {
	value, err := resolveCall(call)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{BountyID: call.Key.ID()}
	checkpoint := rt.state.NewCheckpoint()

	events, err := rt.execute(call, value)
	if err != nil {
		rt.state.RevertTo(checkpoint)
		if !reverts.IsRevertErr(err) {
			metricInvocations().AddWithLabel(1, map[string]string{"method": call.Method, "result": "error"})
			return nil, errors.WithMessage(err, call.Method)
		}
		metricInvocations().AddWithLabel(1, map[string]string{"method": call.Method, "result": "reverted"})
		logger.Debug("call reverted", "method", call.Method, "caller", call.Caller, "reason", err)
		receipt.Reverted = true
		receipt.Reason = err.Error()
		return receipt, nil
	}
	metricInvocations().AddWithLabel(1, map[string]string{"method": call.Method, "result": "success"})
	receipt.Events = events
	return receipt, nil
}

func (rt *Runtime) execute(call *Call, value *big.Int) ([]*bounty.Event, error) {
	if call.Caller.IsZero() {
		return nil, errZeroCaller
	}
	if call.Caller == builtin.Bounty.Address {
		return nil, errContractCaller
	}
	if value.Sign() > 0 {
		if !IsPayable(call.Method) {
			return nil, errNotPayable
		}
		if err := rt.transfer(call.Caller, builtin.Bounty.Address, value); err != nil {
			return nil, err
		}
	}

	buf := &eventBuffer{}
	contract := builtin.Bounty.Native(rt.state, buf)

	var err error
	switch call.Method {
	case MethodFund:
		err = contract.Fund(call.Key, value, call.Caller, rt.blockTime)
	case MethodRegister:
		err = contract.Register(call.Key, call.Caller, call.ExternalID)
	case MethodRelease:
		err = contract.Release(call.Key, call.Caller, call.Solver)
	}
	if err != nil {
		return nil, err
	}
	return buf.events, nil
}

// transfer moves the attached value into the contract custody.
func (rt *Runtime) transfer(from, to thor.Address, amount *big.Int) error {
	balance, err := rt.state.GetBalance(from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errInsufficientBal
	}
	if err := rt.state.SetBalance(from, balance.Sub(balance, amount)); err != nil {
		return err
	}
	// read after the debit, from may equal to
	custody, err := rt.state.GetBalance(to)
	if err != nil {
		return err
	}
	return rt.state.SetBalance(to, custody.Add(custody, amount))
}
