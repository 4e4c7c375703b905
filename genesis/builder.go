// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/xbounty/lvldb"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []*runtime.Call
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call, executed after all state processes.
func (b *Builder) Call(call *runtime.Call) *Builder {
	b.calls = append(b.calls, call)
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer db.Close()

	stage, err := b.stage(state.NewStater(db, 0))
	if err != nil {
		return thor.Bytes32{}, err
	}
	return b.id(stage), nil
}

func (b *Builder) id(stage *state.Stage) thor.Bytes32 {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], b.timestamp)
	return thor.Blake2b(ts[:], stage.Hash().Bytes())
}

// Build applies the genesis state and commits it.
func (b *Builder) Build(stater *state.Stater) (thor.Bytes32, error) {
	stage, err := b.stage(stater)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if err := stage.Commit(); err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "commit state")
	}
	return b.id(stage), nil
}

func (b *Builder) stage(stater *state.Stater) (*state.Stage, error) {
	st := stater.NewState()

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, b.timestamp)
	for i, call := range b.calls {
		receipt, err := rt.Execute(call)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d", i)
		}
		if receipt.Reverted {
			return nil, errors.Errorf("call %d reverted: %s", i, receipt.Reason)
		}
	}

	return st.Stage()
}
