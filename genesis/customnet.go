// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/state"
	"github.com/vechain/xbounty/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name       string    `json:"name" yaml:"name"`
	LaunchTime uint64    `json:"launchTime" yaml:"launchTime"`
	Accounts   []Account `json:"accounts" yaml:"accounts"`
	Bounties   []Bounty  `json:"bounties,omitempty" yaml:"bounties,omitempty"`
}

// Account is the allocation of an account
type Account struct {
	Address thor.Address          `json:"address" yaml:"address"`
	Balance *math.HexOrDecimal256 `json:"balance" yaml:"balance"`
}

// Bounty is a bounty funded at genesis. The proposer needs enough balance in Accounts.
type Bounty struct {
	RepoOwner string                `json:"repoOwner" yaml:"repoOwner"`
	RepoURL   string                `json:"repoUrl" yaml:"repoUrl"`
	IssueID   uint64                `json:"issueId" yaml:"issueId"`
	Proposer  thor.Address          `json:"proposer" yaml:"proposer"`
	Amount    *math.HexOrDecimal256 `json:"amount" yaml:"amount"`
}

// LoadCustomGenesis reads a genesis file, in yaml or json depending on the extension.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}

	var gen CustomGenesis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &gen)
	default:
		err = yaml.Unmarshal(data, &gen)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	seen := make(map[thor.Address]bool)
	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		if (*big.Int)(a.Balance).Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if seen[a.Address] {
			return nil, fmt.Errorf("%s: duplicated account", a.Address)
		}
		seen[a.Address] = true
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		State(func(state *state.State) error {
			for _, a := range gen.Accounts {
				if err := state.SetBalance(a.Address, (*big.Int)(a.Balance)); err != nil {
					return err
				}
			}
			return nil
		})

	for _, b := range gen.Bounties {
		if b.Amount == nil {
			return nil, fmt.Errorf("bounty %s/%s#%d: amount must be set", b.RepoOwner, b.RepoURL, b.IssueID)
		}
		builder.Call(&runtime.Call{
			Method: runtime.MethodFund,
			Caller: b.Proposer,
			Value:  (*big.Int)(b.Amount),
			Key:    bounty.NewKey(b.RepoOwner, b.RepoURL, b.IssueID),
		})
	}

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	return newGenesis(builder, name)
}
