// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/xbounty/api/utils"
	"github.com/vechain/xbounty/builtin"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/thor"
)

type Accounts struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Accounts {
	return &Accounts{ledger}
}

func (a *Accounts) getAccount(addr thor.Address) (*Account, error) {
	balance, err := a.ledger.Balance(addr)
	if err != nil {
		return nil, err
	}
	solverID, err := a.ledger.SolverExternalID(addr)
	if err != nil {
		return nil, err
	}
	return &Account{
		Balance:  (*math.HexOrDecimal256)(balance),
		Custody:  addr == builtin.Bounty.Address,
		SolverID: string(solverID),
	}, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
