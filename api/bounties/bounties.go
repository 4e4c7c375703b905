// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounties

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/xbounty/api/utils"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/runtime"
	"github.com/vechain/xbounty/thor"
)

type Bounties struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Bounties {
	return &Bounties{ledger}
}

func (b *Bounties) execute(w http.ResponseWriter, call *runtime.Call) error {
	receipt, err := b.ledger.Execute(call)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if receipt.Reverted {
		status = http.StatusBadRequest
		if receipt.Reason == bounty.ErrNotProposer.Error() {
			status = http.StatusForbidden
		}
	}
	return utils.WriteJSONStatus(w, status, convertReceipt(receipt))
}

func (b *Bounties) handleFund(w http.ResponseWriter, req *http.Request) error {
	var body FundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	value := new(big.Int)
	if body.Value != nil {
		value = body.Value.ToBig()
	}
	return b.execute(w, &runtime.Call{
		Method: runtime.MethodFund,
		Caller: body.Caller,
		Value:  value,
		Key:    bounty.NewKey(body.RepoOwner, body.RepoURL, body.IssueID),
	})
}

func (b *Bounties) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body RegisterRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return b.execute(w, &runtime.Call{
		Method:     runtime.MethodRegister,
		Caller:     body.Caller,
		Key:        bounty.NewKey(body.RepoOwner, body.RepoURL, body.IssueID),
		ExternalID: []byte(body.ExternalID),
	})
}

func (b *Bounties) handleRelease(w http.ResponseWriter, req *http.Request) error {
	var body ReleaseRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return b.execute(w, &runtime.Call{
		Method: runtime.MethodRelease,
		Caller: body.Caller,
		Key:    bounty.NewKey(body.RepoOwner, body.RepoURL, body.IssueID),
		Solver: bounty.Solver{Address: body.Solver, ExternalID: []byte(body.SolverExternalID)},
	})
}

func (b *Bounties) writeBounty(w http.ResponseWriter, found *bounty.Bounty) error {
	if found == nil {
		return utils.NotFound(errors.New("bounty not found"))
	}
	return utils.WriteJSON(w, ConvertBounty(found))
}

func (b *Bounties) handleQueryBounty(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	owner, url := query.Get("owner"), query.Get("url")
	if owner == "" || url == "" {
		return utils.BadRequest(errors.New("owner and url are required"))
	}
	issue, err := strconv.ParseUint(query.Get("issue"), 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "issue"))
	}
	found, err := b.ledger.Bounty(bounty.NewKey(owner, url, issue))
	if err != nil {
		return err
	}
	return b.writeBounty(w, found)
}

func parseID(req *http.Request) (thor.Bytes32, error) {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return thor.Bytes32{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (b *Bounties) handleGetBounty(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	found, err := b.ledger.BountyByID(id)
	if err != nil {
		return err
	}
	return b.writeBounty(w, found)
}

func (b *Bounties) handleGetRaw(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	raw, err := b.ledger.RawBounty(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &RawBounty{Raw: raw})
}

func (b *Bounties) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	count, locked, err := b.ledger.Stats()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Stats{Count: count, Locked: (*math.HexOrDecimal256)(locked)})
}

func (b *Bounties) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/fund").
		Methods(http.MethodPost).
		Name("POST /bounties/fund").
		HandlerFunc(utils.WrapHandlerFunc(b.handleFund))
	sub.Path("/register").
		Methods(http.MethodPost).
		Name("POST /bounties/register").
		HandlerFunc(utils.WrapHandlerFunc(b.handleRegister))
	sub.Path("/release").
		Methods(http.MethodPost).
		Name("POST /bounties/release").
		HandlerFunc(utils.WrapHandlerFunc(b.handleRelease))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /bounties").
		HandlerFunc(utils.WrapHandlerFunc(b.handleQueryBounty))
	sub.Path("/stats").
		Methods(http.MethodGet).
		Name("GET /bounties/stats").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetStats))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /bounties/{id}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBounty))
	sub.Path("/{id}/raw").
		Methods(http.MethodGet).
		Name("GET /bounties/{id}/raw").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetRaw))
}
