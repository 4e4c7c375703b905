// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/holiman/uint256"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/xbounty/api/bounties"
	"github.com/vechain/xbounty/builtin/bounty"
	"github.com/vechain/xbounty/client"
	"github.com/vechain/xbounty/thor"
)

func interactorCommands() []cli.Command {
	keyFlags := []cli.Flag{apiURLFlag, ownerFlag, repoFlag, issueFlag}
	return []cli.Command{
		{
			Name:   "fund",
			Usage:  "lock value against a repository issue",
			Flags:  append(keyFlags, callerFlag, valueFlag),
			Action: fundAction,
		},
		{
			Name:   "register",
			Usage:  "register the caller as a solver of a bounty",
			Flags:  append(keyFlags, callerFlag, externalIDFlag),
			Action: registerAction,
		},
		{
			Name:   "release",
			Usage:  "pay a bounty out to a registered solver",
			Flags:  append(keyFlags, callerFlag, solverFlag, solverExternalIDFlag),
			Action: releaseAction,
		},
		{
			Name:   "get",
			Usage:  "show a bounty",
			Flags:  append(keyFlags, idFlag, rawFlag),
			Action: getAction,
		},
		{
			Name:   "balance",
			Usage:  "show the balance of an account",
			Flags:  []cli.Flag{apiURLFlag, addressFlag},
			Action: balanceAction,
		},
		{
			Name:   "stats",
			Usage:  "show the bounty count and the value locked by open bounties",
			Flags:  []cli.Flag{apiURLFlag},
			Action: statsAction,
		},
		{
			Name:   "watch",
			Usage:  "stream committed events, optionally of one bounty",
			Flags:  []cli.Flag{apiURLFlag, idFlag},
			Action: watchAction,
		},
	}
}

func newClient(ctx *cli.Context) *client.Client {
	return client.New(ctx.String(apiURLFlag.Name))
}

type bountyKey struct {
	owner, repo string
	issue       uint64
}

func requireKey(ctx *cli.Context) (bountyKey, error) {
	key := bountyKey{
		owner: ctx.String(ownerFlag.Name),
		repo:  ctx.String(repoFlag.Name),
		issue: ctx.Uint64(issueFlag.Name),
	}
	if key.owner == "" || key.repo == "" {
		return bountyKey{}, fmt.Errorf("-%s and -%s are required", ownerFlag.Name, repoFlag.Name)
	}
	return key, nil
}

func requireAddress(ctx *cli.Context, flag cli.StringFlag) (thor.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return thor.Address{}, fmt.Errorf("-%s is required", flag.Name)
	}
	addr, err := parseAddress(s)
	if err != nil {
		return thor.Address{}, pkgerrors.WithMessage(err, flag.Name)
	}
	return addr, nil
}

func parseValue(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printReceipt prints the receipt, reverted ones included, and returns the revert as the command error.
func printReceipt(receipt *bounties.Receipt, err error) error {
	var revertErr *client.RevertError
	if err != nil && !errors.As(err, &revertErr) {
		return err
	}
	if perr := printJSON(os.Stdout, receipt); perr != nil {
		return perr
	}
	return err
}

func fundAction(ctx *cli.Context) error {
	key, err := requireKey(ctx)
	if err != nil {
		return err
	}
	caller, err := requireAddress(ctx, callerFlag)
	if err != nil {
		return err
	}
	value, err := parseValue(ctx.String(valueFlag.Name))
	if err != nil {
		return pkgerrors.WithMessage(err, valueFlag.Name)
	}
	return printReceipt(newClient(ctx).Fund(&bounties.FundRequest{
		RepoOwner: key.owner,
		RepoURL:   key.repo,
		IssueID:   key.issue,
		Caller:    caller,
		Value:     value,
	}))
}

func registerAction(ctx *cli.Context) error {
	key, err := requireKey(ctx)
	if err != nil {
		return err
	}
	caller, err := requireAddress(ctx, callerFlag)
	if err != nil {
		return err
	}
	return printReceipt(newClient(ctx).Register(&bounties.RegisterRequest{
		RepoOwner:  key.owner,
		RepoURL:    key.repo,
		IssueID:    key.issue,
		Caller:     caller,
		ExternalID: ctx.String(externalIDFlag.Name),
	}))
}

func releaseAction(ctx *cli.Context) error {
	key, err := requireKey(ctx)
	if err != nil {
		return err
	}
	caller, err := requireAddress(ctx, callerFlag)
	if err != nil {
		return err
	}
	solver, err := requireAddress(ctx, solverFlag)
	if err != nil {
		return err
	}
	return printReceipt(newClient(ctx).Release(&bounties.ReleaseRequest{
		RepoOwner:        key.owner,
		RepoURL:          key.repo,
		IssueID:          key.issue,
		Caller:           caller,
		Solver:           solver,
		SolverExternalID: ctx.String(solverExternalIDFlag.Name),
	}))
}

func getAction(ctx *cli.Context) error {
	var id thor.Bytes32
	if s := ctx.String(idFlag.Name); s != "" {
		parsed, err := thor.ParseBytes32(s)
		if err != nil {
			return pkgerrors.WithMessage(err, idFlag.Name)
		}
		id = parsed
	} else {
		key, err := requireKey(ctx)
		if err != nil {
			return err
		}
		id = bounty.NewKey(key.owner, key.repo, key.issue).ID()
	}

	c := newClient(ctx)
	if ctx.Bool(rawFlag.Name) {
		raw, err := c.GetRawBounty(id)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, raw)
	}
	b, err := c.GetBountyByID(id)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, b)
}

func balanceAction(ctx *cli.Context) error {
	addr, err := requireAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	account, err := newClient(ctx).GetAccount(addr)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, account)
}

func statsAction(ctx *cli.Context) error {
	stats, err := newClient(ctx).GetStats()
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, stats)
}

func watchAction(ctx *cli.Context) error {
	var filter *thor.Bytes32
	if s := ctx.String(idFlag.Name); s != "" {
		id, err := thor.ParseBytes32(s)
		if err != nil {
			return pkgerrors.WithMessage(err, idFlag.Name)
		}
		filter = &id
	}

	events, closeConn, err := newClient(ctx).SubscribeEvents(filter)
	if err != nil {
		return err
	}

	exitSignal, stop := handleExitSignal()
	defer stop()

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error {
		<-gctx.Done()
		closeConn()
		return nil
	})
	g.Go(func() error {
		for ev := range events {
			if ev.Error != nil {
				if gctx.Err() != nil {
					return nil
				}
				return ev.Error
			}
			if err := printJSON(os.Stdout, ev.Data); err != nil {
				return err
			}
		}
		return nil
	})
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
