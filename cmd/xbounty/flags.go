// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a custom genesis file (yaml or json), the dev genesis is used if not set",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "ledger data storage option, if set data will be saved to disk",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the database cache",
		Value: 256,
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 1000,
		Usage: "all queries with duration longer than this threshold (in milliseconds) will be logged",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	disableNTPFlag = cli.BoolFlag{
		Name:  "disable-ntp",
		Usage: "disable the periodic check of the local clock against NTP",
	}

	// interactor flags
	apiURLFlag = cli.StringFlag{
		Name:  "api-url",
		Value: "http://localhost:8669",
		Usage: "API URL of the node to talk to",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "repository owner",
	}
	repoFlag = cli.StringFlag{
		Name:  "repo",
		Usage: "repository URL",
	}
	issueFlag = cli.Uint64Flag{
		Name:  "issue",
		Usage: "issue number",
	}
	idFlag = cli.StringFlag{
		Name:  "id",
		Usage: "bounty id, replaces owner, repo and issue",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address of the caller, or dev:N for the N-th dev account",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "value to attach, decimal or 0x-prefixed hex",
	}
	externalIDFlag = cli.StringFlag{
		Name:  "external-id",
		Usage: "external id of the solver, e.g. a github handle",
	}
	solverFlag = cli.StringFlag{
		Name:  "solver",
		Usage: "address of the solver to pay, or dev:N for the N-th dev account",
	}
	solverExternalIDFlag = cli.StringFlag{
		Name:  "solver-external-id",
		Usage: "external id the solver registered with",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "account address, or dev:N for the N-th dev account",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "print the stored encoding of the bounty",
	}
)
