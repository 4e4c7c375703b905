// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/xbounty/api"
	"github.com/vechain/xbounty/cmd/xbounty/httpserver"
	"github.com/vechain/xbounty/kv"
	"github.com/vechain/xbounty/ledger"
	"github.com/vechain/xbounty/log"
	"github.com/vechain/xbounty/lvldb"
	"github.com/vechain/xbounty/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("xbounty %s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "xbounty",
		Usage:     "Bounty custody ledger node and interactor",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			disableNTPFlag,
		},
		Action:   defaultAction,
		Commands: interactorCommands(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal, stop := handleExitSignal()
	defer stop()

	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		db          kv.Store
		instanceDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		mainDB, err := openMainDB(ctx, instanceDir)
		if err != nil {
			return err
		}
		db = mainDB
		defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	} else {
		memDB, err := lvldb.NewMem()
		if err != nil {
			return err
		}
		db = memDB
		defer memDB.Close()
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	// about 1KB per cached account
	l, err := ledger.New(db, gene, ledger.Options{CacheSize: ctx.Int(cacheFlag.Name) * 1024})
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger..."); l.Close() }()

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, &apiLogs)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	apiHandler, apiCloser := api.New(l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		Timeout:              time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond,
		EnableReqLogger:      &apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { logger.Info("stopping API subscriptions..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(os.Stdout, gene, instanceDir, apiURL, metricsURL, adminURL)

	if !ctx.Bool(disableNTPFlag.Name) {
		go clockSyncLoop(exitSignal, 10*time.Minute)
	}

	<-exitSignal.Done()
	logger.Info("got interrupt, shutting down...")
	return nil
}
