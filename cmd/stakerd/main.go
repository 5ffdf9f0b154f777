// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/eotlabs/staking-ledger/api"
	"github.com/eotlabs/staking-ledger/ledger"
	"github.com/eotlabs/staking-ledger/log"
	"github.com/eotlabs/staking-ledger/metrics"
	"github.com/eotlabs/staking-ledger/precompile"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "stakerd",
		Usage:   "Delegated staking ledger for collator selection",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			enableAdminFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "methods",
				Usage:  "list the callable methods",
				Action: listMethods,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	db, dataDir, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing ledger database..."); db.Close() }()

	l, err := openLedger(db, gen, ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}

	interval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	var enableReqLogger atomic.Bool
	enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
	opts := api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      &enableReqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		ReadOnlyHead:         interval > 0,
	}
	if ctx.Bool(enableAdminFlag.Name) {
		opts.LogLevel = logLevel
	}

	apiURL, closeAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), api.New(l, opts))
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); closeAPI() }()

	printStartupMessage(l, dataDir, apiURL, metricsURL)

	g, gctx := errgroup.WithContext(exitSignal)
	if interval > 0 {
		g.Go(func() error { return produceBlocks(gctx, l, interval) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}

// produceBlocks moves the head one block per interval until ctx is done.
// A failed block stops the producer, there is no point retrying the same block.
func produceBlocks(ctx context.Context, l *ledger.Ledger, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			head, err := l.Advance(1)
			if err != nil {
				log.Error("failed to produce block", "err", err)
				return errors.WithMessage(err, "produce block")
			}
			log.Debug("block produced", "number", head)
		}
	}
}

func printStartupMessage(l *ledger.Ledger, dataDir, apiURL, metricsURL string) {
	params := l.Params()
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	fmt.Printf(`Starting stakerd %v
    Head block   [ #%v ]
    Round length [ %v blocks ]
    Unstaking    [ %v blocks ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		fullVersion(),
		l.Block(),
		params.BlocksPerRound,
		params.UnstakingDelay,
		dataDir,
		apiURL,
		metricsURL)
}

func listMethods(_ *cli.Context) error {
	for _, name := range precompile.Methods() {
		m, err := precompile.Lookup(name)
		if err != nil {
			return err
		}
		kind := "call"
		if m.View() {
			kind = "view"
		}
		fmt.Printf("%-28s %s\n", name, kind)
	}
	return nil
}
