// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/eotlabs/staking-ledger/genesis"
	"github.com/eotlabs/staking-ledger/kv"
	"github.com/eotlabs/staking-ledger/ledger"
	"github.com/eotlabs/staking-ledger/log"
	"github.com/eotlabs/staking-ledger/lvldb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	var level slog.LevelVar
	level.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandler(os.Stderr, &level)
	} else {
		output := io.Writer(os.Stderr)
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(output, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".staking-ledger")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	return genesis.Load(path)
}

func openDB(ctx *cli.Context) (kv.StoreCloser, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		db, err := lvldb.NewMem()
		return db, "Memory", err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, "", err
	}
	db, err := lvldb.Open(filepath.Join(dataDir, "ledger.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	return db, dataDir, err
}

// openLedger opens the ledger in db, running the genesis on an empty store.
func openLedger(db kv.Store, gen *genesis.Genesis, cacheSize int) (*ledger.Ledger, error) {
	params, err := gen.StakingParams()
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(db, params, ledger.Options{CacheSize: cacheSize})
	if err != nil {
		return nil, err
	}
	initialized, err := l.Initialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		if err := l.Setup(gen.Apply); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
