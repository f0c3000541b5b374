// Command ethpoc runs a standalone node for the engine: it opens (or
// creates) a state store, drives it forward by mining empty-queue blocks
// at a fixed interval, and serves Prometheus metrics over HTTP.
//
// Usage:
//
//	ethpoc [flags]
//
// Flags:
//
//	--datadir     data directory path (default: ./data)
//	--coinbase    hex-encoded address credited with mining rewards
//	--metrics-addr  address to serve /metrics on (default: 127.0.0.1:6060)
//	--mine        mine continuously instead of just opening the store
//	--verbosity   log level: debug, info, warn, error (default: info)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/consensus"
	"github.com/ethpoc/ethpoc/core"
	"github.com/ethpoc/ethpoc/core/state"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/log"
	"github.com/ethpoc/ethpoc/metrics"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// run is the actual entry point, returning an exit code. It takes the full
// os.Args (urfave/cli expects argv[0] present) so it can be exercised in
// isolation by tests.
func run(args []string) int {
	app := newApp()
	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "ethpoc: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ethpoc",
		Usage:   "run an ethpoc node",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "datadir", Value: "./data", Usage: "data directory path"},
			&cli.StringFlag{Name: "coinbase", Value: "", Usage: "hex-encoded mining reward address"},
			&cli.StringFlag{Name: "metrics-addr", Value: "127.0.0.1:6060", Usage: "address to serve /metrics on"},
			&cli.BoolFlag{Name: "mine", Value: false, Usage: "mine continuously"},
			&cli.DurationFlag{Name: "mine-interval", Value: 5 * time.Second, Usage: "interval between mining attempts when --mine is set"},
			&cli.StringFlag{Name: "verbosity", Value: "info", Usage: "log level: debug, info, warn, error"},
		},
		Action: runNode,
	}
}

func runNode(c *cli.Context) error {
	logger := log.New(parseLevel(c.String("verbosity")))
	log.SetDefault(logger)

	coinbase := common.HexToAddress(c.String("coinbase"))
	datadir := c.String("datadir")

	var st *state.State
	var err error
	if datadir == "" || datadir == "memory" {
		st, err = state.NewInMemory(coinbase)
	} else {
		st, err = state.New(datadir, coinbase)
	}
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	logger.Info("state opened", "datadir", datadir, "coinbase", coinbase.Hex())

	metricsAddr := c.String("metrics-addr")
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler()}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", metricsAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if c.Bool("mine") {
		session := core.NewMiningSession(st, noChain{}, consensus.MockSealer{})
		interval := c.Duration("mine-interval")
		go mineLoop(ctx, logger, session, interval)
	}

	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())
	return metricsSrv.Close()
}

func mineLoop(ctx context.Context, logger *log.Logger, session *core.MiningSession, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := session.CommitToMine(); err != nil {
				logger.Error("commit to mine failed", "error", err)
				continue
			}
			info, err := session.Mine(ctx, interval)
			if err != nil {
				logger.Error("mine failed", "error", err)
				continue
			}
			if !info.Completed {
				logger.Debug("seal timed out")
				continue
			}
			logger.Info("mined block", "elapsed", info.Elapsed, "gasUsed", info.Block.Header().GasUsed)
		}
	}
}

// noChain is a state.BlockChain with no known headers, for a standalone
// node mining its own chain with no uncles or peer blocks to sync.
type noChain struct{}

func (noChain) HeaderByHash(common.Hash) (*types.Header, bool) { return nil, false }
func (noChain) BlockByHash(common.Hash) (*types.Block, bool)   { return nil, false }
func (noChain) Siblings(parent, exclude common.Hash) []*types.Header {
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
