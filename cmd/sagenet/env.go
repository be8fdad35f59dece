package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sagenet-research/sagenet-contract/contentstore/localfs"
	"github.com/sagenet-research/sagenet-contract/internal/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	errMissingRegistry = errors.New("registry address is not configured (SAGENET_REGISTRY)")
	errMissingEscrow   = errors.New("escrow address is not configured (SAGENET_ESCROW)")
)

// cmdEnv groups dependencies shared by all commands.
type cmdEnv struct {
	ctx context.Context
	cfg config.Config
	log *zap.Logger
	cli *cli.Context
}

// action wraps command handler with the configuration, logger and the
// timeout. Handler errors are returned as exit errors.
func action(f func(*cmdEnv) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if c.GlobalBool("debug") {
			cfg.Debug = true
		}

		log, err := newLogger(cfg.Debug)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("init logger: %w", err), 1)
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		err = f(&cmdEnv{ctx: ctx, cfg: cfg, log: log, cli: c})
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (e *cmdEnv) registry() (util.Uint160, error) {
	if e.cfg.Registry.Equals(util.Uint160{}) {
		return util.Uint160{}, errMissingRegistry
	}
	return e.cfg.Registry, nil
}

func (e *cmdEnv) escrow() (util.Uint160, error) {
	if e.cfg.Escrow.Equals(util.Uint160{}) {
		return util.Uint160{}, errMissingEscrow
	}
	return e.cfg.Escrow, nil
}

func (e *cmdEnv) contentStore() (*localfs.CAS, error) {
	cas, err := localfs.New(e.cfg.CASDir)
	if err != nil {
		return nil, fmt.Errorf("open content store: %w", err)
	}
	return cas, nil
}

// printf writes command output.
func (e *cmdEnv) printf(format string, args ...any) {
	fmt.Fprintf(e.cli.App.Writer, format, args...)
}

// bigIntFlag returns positive integer flag value.
func (e *cmdEnv) bigIntFlag(name string) (*big.Int, error) {
	v := e.cli.Int64(name)
	if v <= 0 {
		return nil, fmt.Errorf("--%s must be positive", name)
	}
	return big.NewInt(v), nil
}

func (e *cmdEnv) stringFlag(name string) (string, error) {
	v := e.cli.String(name)
	if v == "" {
		return "", fmt.Errorf("missing --%s", name)
	}
	return v, nil
}
