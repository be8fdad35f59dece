// Package config loads sagenet CLI configuration from the environment.
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Config is the sagenet CLI configuration.
type Config struct {
	// RPCEndpoint is the address of the Neo node RPC server.
	RPCEndpoint string `env:"SAGENET_RPC_ENDPOINT" envDefault:"http://localhost:30333"`

	// Wallet is the path to the NEP-6 wallet used to sign transactions.
	Wallet string `env:"SAGENET_WALLET"`
	// WalletPassword unlocks the wallet account.
	WalletPassword string `env:"SAGENET_WALLET_PASSWORD"`
	// Account selects the wallet account, the default one is used if empty.
	Account string `env:"SAGENET_ACCOUNT"`

	// Addresses of deployed contracts, either Neo addresses or LE hex.
	Registry util.Uint160 `env:"SAGENET_REGISTRY"`
	Escrow   util.Uint160 `env:"SAGENET_ESCROW"`

	// CASDir is the root of the local content store.
	CASDir string `env:"SAGENET_CAS_DIR" envDefault:"./sagenet-cas"`
	// IndexDir is the directory of the notification index.
	IndexDir string `env:"SAGENET_INDEX_DIR" envDefault:"./sagenet-index"`

	// Timeout bounds every command including awaiting of transactions.
	Timeout time.Duration `env:"SAGENET_TIMEOUT" envDefault:"1m"`

	Debug bool `env:"SAGENET_DEBUG"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config

	err := ParseEnv(&cfg)
	if err != nil {
		return cfg, err
	}

	if cfg.Timeout <= 0 {
		return cfg, fmt.Errorf("parse env: non-positive timeout %s", cfg.Timeout)
	}

	return cfg, nil
}

// ParseEnv loads configuration from environment variables. Besides types
// supported by env, script hashes are parsed.
func ParseEnv(target any) error {
	err := env.ParseWithOptions(target, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(util.Uint160{}): func(v string) (any, error) {
				return ParseHash(v)
			},
		},
	})
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseHash decodes script hash given as a Neo address or as a hex string
// in little-endian.
func ParseHash(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("neither address nor LE hex: %q", s)
	}

	return h, nil
}
