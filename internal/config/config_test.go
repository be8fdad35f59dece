package config

import (
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:30333", cfg.RPCEndpoint)
	require.Equal(t, "./sagenet-cas", cfg.CASDir)
	require.Equal(t, "./sagenet-index", cfg.IndexDir)
	require.Equal(t, time.Minute, cfg.Timeout)
	require.True(t, cfg.Registry.Equals(util.Uint160{}))
	require.False(t, cfg.Debug)
}

func TestLoad(t *testing.T) {
	registry := util.Uint160{1, 2, 3}
	escrow := util.Uint160{4, 5, 6}

	t.Setenv("SAGENET_RPC_ENDPOINT", "http://rpc.example:10332")
	t.Setenv("SAGENET_WALLET", "/etc/sagenet/wallet.json")
	t.Setenv("SAGENET_REGISTRY", address.Uint160ToString(registry))
	t.Setenv("SAGENET_ESCROW", escrow.StringLE())
	t.Setenv("SAGENET_TIMEOUT", "30s")
	t.Setenv("SAGENET_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://rpc.example:10332", cfg.RPCEndpoint)
	require.Equal(t, "/etc/sagenet/wallet.json", cfg.Wallet)
	require.Equal(t, registry, cfg.Registry)
	require.Equal(t, escrow, cfg.Escrow)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.True(t, cfg.Debug)
}

func TestLoadErrors(t *testing.T) {
	for name, kv := range map[string][2]string{
		"hash":             {"SAGENET_REGISTRY", "not a hash"},
		"timeout":          {"SAGENET_TIMEOUT", "soon"},
		"negative timeout": {"SAGENET_TIMEOUT", "-1s"},
		"debug":            {"SAGENET_DEBUG", "maybe"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			require.ErrorContains(t, err, "parse env:")
		})
	}
}
