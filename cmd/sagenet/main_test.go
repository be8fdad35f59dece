package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sagenet-research/sagenet-contract/contentstore"
	"github.com/sagenet-research/sagenet-contract/contentstore/localfs"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func runApp(t *testing.T, args ...string) (string, error) {
	exiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	errWriter := cli.ErrWriter
	cli.ErrWriter = new(bytes.Buffer)
	t.Cleanup(func() {
		cli.OsExiter = exiter
		cli.ErrWriter = errWriter
	})

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run(append([]string{"sagenet"}, args...))
	return out.String(), err
}

func TestVersionString(t *testing.T) {
	require.Equal(t, "0.1.0", versionString(1_000))
	require.Equal(t, "1.22.333", versionString(1_022_333))
}

func TestStatusStrings(t *testing.T) {
	require.Equal(t, "draft", statusString(big.NewInt(0)))
	require.Equal(t, "published", statusString(big.NewInt(3)))
	require.Equal(t, "unknown(7)", statusString(big.NewInt(7)))

	require.Equal(t, "pending", reviewStatusString(big.NewInt(0)))
	require.Equal(t, "rejected", reviewStatusString(big.NewInt(2)))
	require.Equal(t, "unknown(-1)", reviewStatusString(big.NewInt(-1)))
}

func TestCommands(t *testing.T) {
	app := newApp()

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"paper", "bounty", "review", "deploy", "index"}, names)
}

func TestMissingContracts(t *testing.T) {
	_, err := runApp(t, "paper", "show", "--id", "1")
	require.ErrorContains(t, err, errMissingRegistry.Error())

	_, err = runApp(t, "bounty", "show", "--paper", "1")
	require.ErrorContains(t, err, errMissingEscrow.Error())
}

func TestInvalidEnvironment(t *testing.T) {
	t.Setenv("SAGENET_TIMEOUT", "never")

	_, err := runApp(t, "paper", "show", "--id", "1")
	require.ErrorContains(t, err, "parse env:")
}

func TestSubmitUploadsFirst(t *testing.T) {
	casDir := t.TempDir()
	t.Setenv("SAGENET_REGISTRY", util.Uint160{1}.StringLE())
	t.Setenv("SAGENET_CAS_DIR", casDir)

	_, err := runApp(t, "paper", "submit", "--title", "T", "--file", filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorContains(t, err, "read document")

	doc := filepath.Join(t.TempDir(), "paper.pdf")
	data := []byte("%PDF-1.7 attention")
	require.NoError(t, os.WriteFile(doc, data, 0o644))

	_, err = runApp(t, "paper", "submit", "--title", "T", "--file", doc)
	require.ErrorContains(t, err, "wallet is not configured")

	id, err := contentstore.Sum(data)
	require.NoError(t, err)

	cas, err := localfs.New(casDir)
	require.NoError(t, err)
	require.True(t, cas.Has(id))
}

func TestPositiveFlags(t *testing.T) {
	t.Setenv("SAGENET_REGISTRY", util.Uint160{1}.StringLE())

	_, err := runApp(t, "paper", "show")
	require.ErrorContains(t, err, "--id must be positive")

	_, err = runApp(t, "paper", "status", "--id", "1")
	require.ErrorContains(t, err, "missing --status")
}
