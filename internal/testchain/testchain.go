/*
Package testchain deploys the contracts to an in-memory single-node chain for
tests.
*/
package testchain

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// Contract source directories relative to the repository root.
const (
	RegistryPath      = "contracts/registry"
	EscrowPath        = "contracts/escrow"
	ReentrantPath     = "internal/testcontracts/reentrant"
	PaperHolderPath   = "internal/testcontracts/paperholder"
	StatusUpdaterPath = "internal/testcontracts/statusupdater"
)

// Env is a chain with the registry and the escrow deployed by the committee.
// The escrow is a status updater of the registry.
type Env struct {
	*neotest.Executor

	Registry *neotest.Contract
	Escrow   *neotest.Contract
}

// NewExecutor creates a fresh chain with a single validator.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// RootDir returns the repository root.
func RootDir(t testing.TB) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// Compile compiles the contract from the directory relative to the
// repository root, config.yml is taken from the same directory.
func Compile(t testing.TB, e *neotest.Executor, dir string) *neotest.Contract {
	src := filepath.Join(RootDir(t), dir)
	return neotest.CompileFile(t, e.CommitteeHash, src, filepath.Join(src, "config.yml"))
}

// DeployRegistry deploys the registry owned by the committee.
func DeployRegistry(t testing.TB, e *neotest.Executor) *neotest.Contract {
	ctr := Compile(t, e, RegistryPath)
	e.DeployContract(t, ctr, []any{e.CommitteeHash})
	return ctr
}

// Deploy deploys both contracts and enables the escrow to update paper
// status.
func Deploy(t testing.TB) *Env {
	e := NewExecutor(t)

	reg := DeployRegistry(t, e)

	esc := Compile(t, e, EscrowPath)
	e.DeployContract(t, esc, []any{e.CommitteeHash, reg.Hash})

	e.CommitteeInvoker(reg.Hash).Invoke(t, stackitem.Null{}, "setStatusUpdater", esc.Hash, true)

	return &Env{Executor: e, Registry: reg, Escrow: esc}
}

// AddBlockAt persists an empty block with the given timestamp in
// milliseconds. Test invocations run in the next block, one millisecond
// later.
func AddBlockAt(t testing.TB, e *neotest.Executor, ts uint64) {
	b := e.NewUnsignedBlock(t)
	b.Timestamp = ts
	require.NoError(t, e.Chain.AddBlock(e.SignBlock(b)))
}

// ContentHash returns CIDv0 of the seed, it looks like what a content store
// returns for an uploaded file.
func ContentHash(t testing.TB, seed string) string {
	mh, err := multihash.Sum([]byte(seed), multihash.SHA2_256, -1)
	require.NoError(t, err)
	return base58.Encode(mh)
}
