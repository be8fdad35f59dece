package deploy

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/consensus"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/network"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/services/rpcsrv"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/sagenet-research/sagenet-contract/rpc/escrow"
	"github.com/sagenet-research/sagenet-contract/rpc/registry"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestIdempotentTransactionModifier(t *testing.T) {
	t.Run("invalid invocation result state", func(t *testing.T) {
		var res result.Invoke
		res.State = "FAULT" // any non-HALT

		err := idempotentTransactionModifier(func() uint32 { return 0 })(&res, new(transaction.Transaction))
		require.Error(t, err)
	})

	var validRes result.Invoke
	validRes.State = "HALT"

	for _, tc := range []struct {
		curHeight     uint32
		expectedNonce uint32
		expectedVUB   uint32
	}{
		{curHeight: 0, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 1, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 99, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 100, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 199, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 200, expectedNonce: 200, expectedVUB: 300},
		{curHeight: math.MaxUint32 - 50, expectedNonce: 100 * (math.MaxUint32 / 100), expectedVUB: math.MaxUint32},
	} {
		m := idempotentTransactionModifier(func() uint32 { return tc.curHeight })

		var tx transaction.Transaction

		err := m(&validRes, &tx)
		require.NoError(t, err, tc)
		require.EqualValues(t, tc.expectedNonce, tx.Nonce, tc)
		require.EqualValues(t, tc.expectedVUB, tx.ValidUntilBlock, tc)
	}
}

func TestReadContracts(t *testing.T) {
	reg := compileContract(t, "registry")
	esc := compileContract(t, "escrow")

	var prm Prm
	require.ErrorIs(t, prm.ReadContracts([]CommonDeployPrm{reg}), errMissingContract)

	require.NoError(t, prm.ReadContracts([]CommonDeployPrm{esc, reg}))
	require.Equal(t, RegistryName, prm.Registry.Manifest.Name)
	require.Equal(t, EscrowName, prm.Escrow.Manifest.Name)
}

func compileContract(t *testing.T, dir string) CommonDeployPrm {
	src := filepath.Join("..", "contracts", dir)
	ctr := neotest.CompileFile(t, util.Uint160{}, src, filepath.Join(src, "config.yml"))
	return CommonDeployPrm{NEF: *ctr.NEF, Manifest: *ctr.Manifest}
}

func TestContractAutodeploy(t *testing.T) {
	validatorAcc, err := wallet.NewAccount()
	require.NoError(t, err)

	var (
		tmpDir     = t.TempDir()
		walletPath = filepath.Join(tmpDir, "wallet.json")
		wlt        = wallet.NewInMemoryWallet()
	)

	err = validatorAcc.Encrypt("", keys.NEP2ScryptParams())
	require.NoError(t, err)
	wlt.Accounts = append(wlt.Accounts, validatorAcc)
	wlt.SetPath(walletPath)
	require.NoError(t, wlt.Save())

	var (
		cfg = config.Config{
			ApplicationConfiguration: config.ApplicationConfiguration{
				RPC: config.RPC{
					BasicService: config.BasicService{
						Enabled: true,
					},
					MaxGasInvoke: fixedn.Fixed8FromInt64(50),
				},
				Consensus: config.Consensus{
					Enabled: true,
					UnlockWallet: config.Wallet{
						Path:     walletPath,
						Password: "",
					},
				},
			},
			ProtocolConfiguration: config.ProtocolConfiguration{
				Magic:           netmode.UnitTestNet,
				MaxTimePerBlock: 20 * time.Second,
				Genesis: config.Genesis{
					MaxTraceableBlocks:          1000,
					MaxValidUntilBlockIncrement: 1000 / 2,
					TimePerBlock:                50 * time.Millisecond,
				},
				StandbyCommittee:   []string{hex.EncodeToString(validatorAcc.PublicKey().Bytes())},
				ValidatorsCount:    1,
				VerifyTransactions: true,
			},
		}
		logger = zaptest.NewLogger(t)
		store  = storage.NewMemoryStore()
	)

	bc, err := core.NewBlockchain(store, config.Blockchain{ProtocolConfiguration: cfg.ProtocolConfiguration}, logger)
	require.NoError(t, err)
	go bc.Run()
	t.Cleanup(bc.Close)

	serverConfig, err := network.NewServerConfig(config.Config{ProtocolConfiguration: cfg.ProtocolConfiguration})
	require.NoError(t, err)
	serverConfig.UserAgent = fmt.Sprintf(config.UserAgentFormat, "something")
	netSrv, err := network.NewServer(serverConfig, bc, bc.GetStateSyncModule(), logger)
	require.NoError(t, err)
	cons, err := consensus.NewService(consensus.Config{
		Logger:                logger,
		Broadcast:             netSrv.BroadcastExtensible,
		Chain:                 bc,
		BlockQueue:            netSrv.GetBlockQueue(),
		ProtocolConfiguration: cfg.ProtocolConfiguration,
		RequestTx:             netSrv.RequestTx,
		StopTxFlow:            netSrv.StopTxFlow,
		Wallet:                cfg.ApplicationConfiguration.Consensus.UnlockWallet,
	})
	require.NoError(t, err)
	netSrv.AddConsensusService(cons, cons.OnPayload, cons.OnTransaction)
	netSrv.Start()

	errCh := make(chan error, 2)
	rpcServer := rpcsrv.New(bc, cfg.ApplicationConfiguration.RPC, netSrv, nil, logger, errCh)
	rpcServer.Start()
	t.Cleanup(rpcServer.Shutdown)

	rpcClient, err := rpcclient.NewInternal(context.TODO(), rpcServer.RegisterLocal)
	require.NoError(t, err)
	require.NoError(t, rpcClient.Init())

	// Genesis NEO and GAS are owned by the single-key validator account,
	// which is the same as the account itself converted into 1-of-1 multisig.
	localAcc := new(wallet.Account)
	*localAcc = *validatorAcc
	require.NoError(t, localAcc.ConvertMultisig(1, []*keys.PublicKey{validatorAcc.PublicKey()}))

	deployPrm := Prm{
		Blockchain:   rpcClient,
		LocalAccount: localAcc,
		Logger:       logger,
	}
	require.NoError(t, deployPrm.ReadContracts([]CommonDeployPrm{
		compileContract(t, "registry"),
		compileContract(t, "escrow"),
	}))

	ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
	res, err := Deploy(ctx, deployPrm)
	cancel()
	require.NoError(t, err)

	inv := invoker.New(rpcClient, nil)

	enabled, err := registry.NewReader(inv, res.Registry).IsStatusUpdater(res.Escrow)
	require.NoError(t, err)
	require.True(t, enabled)

	bound, err := escrow.NewReader(inv, res.Escrow).Registry()
	require.NoError(t, err)
	require.Equal(t, res.Registry, bound)

	owner, err := registry.NewReader(inv, res.Registry).Owner()
	require.NoError(t, err)
	require.Equal(t, localAcc.ScriptHash(), owner)

	t.Run("repeated", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
		again, err := Deploy(ctx, deployPrm)
		cancel()
		require.NoError(t, err)
		require.Equal(t, res, again)
	})

	t.Run("unknown address", func(t *testing.T) {
		prm := deployPrm
		prm.EscrowAddress = util.Uint160{1, 2, 3}

		ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
		_, err := Deploy(ctx, prm)
		cancel()
		require.ErrorIs(t, err, errMissingContract)
	})
}
