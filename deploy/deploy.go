package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/sagenet-research/sagenet-contract/rpc/escrow"
	"github.com/sagenet-research/sagenet-contract/rpc/registry"
	"go.uber.org/zap"
)

// Manifest names of SageNet contracts.
const (
	RegistryName = "SageNet Registry"
	EscrowName   = "SageNet Review Escrow"
)

var errMissingContract = errors.New("contract is missing")

// Blockchain groups services provided by particular Neo blockchain network
// that are required for SageNet contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// GetApplicationLog returns execution results of the transaction. It is
	// used to await sent transactions.
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract addresses depend on it.
	LocalAccount *wallet.Account

	// Owner of both contracts. Zero value means LocalAccount. If the owner
	// differs from LocalAccount, it has to enable the escrow as a status
	// updater of the registry itself.
	Owner util.Uint160

	Registry CommonDeployPrm
	Escrow   CommonDeployPrm

	// Addresses of already deployed contracts. Contract address is derived
	// from the NEF it was deployed with, so updates require them. Zero value
	// means the address derived from the local NEF.
	RegistryAddress util.Uint160
	EscrowAddress   util.Uint160
}

// Result contains on-chain addresses of the deployed contracts.
type Result struct {
	Registry util.Uint160
	Escrow   util.Uint160
}

// Deploy makes the registry and the escrow contracts on the chain match the
// given ones. Deploy is idempotent: contracts that are already deployed by
// LocalAccount are updated if their NEF differs and left untouched
// otherwise. Summary of stages:
//  1. deployment/update of the registry contract
//  2. deployment/update of the escrow contract bound to the registry
//  3. rebinding of the escrow to the registry if it points to another one
//  4. enabling the escrow to change paper status in the registry
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	localAcc := prm.LocalAccount.ScriptHash()
	owner := prm.Owner
	if owner.Equals(util.Uint160{}) {
		owner = localAcc
	}

	act, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: localAcc,
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.LocalAccount,
	}}, actor.Options{
		CheckerModifier: idempotentTransactionModifier(func() uint32 {
			h, err := prm.Blockchain.GetBlockCount()
			if err != nil || h == 0 {
				return 0
			}
			return h - 1
		}),
	})
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      act,
		deployer:   localAcc,
	}

	prm.Logger.Info("synchronizing registry contract with the chain...")

	syncPrm.name = "registry"
	syncPrm.common = prm.Registry
	syncPrm.address = prm.RegistryAddress
	syncPrm.deployArgs = []any{owner}

	res.Registry, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync registry contract with the chain: %w", err)
	}

	prm.Logger.Info("registry contract successfully synchronized", zap.Stringer("address", res.Registry))

	prm.Logger.Info("synchronizing escrow contract with the chain...")

	syncPrm.name = "escrow"
	syncPrm.common = prm.Escrow
	syncPrm.address = prm.EscrowAddress
	syncPrm.deployArgs = []any{owner, res.Registry}

	res.Escrow, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync escrow contract with the chain: %w", err)
	}

	prm.Logger.Info("escrow contract successfully synchronized", zap.Stringer("address", res.Escrow))

	if !owner.Equals(localAcc) {
		prm.Logger.Warn("contracts are owned by another account, it must bind them itself",
			zap.String("owner", owner.StringLE()))
		return res, nil
	}

	esc := escrow.New(act, res.Escrow)

	bound, err := esc.Registry()
	if err != nil {
		return res, fmt.Errorf("get registry address of the escrow: %w", err)
	}

	if !bound.Equals(res.Registry) {
		prm.Logger.Info("rebinding escrow to the registry...", zap.Stringer("previous", bound))

		err = awaitTx(ctx, act)(esc.UpdateCoreAddress(res.Registry))
		if err != nil {
			return res, fmt.Errorf("rebind escrow to the registry: %w", err)
		}
	}

	reg := registry.New(act, res.Registry)

	enabled, err := reg.IsStatusUpdater(res.Escrow)
	if err != nil {
		return res, fmt.Errorf("check escrow is a status updater: %w", err)
	}

	if enabled {
		prm.Logger.Debug("escrow is already a status updater")
		return res, nil
	}

	prm.Logger.Info("enabling escrow to update paper status...")

	err = awaitTx(ctx, act)(reg.SetStatusUpdater(res.Escrow, true))
	if err != nil {
		return res, fmt.Errorf("enable escrow as a status updater: %w", err)
	}

	prm.Logger.Info("escrow successfully enabled as a status updater")

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor
	deployer   util.Uint160

	name       string
	common     CommonDeployPrm
	address    util.Uint160
	deployArgs []any
}

// syncContract deploys the contract if it is missing and updates it if its
// NEF differs from the local one. Returns the contract address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := prm.address
	known := !addr.Equals(util.Uint160{})
	if !known {
		addr = state.CreateContractHash(prm.deployer, prm.common.NEF.Checksum, prm.common.Manifest.Name)
	}
	l := prm.logger.With(zap.String("contract", prm.name), zap.Stringer("address", addr))

	onChain, err := prm.blockchain.GetContractStateByHash(addr)
	if err != nil && !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get contract state: %w", err)
	}

	if err != nil {
		if known {
			return addr, fmt.Errorf("%w: %s", errMissingContract, addr.StringLE())
		}

		l.Info("contract is missing on the chain, deploying...")

		err = awaitTx(ctx, prm.actor)(management.New(prm.actor).Deploy(&prm.common.NEF, &prm.common.Manifest, prm.deployArgs))
		if err != nil {
			return addr, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("contract successfully deployed")
		return addr, nil
	}

	if onChain.NEF.Checksum == prm.common.NEF.Checksum {
		l.Info("contract is already up to date")
		return addr, nil
	}

	l.Info("on-chain contract differs from the local one, updating...",
		zap.Uint32("on-chain checksum", onChain.NEF.Checksum),
		zap.Uint32("local checksum", prm.common.NEF.Checksum))

	bNEF, err := prm.common.NEF.Bytes()
	if err != nil {
		return addr, fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(prm.common.Manifest)
	if err != nil {
		return addr, fmt.Errorf("encode manifest: %w", err)
	}

	err = awaitTx(ctx, prm.actor)(prm.actor.SendCall(addr, "update", bNEF, jManifest, nil))
	if err != nil {
		return addr, fmt.Errorf("update contract: %w", err)
	}

	l.Info("contract successfully updated")

	return addr, nil
}

// awaitTx returns function waiting for the sent transaction to be persisted.
// It fails if the transaction was not sent or its execution faulted.
func awaitTx(ctx context.Context, act *actor.Actor) func(util.Uint256, uint32, error) error {
	return func(h util.Uint256, vub uint32, err error) error {
		if err != nil {
			return fmt.Errorf("send transaction: %w", err)
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		res, err := act.Wait(h, vub, nil)
		if err != nil {
			return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
		}

		if res.VMState != vmstate.Halt {
			return fmt.Errorf("transaction %s faulted: %s", h.StringLE(), res.FaultException)
		}

		return nil
	}
}

func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). Repeated deployment attempts thus
// produce the same transactions within the span.
func idempotentTransactionModifier(getBlockchainHeight func() uint32) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight := getBlockchainHeight()
		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}

// ReadContracts fills Registry and Escrow of prm from the contracts found by
// their manifest names.
func (prm *Prm) ReadContracts(cs []CommonDeployPrm) error {
	mRequired := map[string]*CommonDeployPrm{
		RegistryName: &prm.Registry,
		EscrowName:   &prm.Escrow,
	}

	for i := range cs {
		p, ok := mRequired[cs[i].Manifest.Name]
		if ok {
			*p = cs[i]
			delete(mRequired, cs[i].Manifest.Name)
		}
	}

	for name := range mRequired {
		return fmt.Errorf("%w: %s", errMissingContract, name)
	}

	return nil
}
