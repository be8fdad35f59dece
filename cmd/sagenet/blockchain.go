package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/sagenet-research/sagenet-contract/internal/config"
	"go.uber.org/zap"
)

// remoteBlockchain wraps Neo RPC client providing services needed for
// current command.
type remoteBlockchain struct {
	log *zap.Logger
	rpc *rpcclient.Client
	inv *invoker.Invoker

	// acc is set by unlock only.
	acc *wallet.Account
}

// dial connects to the configured Neo RPC server. Connection and all
// requests are limited by the command timeout.
func (e *cmdEnv) dial() (*remoteBlockchain, error) {
	c, err := rpcclient.New(e.ctx, e.cfg.RPCEndpoint, rpcclient.Options{
		DialTimeout:    e.cfg.Timeout,
		RequestTimeout: e.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	e.log.Debug("connected to Neo RPC server", zap.String("endpoint", e.cfg.RPCEndpoint))

	return &remoteBlockchain{
		log: e.log,
		rpc: c,
		inv: invoker.New(c, nil),
	}, nil
}

// dialSigner connects to the RPC server and unlocks the wallet account.
func (e *cmdEnv) dialSigner() (*remoteBlockchain, error) {
	if e.cfg.Wallet == "" {
		return nil, fmt.Errorf("wallet is not configured (SAGENET_WALLET)")
	}

	acc, err := e.unlockAccount()
	if err != nil {
		return nil, err
	}

	b, err := e.dial()
	if err != nil {
		return nil, err
	}

	b.acc = acc

	return b, nil
}

func (e *cmdEnv) unlockAccount() (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(e.cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var h util.Uint160
	if e.cfg.Account != "" {
		h, err = config.ParseHash(e.cfg.Account)
		if err != nil {
			return nil, fmt.Errorf("wallet account: %w", err)
		}
	} else {
		h = w.GetChangeAddress()
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", h.StringLE())
	}

	err = acc.Decrypt(e.cfg.WalletPassword, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlock account %s: %w", h.StringLE(), err)
	}

	return acc, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

func (x *remoteBlockchain) account() util.Uint160 {
	return x.acc.ScriptHash()
}

// actor returns transaction sender signing with the unlocked account. The
// witness is limited by entry script unless contracts are listed, then it is
// valid in them only. The latter is needed when the called contract
// spends the signer's assets, e.g. bounty funding pulls GAS.
func (x *remoteBlockchain) actor(contracts ...util.Uint160) (*actor.Actor, error) {
	signer := transaction.Signer{
		Account: x.acc.ScriptHash(),
		Scopes:  transaction.CalledByEntry,
	}
	if len(contracts) > 0 {
		signer.Scopes = transaction.CustomContracts
		signer.AllowedContracts = contracts
	}

	act, err := actor.New(x.rpc, []actor.SignerAccount{{
		Signer:  signer,
		Account: x.acc,
	}})
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return act, nil
}

// await returns function waiting for the sent transaction to be accepted and
// returning its application log. Faulted transactions are returned as errors.
func (x *remoteBlockchain) await(act *actor.Actor) func(util.Uint256, uint32, error) (*result.ApplicationLog, error) {
	return func(h util.Uint256, vub uint32, err error) (*result.ApplicationLog, error) {
		if err != nil {
			return nil, fmt.Errorf("send transaction: %w", err)
		}

		x.log.Info("transaction sent, waiting for acceptance...", zap.Stringer("tx", h), zap.Uint32("vub", vub))

		start := time.Now()
		res, err := act.Wait(h, vub, nil)
		if err != nil {
			return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
		}

		if res.VMState != vmstate.Halt {
			return nil, fmt.Errorf("transaction %s faulted: %s", h.StringLE(), res.FaultException)
		}

		x.log.Info("transaction accepted", zap.Stringer("tx", h), zap.Duration("took", time.Since(start)))

		return applicationLog(res), nil
	}
}

func applicationLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}
}

var zeroHash util.Uint160

// formatTime formats block timestamp in milliseconds.
func formatTime(ms *big.Int) string {
	return time.UnixMilli(ms.Int64()).UTC().Format(time.RFC3339)
}
