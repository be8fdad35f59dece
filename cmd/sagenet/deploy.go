package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/sagenet-research/sagenet-contract/contracts"
	"github.com/sagenet-research/sagenet-contract/deploy"
	"github.com/sagenet-research/sagenet-contract/internal/config"
	"github.com/urfave/cli"
)

func deployCommand() cli.Command {
	return cli.Command{
		Name:  "deploy",
		Usage: "Deploy or update SageNet contracts",
		Description: "Contracts are read from <dir>/registry and <dir>/escrow, each holding contract.nef " +
			"and manifest.json. Already deployed contracts are updated if they differ. Use SAGENET_REGISTRY " +
			"and SAGENET_ESCROW to point to contracts deployed before.",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "contracts", Usage: "Directory with compiled contracts", Value: "contracts"},
			cli.StringFlag{Name: "owner", Usage: "Owner of the contracts, the wallet account if omitted"},
		},
		Action: action(deployContracts),
	}
}

func deployContracts(e *cmdEnv) error {
	cs, err := contracts.Read(os.DirFS(e.cli.String("contracts")))
	if err != nil {
		return fmt.Errorf("read contracts: %w", err)
	}

	prm := deploy.Prm{
		Logger:          e.log,
		RegistryAddress: e.cfg.Registry,
		EscrowAddress:   e.cfg.Escrow,
	}

	if s := e.cli.String("owner"); s != "" {
		prm.Owner, err = config.ParseHash(s)
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
	}

	common := make([]deploy.CommonDeployPrm, len(cs))
	for i := range cs {
		common[i] = deploy.CommonDeployPrm{NEF: cs[i].NEF, Manifest: cs[i].Manifest}
	}

	err = prm.ReadContracts(common)
	if err != nil {
		return err
	}

	b, err := e.dialSigner()
	if err != nil {
		return err
	}
	defer b.close()

	prm.Blockchain = b.rpc
	prm.LocalAccount = b.acc

	res, err := deploy.Deploy(e.ctx, prm)
	if err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	e.printf("SAGENET_REGISTRY=%s\n", address.Uint160ToString(res.Registry))
	e.printf("SAGENET_ESCROW=%s\n", address.Uint160ToString(res.Escrow))

	return nil
}
