package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/sagenet-research/sagenet-contract/rpc/escrow"
	"github.com/urfave/cli"
)

// gasPrecision is the number of GAS decimals.
const gasPrecision = 8

var paperFlag = cli.Int64Flag{
	Name:  "paper",
	Usage: "Paper ID",
}

func bountyCommand() cli.Command {
	return cli.Command{
		Name:  "bounty",
		Usage: "Review bounty operations",
		Subcommands: []cli.Command{
			{
				Name:  "create",
				Usage: "Lock GAS as a review bounty for the paper",
				Flags: []cli.Flag{paperFlag,
					cli.StringFlag{Name: "amount", Usage: "Bounty amount in GAS, e.g. 12.5"},
					cli.Int64Flag{Name: "reviewers", Usage: "Maximum number of paid reviews", Value: 3},
					cli.DurationFlag{Name: "duration", Usage: "Review period", Value: 14 * 24 * time.Hour},
				},
				Action: action(createBounty),
			},
			{
				Name:   "show",
				Usage:  "Print bounty state",
				Flags:  []cli.Flag{paperFlag},
				Action: action(showBounty),
			},
			{
				Name:   "reclaim",
				Usage:  "Return unpaid GAS after the deadline",
				Flags:  []cli.Flag{paperFlag},
				Action: action(reclaimBounty),
			},
		},
	}
}

func createBounty(e *cmdEnv) error {
	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	paperID, err := e.bigIntFlag("paper")
	if err != nil {
		return err
	}

	amount, err := fixedn.FromString(e.cli.String("amount"), gasPrecision)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("--amount must be positive")
	}

	reviewers, err := e.bigIntFlag("reviewers")
	if err != nil {
		return err
	}

	d := e.cli.Duration("duration")
	if d <= 0 {
		return fmt.Errorf("--duration must be positive")
	}
	deadline := big.NewInt(time.Now().Add(d).UnixMilli())

	b, err := e.dialSigner()
	if err != nil {
		return err
	}
	defer b.close()

	// The escrow pulls GAS from the signer.
	act, err := b.actor(escHash, gas.Hash)
	if err != nil {
		return err
	}

	log, err := b.await(act)(escrow.New(act, escHash).CreateBounty(paperID, deadline, reviewers, amount))
	if err != nil {
		return fmt.Errorf("create bounty: %w", err)
	}

	events, err := escrow.BountyCreatedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}
	if len(events) != 1 {
		return fmt.Errorf("unexpected number of BountyCreated events %d", len(events))
	}

	e.printf("Bounty of %s GAS for paper %s is open until %s\n",
		fixedn.ToString(events[0].Amount, gasPrecision), events[0].PaperID, formatTime(events[0].Deadline))

	return nil
}

func showBounty(e *cmdEnv) error {
	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	paperID, err := e.bigIntFlag("paper")
	if err != nil {
		return err
	}

	b, err := e.dial()
	if err != nil {
		return err
	}
	defer b.close()

	reader := escrow.NewReader(b.inv, escHash)

	bounty, err := reader.GetBounty(paperID)
	if err != nil {
		return fmt.Errorf("get bounty: %w", err)
	}

	st, err := reader.GetBountyStatus(paperID)
	if err != nil {
		return fmt.Errorf("get bounty status: %w", err)
	}

	accepted, err := reader.GetAcceptedReviews(paperID)
	if err != nil {
		return fmt.Errorf("get accepted reviews: %w", err)
	}

	e.printf("Paper:      %s\n", bounty.PaperID)
	e.printf("Creator:    %s\n", bounty.Creator.StringLE())
	e.printf("Amount:     %s GAS\n", fixedn.ToString(bounty.Amount, gasPrecision))
	e.printf("Per review: %s GAS\n", fixedn.ToString(st.SlotAmount, gasPrecision))
	e.printf("Deadline:   %s\n", formatTime(bounty.Deadline))
	e.printf("Active:     %t\n", bounty.Active)
	e.printf("Slots:      %s of %s free\n", st.RemainingSlots, bounty.MaxReviewers)
	e.printf("Accepted:   %v\n", accepted)

	return nil
}

func reclaimBounty(e *cmdEnv) error {
	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	paperID, err := e.bigIntFlag("paper")
	if err != nil {
		return err
	}

	b, err := e.dialSigner()
	if err != nil {
		return err
	}
	defer b.close()

	act, err := b.actor()
	if err != nil {
		return err
	}

	log, err := b.await(act)(escrow.New(act, escHash).ReclaimBounty(paperID))
	if err != nil {
		return fmt.Errorf("reclaim bounty: %w", err)
	}

	events, err := escrow.BountyCompletedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}
	if len(events) != 1 {
		return fmt.Errorf("unexpected number of BountyCompleted events %d", len(events))
	}

	e.printf("Bounty for paper %s closed, %s GAS returned\n", paperID, fixedn.ToString(events[0].Returned, gasPrecision))

	return nil
}
