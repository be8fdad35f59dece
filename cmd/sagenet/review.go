package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/sagenet-research/sagenet-contract/contracts/escrow/reviewstatus"
	"github.com/sagenet-research/sagenet-contract/internal/config"
	"github.com/sagenet-research/sagenet-contract/rpc/escrow"
	"github.com/urfave/cli"
)

var reviewIDFlag = cli.Int64Flag{
	Name:  "id",
	Usage: "Review ID",
}

func reviewStatusString(s *big.Int) string {
	switch {
	case !s.IsInt64():
	case s.Int64() == int64(reviewstatus.Pending):
		return "pending"
	case s.Int64() == int64(reviewstatus.Accepted):
		return "accepted"
	case s.Int64() == int64(reviewstatus.Rejected):
		return "rejected"
	}
	return "unknown(" + s.String() + ")"
}

func reviewCommand() cli.Command {
	return cli.Command{
		Name:  "review",
		Usage: "Paper review operations",
		Subcommands: []cli.Command{
			{
				Name:   "submit",
				Usage:  "Upload the review and submit it for the paper bounty",
				Flags:  []cli.Flag{paperFlag, fileFlag},
				Action: action(submitReview),
			},
			{
				Name:   "accept",
				Usage:  "Accept the review and pay the reviewer",
				Flags:  []cli.Flag{reviewIDFlag},
				Action: action(adjudicateReview(true)),
			},
			{
				Name:   "reject",
				Usage:  "Reject the review",
				Flags:  []cli.Flag{reviewIDFlag},
				Action: action(adjudicateReview(false)),
			},
			{
				Name:   "show",
				Usage:  "Print the review",
				Flags:  []cli.Flag{reviewIDFlag},
				Action: action(showReview),
			},
			{
				Name:  "list",
				Usage: "List reviews of the paper or the reviewer",
				Flags: []cli.Flag{paperFlag,
					cli.StringFlag{Name: "reviewer", Usage: "Reviewer address"},
				},
				Action: action(listReviews),
			},
		},
	}
}

func submitReview(e *cmdEnv) error {
	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	paperID, err := e.bigIntFlag("paper")
	if err != nil {
		return err
	}

	contentHash, err := e.upload()
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

	log, err := b.await(act)(escrow.New(act, escHash).SubmitReview(b.account(), paperID, contentHash))
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}

	events, err := escrow.ReviewSubmittedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}
	if len(events) != 1 {
		return fmt.Errorf("unexpected number of ReviewSubmitted events %d", len(events))
	}

	e.printf("Review %s submitted for paper %s\n", events[0].ReviewID, paperID)

	return nil
}

func adjudicateReview(accept bool) func(*cmdEnv) error {
	return func(e *cmdEnv) error {
		escHash, err := e.escrow()
		if err != nil {
			return err
		}

		id, err := e.bigIntFlag("id")
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

		c := escrow.New(act, escHash)

		if !accept {
			_, err = b.await(act)(c.RejectReview(id))
			if err != nil {
				return fmt.Errorf("reject review: %w", err)
			}

			e.printf("Review %s rejected\n", id)
			return nil
		}

		log, err := b.await(act)(c.AcceptReview(id))
		if err != nil {
			return fmt.Errorf("accept review: %w", err)
		}

		claimed, err := escrow.BountyClaimedEventsFromApplicationLog(log)
		if err != nil {
			return err
		}
		if len(claimed) != 1 {
			return fmt.Errorf("unexpected number of BountyClaimed events %d", len(claimed))
		}

		e.printf("Review %s accepted, %s GAS paid to %s\n", id,
			fixedn.ToString(claimed[0].Amount, gasPrecision), claimed[0].Reviewer.StringLE())

		completed, err := escrow.BountyCompletedEventsFromApplicationLog(log)
		if err != nil {
			return err
		}
		if len(completed) > 0 {
			e.printf("All review slots of paper %s are filled, bounty closed\n", completed[0].PaperID)
		}

		return nil
	}
}

func showReview(e *cmdEnv) error {
	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	id, err := e.bigIntFlag("id")
	if err != nil {
		return err
	}

	b, err := e.dial()
	if err != nil {
		return err
	}
	defer b.close()

	r, err := escrow.NewReader(b.inv, escHash).GetReview(id)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}

	e.printf("ID:        %s\n", r.ID)
	e.printf("Paper:     %s\n", r.PaperID)
	e.printf("Reviewer:  %s\n", r.Reviewer.StringLE())
	e.printf("Content:   %s\n", r.ContentHash)
	e.printf("Status:    %s\n", reviewStatusString(r.Status))
	e.printf("Payout:    %s GAS\n", fixedn.ToString(r.BountyAmount, gasPrecision))
	e.printf("Submitted: %s\n", formatTime(r.Timestamp))

	return nil
}

func listReviews(e *cmdEnv) error {
	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	b, err := e.dial()
	if err != nil {
		return err
	}
	defer b.close()

	reader := escrow.NewReader(b.inv, escHash)

	var ids []*big.Int
	if s := e.cli.String("reviewer"); s != "" {
		reviewer, err := config.ParseHash(s)
		if err != nil {
			return fmt.Errorf("reviewer: %w", err)
		}

		ids, err = reader.GetReviewsByReviewer(reviewer)
		if err != nil {
			return fmt.Errorf("get reviews by reviewer: %w", err)
		}
	} else {
		paperID, err := e.bigIntFlag("paper")
		if err != nil {
			return err
		}

		ids, err = reader.GetReviewsByPaper(paperID)
		if err != nil {
			return fmt.Errorf("get reviews by paper: %w", err)
		}
	}

	for i := range ids {
		e.printf("%s\n", ids[i])
	}

	return nil
}
