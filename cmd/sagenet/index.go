package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/sagenet-research/sagenet-contract/indexer"
	"github.com/sagenet-research/sagenet-contract/internal/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func indexCommand() cli.Command {
	return cli.Command{
		Name:  "index",
		Usage: "Local index of contract notifications",
		Subcommands: []cli.Command{
			{
				Name:   "sync",
				Usage:  "Process blocks persisted since the last run",
				Action: action(syncIndex),
			},
			{
				Name:   "paper",
				Usage:  "Print indexed paper",
				Flags:  []cli.Flag{idFlag},
				Action: action(indexedPaper),
			},
			{
				Name:   "author",
				Usage:  "List indexed papers of the author",
				Flags:  []cli.Flag{cli.StringFlag{Name: "author", Usage: "Author address"}},
				Action: action(indexedAuthorPapers),
			},
			{
				Name:   "bounty",
				Usage:  "Print indexed bounty payouts",
				Flags:  []cli.Flag{paperFlag},
				Action: action(indexedBounty),
			},
		},
	}
}

func (e *cmdEnv) openIndex() (*indexer.Store, error) {
	s, err := indexer.Open(e.cfg.IndexDir, nil)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return s, nil
}

func closeIndex(e *cmdEnv, s *indexer.Store) {
	if err := s.Close(); err != nil {
		e.log.Error("failed to close index", zap.Error(err))
	}
}

func syncIndex(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	escHash, err := e.escrow()
	if err != nil {
		return err
	}

	s, err := e.openIndex()
	if err != nil {
		return err
	}
	defer closeIndex(e, s)

	b, err := e.dial()
	if err != nil {
		return err
	}
	defer b.close()

	x := indexer.New(indexer.Prm{
		Logger:   e.log,
		Store:    s,
		Registry: regHash,
		Escrow:   escHash,
	})

	n, err := x.Sync(e.ctx, b.rpc)
	if err != nil {
		return fmt.Errorf("sync index (%d blocks processed): %w", n, err)
	}

	e.printf("%d blocks processed\n", n)

	return nil
}

func indexedPaper(e *cmdEnv) error {
	id, err := e.bigIntFlag("id")
	if err != nil {
		return err
	}

	s, err := e.openIndex()
	if err != nil {
		return err
	}
	defer closeIndex(e, s)

	p, err := s.Paper(id.Uint64())
	if err != nil {
		return fmt.Errorf("paper %s: %w", id, err)
	}

	e.printf("ID:        %d\n", p.ID)
	e.printf("Author:    %s\n", p.Author.StringLE())
	e.printf("Content:   %s\n", p.ContentHash)
	e.printf("Versions:  %d\n", p.Versions)
	e.printf("Status:    %d\n", p.Status)
	e.printf("Submitted: block %d, tx %s\n", p.Block, p.Tx.StringLE())

	return nil
}

func indexedAuthorPapers(e *cmdEnv) error {
	str, err := e.stringFlag("author")
	if err != nil {
		return err
	}

	author, err := config.ParseHash(str)
	if err != nil {
		return fmt.Errorf("author: %w", err)
	}

	s, err := e.openIndex()
	if err != nil {
		return err
	}
	defer closeIndex(e, s)

	ids, err := s.PapersByAuthor(author)
	if err != nil {
		return err
	}

	for _, id := range ids {
		e.printf("%d\n", id)
	}

	return nil
}

func indexedBounty(e *cmdEnv) error {
	paperID, err := e.bigIntFlag("paper")
	if err != nil {
		return err
	}

	s, err := e.openIndex()
	if err != nil {
		return err
	}
	defer closeIndex(e, s)

	bounty, err := s.Bounty(paperID.Uint64())
	if err != nil {
		return fmt.Errorf("bounty %s: %w", paperID, err)
	}

	ids, err := s.ReviewsByPaper(bounty.PaperID)
	if err != nil {
		return err
	}

	gas := func(v int64) string { return fixedn.ToString(big.NewInt(v), gasPrecision) }

	e.printf("Amount:   %s GAS\n", gas(bounty.Amount))
	e.printf("Paid:     %s GAS to %d reviewers\n", gas(bounty.Paid), bounty.Accepted)
	e.printf("Returned: %s GAS\n", gas(bounty.Returned))
	e.printf("Held:     %s GAS\n", gas(bounty.Remaining()))
	e.printf("Active:   %t\n", bounty.Active)

	for _, id := range ids {
		r, err := s.Review(id)
		if err != nil {
			return fmt.Errorf("review %d: %w", id, err)
		}
		e.printf("  review %d by %s: status %d, paid %s GAS\n", r.ID, r.Reviewer.StringLE(), r.Status, gas(r.Payout))
	}

	return nil
}
