package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sagenet-research/sagenet-contract/contentstore"
	"github.com/sagenet-research/sagenet-contract/contracts/registry/paperstatus"
	"github.com/sagenet-research/sagenet-contract/internal/config"
	"github.com/sagenet-research/sagenet-contract/rpc/registry"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// listPageSize is the number of paper IDs fetched from the iterator per
// request.
const listPageSize = 100

var statusNames = map[string]paperstatus.Type{
	"draft":       paperstatus.Draft,
	"application": paperstatus.InApplication,
	"review":      paperstatus.InReview,
	"published":   paperstatus.Published,
}

func statusString(s *big.Int) string {
	for name, v := range statusNames {
		if s.IsInt64() && s.Int64() == int64(v) {
			return name
		}
	}
	return "unknown(" + s.String() + ")"
}

var (
	idFlag = cli.Int64Flag{
		Name:  "id",
		Usage: "Paper ID",
	}
	fileFlag = cli.StringFlag{
		Name:  "file, f",
		Usage: "Path to the document",
	}
)

func paperCommand() cli.Command {
	return cli.Command{
		Name:  "paper",
		Usage: "Paper registry operations",
		Subcommands: []cli.Command{
			{
				Name:   "submit",
				Usage:  "Upload the document and register it as a new paper",
				Flags:  []cli.Flag{fileFlag, cli.StringFlag{Name: "title"}, cli.StringFlag{Name: "abstract"}},
				Action: action(submitPaper),
			},
			{
				Name:   "update",
				Usage:  "Upload new version of the paper",
				Flags:  []cli.Flag{idFlag, fileFlag, cli.StringFlag{Name: "notes", Usage: "Change notes"}},
				Action: action(updatePaper),
			},
			{
				Name:   "show",
				Usage:  "Print paper and its version history",
				Flags:  []cli.Flag{idFlag},
				Action: action(showPaper),
			},
			{
				Name:   "list",
				Usage:  "List all registered papers or papers of the author",
				Flags:  []cli.Flag{cli.StringFlag{Name: "author", Usage: "Author address"}},
				Action: action(listPapers),
			},
			{
				Name:   "verify",
				Usage:  "Check whether the document is registered",
				Flags:  []cli.Flag{fileFlag},
				Action: action(verifyPaper),
			},
			{
				Name:  "fetch",
				Usage: "Read the paper version from the content store",
				Flags: []cli.Flag{idFlag,
					cli.Int64Flag{Name: "version", Usage: "Version number, the latest if omitted"},
					cli.StringFlag{Name: "out, o", Usage: "Output file"},
				},
				Action: action(fetchPaper),
			},
			{
				Name:   "handoff",
				Usage:  "Submit the paper to the publisher",
				Flags:  []cli.Flag{idFlag, cli.StringFlag{Name: "publisher", Usage: "Publisher address"}},
				Action: action(handOffPaper),
			},
			{
				Name:   "status",
				Usage:  "Set paper status (draft, application, review, published)",
				Flags:  []cli.Flag{idFlag, cli.StringFlag{Name: "status"}},
				Action: action(setPaperStatus),
			},
		},
	}
}

// upload puts the document into the content store. It is done before any
// transaction is built.
func (e *cmdEnv) upload() (string, error) {
	path, err := e.stringFlag("file")
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	cas, err := e.contentStore()
	if err != nil {
		return "", err
	}

	id, err := cas.Put(data)
	if err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}

	e.log.Info("document uploaded", zap.Stringer("cid", id), zap.Int("size", len(data)))

	return id.String(), nil
}

func submitPaper(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	title, err := e.stringFlag("title")
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

	exists, id, err := registry.NewReader(b.inv, regHash).VerifyPaper(contentHash)
	if err != nil {
		return fmt.Errorf("verify paper: %w", err)
	}
	if exists {
		return fmt.Errorf("document %s is already registered as paper %s", contentHash, id)
	}

	act, err := b.actor()
	if err != nil {
		return err
	}

	log, err := b.await(act)(registry.New(act, regHash).SubmitPaper(b.account(), contentHash, title, e.cli.String("abstract")))
	if err != nil {
		return fmt.Errorf("submit paper: %w", err)
	}

	events, err := registry.PaperSubmittedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}
	if len(events) != 1 {
		return fmt.Errorf("unexpected number of PaperSubmitted events %d", len(events))
	}

	e.printf("Paper %s registered, content hash %s\n", events[0].PaperID, contentHash)

	return nil
}

func updatePaper(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	id, err := e.bigIntFlag("id")
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

	log, err := b.await(act)(registry.New(act, regHash).UpdatePaperHash(id, contentHash, e.cli.String("notes")))
	if err != nil {
		return fmt.Errorf("update paper: %w", err)
	}

	events, err := registry.PaperVersionAddedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}
	if len(events) != 1 {
		return fmt.Errorf("unexpected number of PaperVersionAdded events %d", len(events))
	}

	e.printf("Paper %s version %s: %s -> %s\n", id, events[0].VersionCount, events[0].OldHash, events[0].NewHash)

	return nil
}

func showPaper(e *cmdEnv) error {
	regHash, err := e.registry()
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

	reader := registry.NewReader(b.inv, regHash)

	p, err := reader.GetPaper(id)
	if err != nil {
		return fmt.Errorf("get paper: %w", err)
	}

	history, err := reader.GetPaperVersionHistory(id)
	if err != nil {
		return fmt.Errorf("get version history: %w", err)
	}

	e.printf("ID:        %s\n", p.ID)
	e.printf("Title:     %s\n", p.Title)
	e.printf("Abstract:  %s\n", p.Abstract)
	e.printf("Author:    %s\n", p.Author.StringLE())
	e.printf("Status:    %s\n", statusString(p.Status))
	if !p.Publisher.Equals(zeroHash) {
		e.printf("Publisher: %s\n", p.Publisher.StringLE())
	}
	e.printf("Content:   %s\n", p.ContentHash)
	e.printf("Versions:\n")
	for i, v := range history {
		e.printf("  %d. %s at %s: %s\n", i+1, v.ContentHash, formatTime(v.Timestamp), v.ChangeNotes)
	}

	return nil
}

func listPapers(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	b, err := e.dial()
	if err != nil {
		return err
	}
	defer b.close()

	reader := registry.NewReader(b.inv, regHash)

	if author := e.cli.String("author"); author != "" {
		h, err := config.ParseHash(author)
		if err != nil {
			return fmt.Errorf("author: %w", err)
		}

		ids, err := reader.GetPapersByAuthor(h)
		if err != nil {
			return fmt.Errorf("get papers by author: %w", err)
		}

		for i := range ids {
			e.printf("%s\n", ids[i])
		}
		return nil
	}

	sess, iter, err := reader.PapersSession()
	if err != nil {
		return fmt.Errorf("open papers iterator: %w", err)
	}
	defer func() {
		if sess != uuid.Nil {
			_ = b.inv.TerminateSession(sess)
		}
	}()

	for {
		items, err := b.inv.TraverseIterator(sess, &iter, listPageSize)
		if err != nil {
			return fmt.Errorf("traverse papers iterator: %w", err)
		}

		for i := range items {
			tokenID, err := items[i].TryBytes()
			if err != nil {
				return fmt.Errorf("invalid token ID: %w", err)
			}
			e.printf("%s\n", tokenID)
		}

		if len(items) < listPageSize {
			return nil
		}
	}
}

func verifyPaper(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	path, err := e.stringFlag("file")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	cid, err := contentstore.Sum(data)
	if err != nil {
		return err
	}

	b, err := e.dial()
	if err != nil {
		return err
	}
	defer b.close()

	exists, id, err := registry.NewReader(b.inv, regHash).VerifyPaper(cid.String())
	if err != nil {
		return fmt.Errorf("verify paper: %w", err)
	}

	if !exists {
		e.printf("Document %s is not registered\n", cid)
		return nil
	}

	e.printf("Document %s is registered as paper %s\n", cid, id)

	return nil
}

func fetchPaper(e *cmdEnv) error {
	regHash, err := e.registry()
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

	reader := registry.NewReader(b.inv, regHash)

	var contentHash string
	if v := e.cli.Int64("version"); v > 0 {
		version, err := reader.GetPaperVersion(id, big.NewInt(v))
		if err != nil {
			return fmt.Errorf("get paper version: %w", err)
		}
		contentHash = version.ContentHash
	} else {
		p, err := reader.GetPaper(id)
		if err != nil {
			return fmt.Errorf("get paper: %w", err)
		}
		contentHash = p.ContentHash
	}

	cid, err := contentstore.Parse(contentHash)
	if err != nil {
		return err
	}

	cas, err := e.contentStore()
	if err != nil {
		return err
	}

	data, err := cas.Get(cid)
	if errors.Is(err, contentstore.ErrNotFound) {
		return fmt.Errorf("document %s is not in the local store %s", contentHash, e.cfg.CASDir)
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	out := e.cli.String("out")
	if out == "" {
		_, err = e.cli.App.Writer.Write(data)
		return err
	}

	return os.WriteFile(out, data, 0o644)
}

func handOffPaper(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	id, err := e.bigIntFlag("id")
	if err != nil {
		return err
	}

	s, err := e.stringFlag("publisher")
	if err != nil {
		return err
	}

	publisher, err := config.ParseHash(s)
	if err != nil {
		return fmt.Errorf("publisher: %w", err)
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

	_, err = b.await(act)(registry.New(act, regHash).SubmitToPublisher(id, publisher))
	if err != nil {
		return fmt.Errorf("submit to publisher: %w", err)
	}

	e.printf("Paper %s submitted to %s\n", id, publisher.StringLE())

	return nil
}

func setPaperStatus(e *cmdEnv) error {
	regHash, err := e.registry()
	if err != nil {
		return err
	}

	id, err := e.bigIntFlag("id")
	if err != nil {
		return err
	}

	s, err := e.stringFlag("status")
	if err != nil {
		return err
	}

	status, ok := statusNames[s]
	if !ok {
		n, err := strconv.Atoi(s)
		if err != nil || !paperstatus.IsValid(n) {
			return fmt.Errorf("invalid status %q", s)
		}
		status = paperstatus.Type(n)
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

	_, err = b.await(act)(registry.New(act, regHash).UpdatePaperStatus(id, big.NewInt(int64(status))))
	if err != nil {
		return fmt.Errorf("update paper status: %w", err)
	}

	e.printf("Paper %s status is %s\n", id, statusString(big.NewInt(int64(status))))

	return nil
}
