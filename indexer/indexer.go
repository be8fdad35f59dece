/*
Package indexer maintains an off-chain index of SageNet contracts state built
from their notifications.

The index is fed with application logs of persisted blocks. It answers
queries the contracts can't answer cheaply, e.g. the history of reviewer
payouts or GAS returned to bounty creators.
*/
package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/cockroachdb/pebble"
	"github.com/nspcc-dev/neo-go/pkg/core/block"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/sagenet-research/sagenet-contract/contracts/escrow/reviewstatus"
	"github.com/sagenet-research/sagenet-contract/contracts/registry/paperstatus"
	"github.com/sagenet-research/sagenet-contract/rpc/escrow"
	"github.com/sagenet-research/sagenet-contract/rpc/registry"
	"go.uber.org/zap"
)

// ErrAheadOfChain is returned by Sync when the index contains blocks the
// chain does not have, e.g. after the chain was reset.
var ErrAheadOfChain = errors.New("indexer: index is ahead of the chain")

// Chain provides blocks and their execution results.
type Chain interface {
	GetBlockCount() (uint32, error)
	GetBlockByIndex(index uint32) (*block.Block, error)
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)
}

// Prm groups parameters of the indexer.
type Prm struct {
	Logger *zap.Logger
	Store  *Store

	// Addresses of the indexed contracts.
	Registry util.Uint160
	Escrow   util.Uint160
}

// Indexer applies contract notifications to the Store.
type Indexer struct {
	log      *zap.Logger
	store    *Store
	registry util.Uint160
	escrow   util.Uint160
}

// New creates the indexer.
func New(prm Prm) *Indexer {
	return &Indexer{
		log:      prm.Logger,
		store:    prm.Store,
		registry: prm.Registry,
		escrow:   prm.Escrow,
	}
}

// Sync processes all blocks persisted since the previous call and returns
// the number of processed blocks. Every block is applied atomically.
func (x *Indexer) Sync(ctx context.Context, chain Chain) (uint32, error) {
	from, err := x.store.NextBlock()
	if err != nil {
		return 0, fmt.Errorf("read index height: %w", err)
	}

	count, err := chain.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}

	if from > count {
		return 0, fmt.Errorf("%w: next block %d, chain has %d", ErrAheadOfChain, from, count)
	}

	x.log.Debug("synchronizing index", zap.Uint32("from", from), zap.Uint32("to", count))

	for i := from; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return i - from, err
		}

		b, err := chain.GetBlockByIndex(i)
		if err != nil {
			return i - from, fmt.Errorf("get block %d: %w", i, err)
		}

		logs := make([]*result.ApplicationLog, 0, len(b.Transactions))
		for _, tx := range b.Transactions {
			log, err := chain.GetApplicationLog(tx.Hash(), nil)
			if err != nil {
				return i - from, fmt.Errorf("get application log of tx %s: %w", tx.Hash().StringLE(), err)
			}
			logs = append(logs, log)
		}

		if err := x.ApplyBlock(i, logs); err != nil {
			return i - from, fmt.Errorf("apply block %d: %w", i, err)
		}
	}

	return count - from, nil
}

// ApplyBlock indexes application logs of the block transactions and moves
// the index height past the block.
func (x *Indexer) ApplyBlock(index uint32, logs []*result.ApplicationLog) error {
	b := x.store.db.NewIndexedBatch()
	defer b.Close()

	for _, log := range logs {
		for _, ex := range log.Executions {
			if ex.VMState != vmstate.Halt {
				continue
			}

			for _, ev := range ex.Events {
				err := x.applyEvent(b, index, log.Container, ev)
				if err != nil {
					return fmt.Errorf("event %s of tx %s: %w", ev.Name, log.Container.StringLE(), err)
				}
			}
		}
	}

	if err := b.Set([]byte{prefixNextBlock}, nextBlockValue(index+1), nil); err != nil {
		return err
	}

	return b.Commit(pebble.Sync)
}

func (x *Indexer) applyEvent(b *pebble.Batch, index uint32, tx util.Uint256, ev state.NotificationEvent) error {
	switch {
	case ev.ScriptHash.Equals(x.registry):
		return x.applyRegistryEvent(b, index, tx, ev)
	case ev.ScriptHash.Equals(x.escrow):
		return x.applyEscrowEvent(b, tx, ev)
	default:
		return nil
	}
}

func (x *Indexer) applyRegistryEvent(b *pebble.Batch, index uint32, tx util.Uint256, ev state.NotificationEvent) error {
	switch ev.Name {
	case "PaperSubmitted":
		var e registry.PaperSubmittedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		p := Paper{
			ID:          e.PaperID.Uint64(),
			Author:      e.Author,
			ContentHash: e.ContentHash,
			Versions:    1,
			Status:      uint8(paperstatus.Draft),
			Block:       index,
			Tx:          tx,
		}
		if err := put(b, paperKey(p.ID), &p); err != nil {
			return err
		}

		x.log.Debug("paper indexed", zap.Uint64("id", p.ID), zap.String("hash", p.ContentHash))

		return b.Set(append(append([]byte{prefixAuthorPaper}, p.Author.BytesBE()...), paperKey(p.ID)[1:]...), nil, nil)
	case "PaperVersionAdded":
		var e registry.PaperVersionAddedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		return x.updatePaper(b, e.PaperID, func(p *Paper) {
			p.ContentHash = e.NewHash
			p.Versions = e.VersionCount.Uint64()
		})
	case "PaperStatusUpdated":
		var e registry.PaperStatusUpdatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		return x.updatePaper(b, e.PaperID, func(p *Paper) {
			p.Status = uint8(e.Status.Uint64())
		})
	default:
		return nil
	}
}

func (x *Indexer) updatePaper(b *pebble.Batch, id *big.Int, f func(*Paper)) error {
	var p Paper
	key := paperKey(id.Uint64())

	if err := get(b, key, &p); err != nil {
		return fmt.Errorf("paper %s: %w", id, err)
	}

	f(&p)

	return put(b, key, &p)
}

func (x *Indexer) applyEscrowEvent(b *pebble.Batch, tx util.Uint256, ev state.NotificationEvent) error {
	switch ev.Name {
	case "BountyCreated":
		var e escrow.BountyCreatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		bounty := Bounty{
			PaperID:      e.PaperID.Uint64(),
			Creator:      e.Creator,
			Amount:       e.Amount.Int64(),
			Deadline:     e.Deadline.Int64(),
			MaxReviewers: e.MaxReviewers.Uint64(),
			Active:       true,
		}

		return put(b, bountyKey(bounty.PaperID), &bounty)
	case "ReviewSubmitted":
		var e escrow.ReviewSubmittedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		r := Review{
			ID:       e.ReviewID.Uint64(),
			PaperID:  e.PaperID.Uint64(),
			Reviewer: e.Reviewer,
			Status:   uint8(reviewstatus.Pending),
			Tx:       tx,
		}
		if err := put(b, reviewKey(r.ID), &r); err != nil {
			return err
		}

		idSuffix := reviewKey(r.ID)[1:]
		if err := b.Set(append(idKey(prefixPaperReview, r.PaperID), idSuffix...), nil, nil); err != nil {
			return err
		}

		return b.Set(append(append([]byte{prefixReviewerIndex}, r.Reviewer.BytesBE()...), idSuffix...), nil, nil)
	case "ReviewStatusUpdated":
		var e escrow.ReviewStatusUpdatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		return x.updateReview(b, e.ReviewID, func(r *Review) error {
			r.Status = uint8(e.Status.Uint64())
			return nil
		})
	case "BountyClaimed":
		var e escrow.BountyClaimedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		return x.updateReview(b, e.ReviewID, func(r *Review) error {
			r.Payout = e.Amount.Int64()

			return x.updateBounty(b, r.PaperID, func(bounty *Bounty) {
				bounty.Accepted++
				bounty.Paid += r.Payout
			})
		})
	case "BountyCompleted":
		var e escrow.BountyCompletedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		return x.updateBounty(b, e.PaperID.Uint64(), func(bounty *Bounty) {
			bounty.Active = false
			bounty.Returned = e.Returned.Int64()
		})
	case "CoreAddressUpdated":
		var e escrow.CoreAddressUpdatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		if !e.Registry.Equals(x.registry) {
			x.log.Warn("escrow is bound to another registry, paper events of the new one are not indexed",
				zap.Stringer("registry", e.Registry))
		}

		return nil
	default:
		return nil
	}
}

func (x *Indexer) updateReview(b *pebble.Batch, id *big.Int, f func(*Review) error) error {
	var r Review
	key := reviewKey(id.Uint64())

	if err := get(b, key, &r); err != nil {
		return fmt.Errorf("review %s: %w", id, err)
	}

	if err := f(&r); err != nil {
		return err
	}

	return put(b, key, &r)
}

func (x *Indexer) updateBounty(b *pebble.Batch, paperID uint64, f func(*Bounty)) error {
	var bounty Bounty
	key := bountyKey(paperID)

	if err := get(b, key, &bounty); err != nil {
		return fmt.Errorf("bounty %d: %w", paperID, err)
	}

	f(&bounty)

	return put(b, key, &bounty)
}
