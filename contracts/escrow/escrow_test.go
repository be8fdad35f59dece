package escrow_test

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/sagenet-research/sagenet-contract/common"
	"github.com/sagenet-research/sagenet-contract/contracts/escrow"
	"github.com/sagenet-research/sagenet-contract/contracts/escrow/reviewstatus"
	"github.com/sagenet-research/sagenet-contract/contracts/registry/paperstatus"
	"github.com/sagenet-research/sagenet-contract/internal/testchain"
	"github.com/sagenet-research/sagenet-contract/policy"
	rpcescrow "github.com/sagenet-research/sagenet-contract/rpc/escrow"
	rpcregistry "github.com/sagenet-research/sagenet-contract/rpc/registry"
	"github.com/stretchr/testify/require"
)

const (
	gasUnit      = 1_0000_0000
	bountyAmount = 10 * gasUnit
	// deadlineDelta is the bounty lifetime in milliseconds, each block adds
	// one millisecond to the chain time.
	deadlineDelta = 1000
)

type bountyEnv struct {
	*testchain.Env

	author    neotest.Signer
	cRegistry *neotest.ContractInvoker
	cEscrow   *neotest.ContractInvoker
	cAuthor   *neotest.ContractInvoker
	deadline  int64
}

// newBountyEnv deploys contracts, submits paper 1 and opens a bounty for it.
func newBountyEnv(t *testing.T, maxReviewers int) *bountyEnv {
	env := testchain.Deploy(t)

	cRegistry := env.CommitteeInvoker(env.Registry.Hash)
	cEscrow := env.CommitteeInvoker(env.Escrow.Hash)

	author := cEscrow.NewAccount(t)
	cRegistry.WithSigners(author).Invoke(t, 1, "submitPaper",
		author.ScriptHash(), testchain.ContentHash(t, "paper"), "Title", "Abstract")

	deadline := int64(env.TopBlock(t).Timestamp) + deadlineDelta
	cAuthor := cEscrow.WithSigners(author)
	cAuthor.Invoke(t, stackitem.Null{}, "createBounty", 1, deadline, maxReviewers, bountyAmount)

	return &bountyEnv{
		Env:       env,
		author:    author,
		cRegistry: cRegistry,
		cEscrow:   cEscrow,
		cAuthor:   cAuthor,
		deadline:  deadline,
	}
}

func (b *bountyEnv) newReviewer(t *testing.T) (neotest.Signer, *neotest.ContractInvoker) {
	acc := b.cEscrow.NewAccount(t)
	return acc, b.cEscrow.WithSigners(acc)
}

func (b *bountyEnv) submitReview(t *testing.T, reviewer neotest.Signer, expectedID int) {
	b.cEscrow.WithSigners(reviewer).Invoke(t, expectedID, "submitReview",
		reviewer.ScriptHash(), 1, testchain.ContentHash(t, reviewer.ScriptHash().StringLE()))
}

func (b *bountyEnv) gasBalance(h util.Uint160) int64 {
	return b.Chain.GetUtilityTokenBalance(h).Int64()
}

func applicationLog(t *testing.T, b *bountyEnv, h util.Uint256) *result.ApplicationLog {
	aer := b.CheckHalt(t, h)
	return &result.ApplicationLog{
		Container:     h,
		IsTransaction: true,
		Executions:    []state.Execution{aer.Execution},
	}
}

func getBounty(t *testing.T, c *neotest.ContractInvoker, paperID int) *rpcescrow.Bounty {
	s, err := c.TestInvoke(t, "getBounty", paperID)
	require.NoError(t, err)

	var b rpcescrow.Bounty
	require.NoError(t, b.FromStackItem(s.Pop().Item()))
	return &b
}

func getReview(t *testing.T, c *neotest.ContractInvoker, reviewID int) *rpcescrow.Review {
	s, err := c.TestInvoke(t, "getReview", reviewID)
	require.NoError(t, err)

	var r rpcescrow.Review
	require.NoError(t, r.FromStackItem(s.Pop().Item()))
	return &r
}

func getBountyStatus(t *testing.T, c *neotest.ContractInvoker, paperID int) *rpcescrow.BountyStatus {
	s, err := c.TestInvoke(t, "getBountyStatus", paperID)
	require.NoError(t, err)

	var st rpcescrow.BountyStatus
	require.NoError(t, st.FromStackItem(s.Pop().Item()))
	return &st
}

func intList(ids ...int) stackitem.Item {
	items := make([]stackitem.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, stackitem.Make(id))
	}
	return stackitem.NewArray(items)
}

func TestEscrowGeneric(t *testing.T) {
	env := testchain.Deploy(t)
	c := env.CommitteeInvoker(env.Escrow.Hash)

	c.Invoke(t, common.Version, "version")
	c.Invoke(t, env.CommitteeHash.BytesBE(), "owner")
	c.Invoke(t, env.Registry.Hash.BytesBE(), "registry")
	c.InvokeFail(t, escrow.ErrNoBounty, "getBounty", 1)
	c.InvokeFail(t, escrow.ErrNoReview, "getReview", 1)
	c.Invoke(t, intList(), "getReviewsByPaper", 1)
}

func TestCreateBounty(t *testing.T) {
	env := testchain.Deploy(t)
	cRegistry := env.CommitteeInvoker(env.Registry.Hash)
	cEscrow := env.CommitteeInvoker(env.Escrow.Hash)

	author := cEscrow.NewAccount(t)
	cAuthor := cEscrow.WithSigners(author)
	cRegistry.WithSigners(author).Invoke(t, 1, "submitPaper",
		author.ScriptHash(), testchain.ContentHash(t, "paper"), "Title", "Abstract")

	deadline := int64(env.TopBlock(t).Timestamp) + deadlineDelta

	t.Run("not author", func(t *testing.T) {
		other := cEscrow.NewAccount(t)
		cEscrow.WithSigners(other).InvokeFail(t, policy.ErrNotBountyAuthor, "createBounty",
			1, deadline, 3, bountyAmount)
	})
	t.Run("zero amount", func(t *testing.T) {
		cAuthor.InvokeFail(t, escrow.ErrZeroAmount, "createBounty", 1, deadline, 3, 0)
	})
	t.Run("past deadline", func(t *testing.T) {
		now := int64(env.TopBlock(t).Timestamp)
		cAuthor.InvokeFail(t, escrow.ErrDeadline, "createBounty", 1, now, 3, bountyAmount)
	})
	t.Run("zero reviewers", func(t *testing.T) {
		cAuthor.InvokeFail(t, escrow.ErrZeroReviewers, "createBounty", 1, deadline, 0, bountyAmount)
	})
	t.Run("missing paper", func(t *testing.T) {
		cAuthor.InvokeFail(t, "Paper does not exist", "createBounty", 2, deadline, 3, bountyAmount)
	})
	t.Run("insufficient funds", func(t *testing.T) {
		cAuthor.InvokeFail(t, "failed to transfer funds", "createBounty", 1, deadline, 3, 1000*gasUnit)
	})

	h := cAuthor.Invoke(t, stackitem.Null{}, "createBounty", 1, deadline, 3, bountyAmount)
	aer := cAuthor.CheckHalt(t, h)

	var created []*rpcescrow.BountyCreatedEvent
	for _, ev := range aer.Events {
		if ev.Name != "BountyCreated" {
			continue
		}
		var e rpcescrow.BountyCreatedEvent
		require.NoError(t, e.FromStackItem(ev.Item))
		created = append(created, &e)
	}
	require.Equal(t, 1, len(created))
	require.EqualValues(t, 1, created[0].PaperID.Int64())
	require.Equal(t, author.ScriptHash(), created[0].Creator)
	require.EqualValues(t, bountyAmount, created[0].Amount.Int64())
	require.EqualValues(t, deadline, created[0].Deadline.Int64())
	require.EqualValues(t, 3, created[0].MaxReviewers.Int64())

	require.EqualValues(t, bountyAmount, env.Chain.GetUtilityTokenBalance(env.Escrow.Hash).Int64())

	b := getBounty(t, cEscrow, 1)
	require.Equal(t, author.ScriptHash(), b.Creator)
	require.EqualValues(t, bountyAmount, b.Amount.Int64())
	require.EqualValues(t, 0, b.AcceptedReviews.Int64())
	require.True(t, b.Active)

	s, err := cRegistry.TestInvoke(t, "getPaper", 1)
	require.NoError(t, err)
	var p rpcregistry.Paper
	require.NoError(t, p.FromStackItem(s.Pop().Item()))
	require.EqualValues(t, paperstatus.InReview, p.Status.Int64())

	st := getBountyStatus(t, cEscrow, 1)
	require.EqualValues(t, 3, st.RemainingSlots.Int64())
	require.EqualValues(t, bountyAmount/3, st.SlotAmount.Int64())
	require.True(t, st.Active)
	require.True(t, st.TimeRemaining.Sign() > 0)

	t.Run("second bounty", func(t *testing.T) {
		cAuthor.InvokeFail(t, escrow.ErrBountyExists, "createBounty", 1, deadline, 3, bountyAmount)
	})
}

func TestUnexpectedPayment(t *testing.T) {
	env := testchain.Deploy(t)

	acc := env.NewAccount(t)
	cGas := env.NewInvoker(env.NativeHash(t, nativenames.Gas), acc)
	cGas.InvokeFail(t, escrow.ErrUnexpectedPayment, "transfer", acc.ScriptHash(), env.Escrow.Hash, 1, nil)

	cNeo := env.CommitteeInvoker(env.NativeHash(t, nativenames.Neo))
	cNeo.InvokeFail(t, "ABORT", "transfer", env.CommitteeHash, env.Escrow.Hash, 1, nil)

	require.EqualValues(t, 0, env.Chain.GetUtilityTokenBalance(env.Escrow.Hash).Int64())
}

func TestSubmitReview(t *testing.T) {
	b := newBountyEnv(t, 2)

	reviewer, cReviewer := b.newReviewer(t)
	hash := testchain.ContentHash(t, "review")

	t.Run("author review", func(t *testing.T) {
		b.cAuthor.InvokeFail(t, policy.ErrSelfReview, "submitReview", b.author.ScriptHash(), 1, hash)
	})
	t.Run("no reviewer witness", func(t *testing.T) {
		b.cAuthor.InvokeFail(t, policy.ErrNoReviewerWitness, "submitReview", reviewer.ScriptHash(), 1, hash)
	})
	t.Run("no bounty", func(t *testing.T) {
		b.cRegistry.WithSigners(b.author).Invoke(t, 2, "submitPaper",
			b.author.ScriptHash(), testchain.ContentHash(t, "paper 2"), "Title", "Abstract")
		cReviewer.InvokeFail(t, escrow.ErrNoBounty, "submitReview", reviewer.ScriptHash(), 2, hash)
	})
	t.Run("empty content hash", func(t *testing.T) {
		cReviewer.InvokeFail(t, escrow.ErrEmptyContentHash, "submitReview", reviewer.ScriptHash(), 1, "")
	})

	h := cReviewer.Invoke(t, 1, "submitReview", reviewer.ScriptHash(), 1, hash)
	aer := cReviewer.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "ReviewSubmitted", aer.Events[0].Name)

	var ev rpcescrow.ReviewSubmittedEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.EqualValues(t, 1, ev.PaperID.Int64())
	require.EqualValues(t, 1, ev.ReviewID.Int64())
	require.Equal(t, reviewer.ScriptHash(), ev.Reviewer)

	r := getReview(t, b.cEscrow, 1)
	require.EqualValues(t, 1, r.ID.Int64())
	require.EqualValues(t, 1, r.PaperID.Int64())
	require.Equal(t, reviewer.ScriptHash(), r.Reviewer)
	require.Equal(t, hash, r.ContentHash)
	require.EqualValues(t, reviewstatus.Pending, r.Status.Int64())
	require.EqualValues(t, 0, r.BountyAmount.Int64())

	// Pending reviews do not take slots, any number can be submitted.
	cReviewer.Invoke(t, 2, "submitReview", reviewer.ScriptHash(), 1, testchain.ContentHash(t, "another"))
	other, _ := b.newReviewer(t)
	b.submitReview(t, other, 3)

	b.cEscrow.Invoke(t, intList(1, 2, 3), "getReviewsByPaper", 1)
	b.cEscrow.Invoke(t, intList(1, 2), "getReviewsByReviewer", reviewer.ScriptHash())
	b.cEscrow.Invoke(t, intList(3), "getReviewsByReviewer", other.ScriptHash())
}

func TestReviewDeadline(t *testing.T) {
	b := newBountyEnv(t, 2)

	first, _ := b.newReviewer(t)
	late, _ := b.newReviewer(t)

	// The next transaction is executed exactly at the deadline.
	testchain.AddBlockAt(t, b.Executor, uint64(b.deadline-1))
	b.submitReview(t, first, 1)

	st := getBountyStatus(t, b.cEscrow, 1)
	require.EqualValues(t, 0, st.TimeRemaining.Int64())
	require.True(t, st.Active)

	b.cEscrow.WithSigners(late).InvokeFail(t, escrow.ErrDeadlinePassed, "submitReview",
		late.ScriptHash(), 1, testchain.ContentHash(t, "late"))

	t.Run("accept after deadline", func(t *testing.T) {
		before := b.gasBalance(first.ScriptHash())
		b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 1)
		require.Equal(t, before+bountyAmount/2, b.gasBalance(first.ScriptHash()))
	})
}

func TestAcceptReview(t *testing.T) {
	b := newBountyEnv(t, 3)
	slot := int64(bountyAmount / 3)

	r1, c1 := b.newReviewer(t)
	r2, _ := b.newReviewer(t)
	r3, _ := b.newReviewer(t)
	b.submitReview(t, r1, 1)
	b.submitReview(t, r2, 2)
	b.submitReview(t, r3, 3)

	t.Run("reviewer", func(t *testing.T) {
		c1.InvokeFail(t, policy.ErrAcceptForbidden, "acceptReview", 1)
	})
	t.Run("missing review", func(t *testing.T) {
		b.cAuthor.InvokeFail(t, escrow.ErrNoReview, "acceptReview", 4)
	})

	before := b.gasBalance(r1.ScriptHash())
	h := b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 1)
	aer := b.cAuthor.CheckHalt(t, h)

	var names []string
	for _, ev := range aer.Events {
		names = append(names, ev.Name)
	}
	require.Equal(t, []string{"ReviewStatusUpdated", "Transfer", "BountyClaimed"}, names)

	var statusEv rpcescrow.ReviewStatusUpdatedEvent
	require.NoError(t, statusEv.FromStackItem(aer.Events[0].Item))
	require.EqualValues(t, 1, statusEv.ReviewID.Int64())
	require.EqualValues(t, reviewstatus.Accepted, statusEv.Status.Int64())

	var claimed rpcescrow.BountyClaimedEvent
	require.NoError(t, claimed.FromStackItem(aer.Events[2].Item))
	require.EqualValues(t, 1, claimed.ReviewID.Int64())
	require.Equal(t, r1.ScriptHash(), claimed.Reviewer)
	require.Equal(t, slot, claimed.Amount.Int64())

	require.Equal(t, before+slot, b.gasBalance(r1.ScriptHash()))
	require.Equal(t, int64(bountyAmount)-slot, b.gasBalance(b.Escrow.Hash))

	r := getReview(t, b.cEscrow, 1)
	require.EqualValues(t, reviewstatus.Accepted, r.Status.Int64())
	require.Equal(t, slot, r.BountyAmount.Int64())

	t.Run("single payout", func(t *testing.T) {
		b.cAuthor.InvokeFail(t, escrow.ErrNotPending, "acceptReview", 1)
		b.cAuthor.InvokeFail(t, escrow.ErrNotPending, "rejectReview", 1)
		require.Equal(t, before+slot, b.gasBalance(r1.ScriptHash()))
	})

	b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 3)
	b.cEscrow.Invoke(t, intList(1, 3), "getAcceptedReviews", 1)

	st := getBountyStatus(t, b.cEscrow, 1)
	require.EqualValues(t, 1, st.RemainingSlots.Int64())
	require.True(t, st.Active)

	h = b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 2)
	aer = b.cAuthor.CheckHalt(t, h)
	last := aer.Events[len(aer.Events)-1]
	require.Equal(t, "BountyCompleted", last.Name)

	var completed rpcescrow.BountyCompletedEvent
	require.NoError(t, completed.FromStackItem(last.Item))
	require.EqualValues(t, 1, completed.PaperID.Int64())
	require.EqualValues(t, 0, completed.Returned.Int64())

	bounty := getBounty(t, b.cEscrow, 1)
	require.False(t, bounty.Active)
	require.EqualValues(t, 3, bounty.AcceptedReviews.Int64())

	// Division remainder stays in custody.
	require.Equal(t, int64(bountyAmount)-3*slot, b.gasBalance(b.Escrow.Hash))

	late, _ := b.newReviewer(t)
	b.cEscrow.WithSigners(late).InvokeFail(t, escrow.ErrBountyInactive, "submitReview",
		late.ScriptHash(), 1, testchain.ContentHash(t, "late"))
	b.cAuthor.InvokeFail(t, escrow.ErrBountyInactive, "reclaimBounty", 1)
}

func TestSlotsFilled(t *testing.T) {
	b := newBountyEnv(t, 1)

	r1, _ := b.newReviewer(t)
	r2, _ := b.newReviewer(t)
	b.submitReview(t, r1, 1)
	b.submitReview(t, r2, 2)

	b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 1)

	// The bounty is closed by the last slot, so the check for inactive
	// bounty fires first.
	b.cAuthor.InvokeFail(t, escrow.ErrBountyInactive, "acceptReview", 2)

	r3, _ := b.newReviewer(t)
	b.cEscrow.WithSigners(r3).InvokeFail(t, escrow.ErrBountyInactive, "submitReview",
		r3.ScriptHash(), 1, testchain.ContentHash(t, "r3"))

	require.EqualValues(t, reviewstatus.Pending, getReview(t, b.cEscrow, 2).Status.Int64())
	require.EqualValues(t, 0, b.gasBalance(b.Escrow.Hash))
}

func TestSlotsFilledWithRemainder(t *testing.T) {
	b := newBountyEnv(t, 3)
	const perSlot = bountyAmount / 3

	reviewers := make([]neotest.Signer, 3)
	balances := make([]int64, 3)
	for i := range reviewers {
		reviewers[i], _ = b.newReviewer(t)
		b.submitReview(t, reviewers[i], i+1)
		balances[i] = b.gasBalance(reviewers[i].ScriptHash())
	}

	b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 1)
	b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 2)
	h := b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 3)

	events, err := rpcescrow.BountyCompletedEventsFromApplicationLog(applicationLog(t, b, h))
	require.NoError(t, err)
	require.Equal(t, 1, len(events))
	require.EqualValues(t, 1, events[0].PaperID.Int64())
	require.EqualValues(t, 0, events[0].Returned.Int64())

	for i, r := range reviewers {
		require.EqualValues(t, balances[i]+perSlot, b.gasBalance(r.ScriptHash()))
	}
	require.EqualValues(t, bountyAmount%3, b.gasBalance(b.Escrow.Hash))
	require.False(t, getBounty(t, b.cEscrow, 1).Active)

	testchain.AddBlockAt(t, b.Executor, uint64(b.deadline))
	b.cAuthor.InvokeFail(t, escrow.ErrBountyInactive, "reclaimBounty", 1)
	require.EqualValues(t, bountyAmount%3, b.gasBalance(b.Escrow.Hash))
}

func TestRejectReview(t *testing.T) {
	b := newBountyEnv(t, 1)

	reviewer, cReviewer := b.newReviewer(t)
	b.submitReview(t, reviewer, 1)

	cReviewer.InvokeFail(t, policy.ErrRejectForbidden, "rejectReview", 1)

	before := b.gasBalance(reviewer.ScriptHash())
	h := b.cAuthor.Invoke(t, stackitem.Null{}, "rejectReview", 1)
	aer := b.cAuthor.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(int(reviewstatus.Rejected)),
	}), aer.Events[0].Item)

	require.Equal(t, before, b.gasBalance(reviewer.ScriptHash()))
	require.EqualValues(t, reviewstatus.Rejected, getReview(t, b.cEscrow, 1).Status.Int64())
	b.cAuthor.InvokeFail(t, escrow.ErrNotPending, "acceptReview", 1)

	st := getBountyStatus(t, b.cEscrow, 1)
	require.EqualValues(t, 1, st.RemainingSlots.Int64())
	require.True(t, st.Active)
}

func TestPublisherAdjudicates(t *testing.T) {
	b := newBountyEnv(t, 2)

	publisher := b.cEscrow.NewAccount(t)
	cPublisher := b.cEscrow.WithSigners(publisher)

	r1, _ := b.newReviewer(t)
	r2, _ := b.newReviewer(t)
	b.submitReview(t, r1, 1)
	b.submitReview(t, r2, 2)

	cPublisher.InvokeFail(t, policy.ErrAcceptForbidden, "acceptReview", 1)

	b.cRegistry.WithSigners(b.author).Invoke(t, stackitem.Null{}, "submitToPublisher", 1, publisher.ScriptHash())

	before := b.gasBalance(r1.ScriptHash())
	cPublisher.Invoke(t, stackitem.Null{}, "acceptReview", 1)
	cPublisher.Invoke(t, stackitem.Null{}, "rejectReview", 2)
	require.Equal(t, before+bountyAmount/2, b.gasBalance(r1.ScriptHash()))
}

func TestReclaimBounty(t *testing.T) {
	b := newBountyEnv(t, 3)
	slot := int64(bountyAmount / 3)

	r1, _ := b.newReviewer(t)
	b.submitReview(t, r1, 1)
	b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", 1)

	b.cAuthor.InvokeFail(t, escrow.ErrDeadlineNotPassed, "reclaimBounty", 1)

	r1Signer := b.cEscrow.WithSigners(r1)
	r1Signer.InvokeFail(t, policy.ErrNotCreator, "reclaimBounty", 1)
	b.cAuthor.InvokeFail(t, escrow.ErrNoBounty, "reclaimBounty", 2)

	testchain.AddBlockAt(t, b.Executor, uint64(b.deadline))

	h := b.cAuthor.Invoke(t, stackitem.Null{}, "reclaimBounty", 1)
	aer := b.cAuthor.CheckHalt(t, h)
	last := aer.Events[len(aer.Events)-1]
	require.Equal(t, "BountyCompleted", last.Name)

	var completed rpcescrow.BountyCompletedEvent
	require.NoError(t, completed.FromStackItem(last.Item))
	require.EqualValues(t, 1, completed.PaperID.Int64())
	require.Equal(t, int64(bountyAmount)-slot, completed.Returned.Int64())

	require.EqualValues(t, 0, b.gasBalance(b.Escrow.Hash))
	require.False(t, getBounty(t, b.cEscrow, 1).Active)

	b.cAuthor.InvokeFail(t, escrow.ErrBountyInactive, "reclaimBounty", 1)
}

func TestReclaimWithoutPayouts(t *testing.T) {
	b := newBountyEnv(t, 2)

	r1, _ := b.newReviewer(t)
	b.submitReview(t, r1, 1)
	b.cAuthor.Invoke(t, stackitem.Null{}, "rejectReview", 1)

	testchain.AddBlockAt(t, b.Executor, uint64(b.deadline))

	h := b.cAuthor.Invoke(t, stackitem.Null{}, "reclaimBounty", 1)
	aer := b.cAuthor.CheckHalt(t, h)
	last := aer.Events[len(aer.Events)-1]

	var completed rpcescrow.BountyCompletedEvent
	require.NoError(t, completed.FromStackItem(last.Item))
	require.EqualValues(t, bountyAmount, completed.Returned.Int64())
	require.EqualValues(t, 0, b.gasBalance(b.Escrow.Hash))
}

func TestReentrantReviewer(t *testing.T) {
	b := newBountyEnv(t, 2)

	ctr := testchain.Compile(t, b.Executor, testchain.ReentrantPath)
	b.DeployContract(t, ctr, b.Escrow.Hash)

	cReentrant := b.CommitteeInvoker(ctr.Hash)
	cReentrant.Invoke(t, 1, "submitReview", 1, testchain.ContentHash(t, "reentrant"))

	r := getReview(t, b.cEscrow, 1)
	require.Equal(t, ctr.Hash, r.Reviewer)

	escrowBalance := b.gasBalance(b.Escrow.Hash)

	// Nested acceptReview finds the review accepted and the whole
	// transaction is reverted.
	b.cAuthor.InvokeFail(t, escrow.ErrNotPending, "acceptReview", 1)

	require.Equal(t, escrowBalance, b.gasBalance(b.Escrow.Hash))
	require.EqualValues(t, 0, b.gasBalance(ctr.Hash))
	require.EqualValues(t, reviewstatus.Pending, getReview(t, b.cEscrow, 1).Status.Int64())

	bounty := getBounty(t, b.cEscrow, 1)
	require.True(t, bounty.Active)
	require.EqualValues(t, 0, bounty.AcceptedReviews.Int64())
}

func TestGASConservation(t *testing.T) {
	b := newBountyEnv(t, 3)
	escrowHash := b.Escrow.Hash

	reviewers := make([]neotest.Signer, 3)
	for i := range reviewers {
		reviewers[i], _ = b.newReviewer(t)
		b.submitReview(t, reviewers[i], i+1)
	}
	paid := new(big.Int)
	for _, id := range []int{1, 2} {
		h := b.cAuthor.Invoke(t, stackitem.Null{}, "acceptReview", id)
		events, err := rpcescrow.BountyClaimedEventsFromApplicationLog(applicationLog(t, b, h))
		require.NoError(t, err)
		require.Equal(t, 1, len(events))
		paid.Add(paid, events[0].Amount)

		escrowBalance := b.Chain.GetUtilityTokenBalance(escrowHash)
		require.Equal(t, int64(bountyAmount), new(big.Int).Add(escrowBalance, paid).Int64())
	}
	b.cAuthor.Invoke(t, stackitem.Null{}, "rejectReview", 3)

	testchain.AddBlockAt(t, b.Executor, uint64(b.deadline))
	h := b.cAuthor.Invoke(t, stackitem.Null{}, "reclaimBounty", 1)

	events, err := rpcescrow.BountyCompletedEventsFromApplicationLog(applicationLog(t, b, h))
	require.NoError(t, err)
	require.Equal(t, 1, len(events))
	require.Equal(t, int64(bountyAmount), new(big.Int).Add(paid, events[0].Returned).Int64())
	require.EqualValues(t, 0, b.gasBalance(escrowHash))
}

func TestUpdateCoreAddress(t *testing.T) {
	env := testchain.Deploy(t)
	c := env.CommitteeInvoker(env.Escrow.Hash)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, policy.ErrNotOwner, "updateCoreAddress", acc.ScriptHash())
	c.InvokeFail(t, common.ErrInvalidAddress, "updateCoreAddress", []byte{1, 2, 3})

	other := c.NewAccount(t).ScriptHash()
	h := c.Invoke(t, stackitem.Null{}, "updateCoreAddress", other)
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))

	var ev rpcescrow.CoreAddressUpdatedEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.Equal(t, other, ev.Registry)

	c.Invoke(t, other.BytesBE(), "registry")
}
