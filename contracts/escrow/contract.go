package escrow

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/sagenet-research/sagenet-contract/common"
	"github.com/sagenet-research/sagenet-contract/contracts/escrow/reviewstatus"
	"github.com/sagenet-research/sagenet-contract/contracts/registry/paperstatus"
	"github.com/sagenet-research/sagenet-contract/policy"
)

// Bounty is a GAS pool of the paper split into equal reviewer slots.
type Bounty struct {
	PaperID         int
	Creator         interop.Hash160
	Amount          int
	Deadline        int
	MaxReviewers    int
	AcceptedReviews int
	Active          bool
}

// Review is a reviewer submission for the paper with a bounty.
type Review struct {
	ID           int
	PaperID      int
	Reviewer     interop.Hash160
	ContentHash  string
	Status       int
	BountyAmount int
	Timestamp    int
}

// paper mirrors the registry paper record returned by getPaper.
type paper struct {
	ID           int
	ContentHash  string
	Title        string
	Abstract     string
	Author       interop.Hash160
	Publisher    interop.Hash160
	Status       int
	VersionCount int
	Timestamp    int
}

const (
	registryKey = "registry"
	// fundingKey holds the paper ID of the bounty being funded while GAS is
	// pulled from its creator.
	fundingKey = "funding"

	reviewCounterKey byte = 0x01

	prefixBounty          byte = 0x10
	prefixReview          byte = 0x11
	prefixPaperReviews    byte = 0x12
	prefixReviewerReviews byte = 0x13
	prefixAcceptedReviews byte = 0x14
)

// Error messages.
const (
	ErrBountyExists      = "Bounty already exists for this paper"
	ErrZeroAmount        = "Bounty amount must be greater than 0"
	ErrDeadline          = "Deadline must be in the future"
	ErrZeroReviewers     = "Max reviewers must be greater than 0"
	ErrNoBounty          = "No bounty exists for this paper"
	ErrBountyInactive    = "Bounty is no longer active"
	ErrDeadlinePassed    = "Review deadline has passed"
	ErrDeadlineNotPassed = "Deadline has not passed yet"
	ErrSlotsFilled       = "Maximum number of reviews reached"
	ErrNoReview          = "Review does not exist"
	ErrNotPending        = "Review is not pending"
	ErrEmptyContentHash  = "content hash is empty"
	ErrGASOnly           = "escrow contract accepts GAS only"
	ErrUnexpectedPayment = "unexpected payment"
	ErrUnexpectedDataArg = "unexpected deploy data"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)
	if len(args) != 2 {
		panic(ErrUnexpectedDataArg)
	}

	owner := args[0].(interop.Hash160)
	if owner == nil {
		owner = runtime.GetScriptContainer().Sender
	}
	reg := args[1].(interop.Hash160)
	common.CheckAddress(reg)

	ctx := storage.GetContext()
	common.SetOwner(ctx, owner)
	storage.Put(ctx, registryKey, reg)

	runtime.Log("escrow contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	authorize(policy.UpdateContract, policy.Roles{Owner: common.HasUpdateAccess(ctx)})
	common.UpdateContract("escrow", script, manifest, data)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Owner returns the account allowed to rebind the registry and update the
// contract.
func Owner() interop.Hash160 {
	return common.Owner(storage.GetReadOnlyContext())
}

// Registry returns the registry contract the escrow works with.
func Registry() interop.Hash160 {
	return getRegistry(storage.GetReadOnlyContext())
}

// UpdateCoreAddress rebinds the escrow to another registry contract. It can
// be invoked only by the owner.
//
// This method produces CoreAddressUpdated notification.
func UpdateCoreAddress(registry interop.Hash160) {
	ctx := storage.GetContext()
	authorize(policy.UpdateCoreAddress, policy.Roles{Owner: common.IsOwnerWitnessed(ctx)})
	common.CheckAddress(registry)

	storage.Put(ctx, registryKey, registry)
	runtime.Notify("CoreAddressUpdated", registry)
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// The escrow takes GAS only from bounty creators during CreateBounty.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage(ErrGASOnly)
	}

	ctx := storage.GetReadOnlyContext()
	pending := storage.Get(ctx, fundingKey)
	if pending == nil {
		panic(ErrUnexpectedPayment)
	}

	b := getBounty(ctx, pending.(int))
	if !b.Creator.Equals(from) || b.Amount != amount {
		panic(ErrUnexpectedPayment)
	}
}

// CreateBounty opens a review bounty for the paper. Only the paper author
// can call it, amount of GAS is transferred from the author to the escrow.
// Deadline is an absolute block time in milliseconds. The paper is moved to
// InReview status, so the escrow must be a status updater of the registry.
//
// This method produces BountyCreated notification.
func CreateBounty(paperID int, deadline int, maxReviewers int, amount int) {
	ctx := storage.GetContext()
	reg := getRegistry(ctx)
	p := getPaper(reg, paperID)

	authorize(policy.CreateBounty, policy.Roles{Author: runtime.CheckWitness(p.Author)})

	key := idKey(prefixBounty, paperID)
	if storage.Get(ctx, key) != nil {
		panic(ErrBountyExists)
	}
	if amount <= 0 {
		panic(ErrZeroAmount)
	}
	if deadline <= runtime.GetTime() {
		panic(ErrDeadline)
	}
	if maxReviewers <= 0 {
		panic(ErrZeroReviewers)
	}

	common.SetSerialized(ctx, key, Bounty{
		PaperID:      paperID,
		Creator:      p.Author,
		Amount:       amount,
		Deadline:     deadline,
		MaxReviewers: maxReviewers,
		Active:       true,
	})

	storage.Put(ctx, fundingKey, paperID)
	common.TransferGAS(p.Author, runtime.GetExecutingScriptHash(), amount, nil)
	storage.Delete(ctx, fundingKey)

	contract.Call(reg, "updatePaperStatus", contract.All, paperID, int(paperstatus.InReview))

	runtime.Notify("BountyCreated", paperID, p.Author, amount, deadline, maxReviewers)
}

// SubmitReview records a review of the paper. The reviewer must witness the
// transaction and must not be the paper author. The paper must have an
// active bounty with free slots and the deadline must not have passed.
// It returns the review ID.
//
// This method produces ReviewSubmitted notification.
func SubmitReview(reviewer interop.Hash160, paperID int, contentHash string) int {
	common.CheckAddress(reviewer)

	ctx := storage.GetContext()
	p := getPaper(getRegistry(ctx), paperID)

	authorize(policy.SubmitReview, policy.Roles{
		Reviewer: runtime.CheckWitness(reviewer),
		Author:   reviewer.Equals(p.Author),
	})

	data := storage.Get(ctx, idKey(prefixBounty, paperID))
	if data == nil {
		panic(ErrNoBounty)
	}
	b := std.Deserialize(data.([]byte)).(Bounty)
	if !b.Active {
		panic(ErrBountyInactive)
	}
	if runtime.GetTime() > b.Deadline {
		panic(ErrDeadlinePassed)
	}
	if b.AcceptedReviews >= b.MaxReviewers {
		panic(ErrSlotsFilled)
	}
	if len(contentHash) == 0 {
		panic(ErrEmptyContentHash)
	}

	id := common.NextID(ctx, []byte{reviewCounterKey})
	putReview(ctx, Review{
		ID:          id,
		PaperID:     paperID,
		Reviewer:    reviewer,
		ContentHash: contentHash,
		Status:      int(reviewstatus.Pending),
		Timestamp:   runtime.GetTime(),
	})
	common.AppendToIntList(ctx, idKey(prefixPaperReviews, paperID), id)
	common.AppendToIntList(ctx, append([]byte{prefixReviewerReviews}, reviewer...), id)

	runtime.Notify("ReviewSubmitted", paperID, id, reviewer)
	return id
}

// AcceptReview accepts the pending review and pays one bounty slot to the
// reviewer. It can be invoked by the paper author or its publisher. The slot
// amount is the bounty amount divided by the number of slots, the remainder
// stays in the escrow until ReclaimBounty.
//
// All records are updated before GAS leaves the escrow, so a reviewer
// contract re-entering from onNEP17Payment finds the review accepted.
//
// This method produces ReviewStatusUpdated, BountyClaimed and, when the last
// slot is filled, BountyCompleted notifications.
func AcceptReview(reviewID int) {
	ctx := storage.GetContext()
	r := getReview(ctx, reviewID)
	p := getPaper(getRegistry(ctx), r.PaperID)

	authorize(policy.AcceptReview, adjudicatorRoles(p))

	if r.Status != int(reviewstatus.Pending) {
		panic(ErrNotPending)
	}
	b := getBounty(ctx, r.PaperID)
	if !b.Active {
		panic(ErrBountyInactive)
	}

	payout := slotAmount(b)
	status := int(reviewstatus.Accepted)

	r.Status = status
	r.BountyAmount = payout
	b.AcceptedReviews = b.AcceptedReviews + 1
	completed := b.AcceptedReviews == b.MaxReviewers
	if completed {
		b.Active = false
	}

	putReview(ctx, r)
	putBounty(ctx, b)
	common.AppendToIntList(ctx, idKey(prefixAcceptedReviews, r.PaperID), reviewID)

	runtime.Notify("ReviewStatusUpdated", reviewID, status)

	common.TransferGAS(runtime.GetExecutingScriptHash(), r.Reviewer, payout, nil)

	runtime.Notify("BountyClaimed", reviewID, r.Reviewer, payout)
	if completed {
		runtime.Notify("BountyCompleted", r.PaperID, 0)
	}
}

// RejectReview rejects the pending review, the slot stays free. It can be
// invoked by the paper author or its publisher.
//
// This method produces ReviewStatusUpdated notification.
func RejectReview(reviewID int) {
	ctx := storage.GetContext()
	r := getReview(ctx, reviewID)
	p := getPaper(getRegistry(ctx), r.PaperID)

	authorize(policy.RejectReview, adjudicatorRoles(p))

	if r.Status != int(reviewstatus.Pending) {
		panic(ErrNotPending)
	}

	status := int(reviewstatus.Rejected)
	r.Status = status
	putReview(ctx, r)

	runtime.Notify("ReviewStatusUpdated", reviewID, status)
}

// ReclaimBounty closes the bounty after its deadline and returns the funds
// not paid to reviewers to the creator. Only the creator can call it.
//
// This method produces BountyCompleted notification.
func ReclaimBounty(paperID int) {
	ctx := storage.GetContext()
	b := getBounty(ctx, paperID)

	authorize(policy.ReclaimBounty, policy.Roles{Creator: runtime.CheckWitness(b.Creator)})

	if !b.Active {
		panic(ErrBountyInactive)
	}
	if runtime.GetTime() <= b.Deadline {
		panic(ErrDeadlineNotPassed)
	}

	remaining := b.Amount - b.AcceptedReviews*slotAmount(b)
	b.Active = false
	putBounty(ctx, b)

	if remaining > 0 {
		common.TransferGAS(runtime.GetExecutingScriptHash(), b.Creator, remaining, nil)
	}

	runtime.Notify("BountyCompleted", paperID, remaining)
}

// GetBountyStatus returns the number of free slots, the slot amount, the
// activity flag and the milliseconds left until the deadline (0 if passed).
func GetBountyStatus(paperID int) []any {
	b := getBounty(storage.GetReadOnlyContext(), paperID)

	timeRemaining := b.Deadline - runtime.GetTime()
	if timeRemaining < 0 {
		timeRemaining = 0
	}

	return []any{b.MaxReviewers - b.AcceptedReviews, slotAmount(b), b.Active, timeRemaining}
}

// GetBounty returns the bounty of the paper.
func GetBounty(paperID int) Bounty {
	return getBounty(storage.GetReadOnlyContext(), paperID)
}

// GetReview returns the review.
func GetReview(reviewID int) Review {
	return getReview(storage.GetReadOnlyContext(), reviewID)
}

// GetReviewsByPaper returns IDs of all reviews submitted for the paper.
func GetReviewsByPaper(paperID int) []int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntList(ctx, idKey(prefixPaperReviews, paperID))
}

// GetReviewsByReviewer returns IDs of all reviews submitted by the reviewer.
func GetReviewsByReviewer(reviewer interop.Hash160) []int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntList(ctx, append([]byte{prefixReviewerReviews}, reviewer...))
}

// GetAcceptedReviews returns IDs of the accepted reviews of the paper in
// acceptance order.
func GetAcceptedReviews(paperID int) []int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntList(ctx, idKey(prefixAcceptedReviews, paperID))
}

func authorize(op policy.Operation, r policy.Roles) {
	reason := policy.Check(op, r)
	if reason != "" {
		panic(reason)
	}
}

func adjudicatorRoles(p paper) policy.Roles {
	return policy.Roles{
		Author:    runtime.CheckWitness(p.Author),
		Publisher: p.Publisher != nil && runtime.CheckWitness(p.Publisher),
	}
}

func slotAmount(b Bounty) int {
	return b.Amount / b.MaxReviewers
}

func getRegistry(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, registryKey).(interop.Hash160)
}

func getPaper(reg interop.Hash160, paperID int) paper {
	return contract.Call(reg, "getPaper", contract.ReadOnly, paperID).(paper)
}

func idKey(prefix byte, id int) []byte {
	return append([]byte{prefix}, []byte(std.Itoa(id, 10))...)
}

func getBounty(ctx storage.Context, paperID int) Bounty {
	data := storage.Get(ctx, idKey(prefixBounty, paperID))
	if data == nil {
		panic(ErrNoBounty)
	}
	return std.Deserialize(data.([]byte)).(Bounty)
}

func putBounty(ctx storage.Context, b Bounty) {
	common.SetSerialized(ctx, idKey(prefixBounty, b.PaperID), b)
}

func getReview(ctx storage.Context, reviewID int) Review {
	data := storage.Get(ctx, idKey(prefixReview, reviewID))
	if data == nil {
		panic(ErrNoReview)
	}
	return std.Deserialize(data.([]byte)).(Review)
}

func putReview(ctx storage.Context, r Review) {
	common.SetSerialized(ctx, idKey(prefixReview, r.ID), r)
}
