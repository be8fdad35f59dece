// Package escrow contains RPC wrappers for SageNet Review Escrow contract.
package escrow

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Bounty is a contract-specific escrow.Bounty type used by its methods.
type Bounty struct {
	PaperID         *big.Int
	Creator         util.Uint160
	Amount          *big.Int
	Deadline        *big.Int
	MaxReviewers    *big.Int
	AcceptedReviews *big.Int
	Active          bool
}

// Review is a contract-specific escrow.Review type used by its methods.
type Review struct {
	ID           *big.Int
	PaperID      *big.Int
	Reviewer     util.Uint160
	ContentHash  string
	Status       *big.Int
	BountyAmount *big.Int
	Timestamp    *big.Int
}

// BountyStatus is a result of `getBountyStatus` method.
type BountyStatus struct {
	RemainingSlots *big.Int
	SlotAmount     *big.Int
	Active         bool
	TimeRemaining  *big.Int
}

// BountyCreatedEvent represents "BountyCreated" event emitted by the contract.
type BountyCreatedEvent struct {
	PaperID      *big.Int
	Creator      util.Uint160
	Amount       *big.Int
	Deadline     *big.Int
	MaxReviewers *big.Int
}

// ReviewSubmittedEvent represents "ReviewSubmitted" event emitted by the contract.
type ReviewSubmittedEvent struct {
	PaperID  *big.Int
	ReviewID *big.Int
	Reviewer util.Uint160
}

// ReviewStatusUpdatedEvent represents "ReviewStatusUpdated" event emitted by the contract.
type ReviewStatusUpdatedEvent struct {
	ReviewID *big.Int
	Status   *big.Int
}

// BountyClaimedEvent represents "BountyClaimed" event emitted by the contract.
type BountyClaimedEvent struct {
	ReviewID *big.Int
	Reviewer util.Uint160
	Amount   *big.Int
}

// BountyCompletedEvent represents "BountyCompleted" event emitted by the contract.
type BountyCompletedEvent struct {
	PaperID  *big.Int
	Returned *big.Int
}

// CoreAddressUpdatedEvent represents "CoreAddressUpdated" event emitted by the contract.
type CoreAddressUpdatedEvent struct {
	Registry util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Registry invokes `registry` method of contract.
func (c *ContractReader) Registry() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "registry"))
}

// GetBountyStatus invokes `getBountyStatus` method of contract.
func (c *ContractReader) GetBountyStatus(paperID *big.Int) (*BountyStatus, error) {
	return itemToBountyStatus(unwrap.Item(c.invoker.Call(c.hash, "getBountyStatus", paperID)))
}

// GetBounty invokes `getBounty` method of contract.
func (c *ContractReader) GetBounty(paperID *big.Int) (*Bounty, error) {
	return itemToBounty(unwrap.Item(c.invoker.Call(c.hash, "getBounty", paperID)))
}

// GetReview invokes `getReview` method of contract.
func (c *ContractReader) GetReview(reviewID *big.Int) (*Review, error) {
	return itemToReview(unwrap.Item(c.invoker.Call(c.hash, "getReview", reviewID)))
}

// GetReviewsByPaper invokes `getReviewsByPaper` method of contract.
func (c *ContractReader) GetReviewsByPaper(paperID *big.Int) ([]*big.Int, error) {
	return arrayOfBigInts(unwrap.Array(c.invoker.Call(c.hash, "getReviewsByPaper", paperID)))
}

// GetReviewsByReviewer invokes `getReviewsByReviewer` method of contract.
func (c *ContractReader) GetReviewsByReviewer(reviewer util.Uint160) ([]*big.Int, error) {
	return arrayOfBigInts(unwrap.Array(c.invoker.Call(c.hash, "getReviewsByReviewer", reviewer)))
}

// GetAcceptedReviews invokes `getAcceptedReviews` method of contract.
func (c *ContractReader) GetAcceptedReviews(paperID *big.Int) ([]*big.Int, error) {
	return arrayOfBigInts(unwrap.Array(c.invoker.Call(c.hash, "getAcceptedReviews", paperID)))
}

// CreateBounty creates a transaction invoking `createBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
//
// The author signer must allow the escrow to spend its GAS, i.e. have a
// scope covering both the escrow and the GAS contract.
func (c *Contract) CreateBounty(paperID *big.Int, deadline *big.Int, maxReviewers *big.Int, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createBounty", paperID, deadline, maxReviewers, amount)
}

// CreateBountyTransaction creates a transaction invoking `createBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateBountyTransaction(paperID *big.Int, deadline *big.Int, maxReviewers *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createBounty", paperID, deadline, maxReviewers, amount)
}

// CreateBountyUnsigned creates a transaction invoking `createBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateBountyUnsigned(paperID *big.Int, deadline *big.Int, maxReviewers *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createBounty", nil, paperID, deadline, maxReviewers, amount)
}

// SubmitReview creates a transaction invoking `submitReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitReview(reviewer util.Uint160, paperID *big.Int, contentHash string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitReview", reviewer, paperID, contentHash)
}

// SubmitReviewTransaction creates a transaction invoking `submitReview` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitReviewTransaction(reviewer util.Uint160, paperID *big.Int, contentHash string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitReview", reviewer, paperID, contentHash)
}

// SubmitReviewUnsigned creates a transaction invoking `submitReview` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitReviewUnsigned(reviewer util.Uint160, paperID *big.Int, contentHash string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitReview", nil, reviewer, paperID, contentHash)
}

// AcceptReview creates a transaction invoking `acceptReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AcceptReview(reviewID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "acceptReview", reviewID)
}

// AcceptReviewTransaction creates a transaction invoking `acceptReview` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AcceptReviewTransaction(reviewID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "acceptReview", reviewID)
}

// AcceptReviewUnsigned creates a transaction invoking `acceptReview` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AcceptReviewUnsigned(reviewID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "acceptReview", nil, reviewID)
}

// RejectReview creates a transaction invoking `rejectReview` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RejectReview(reviewID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "rejectReview", reviewID)
}

// RejectReviewTransaction creates a transaction invoking `rejectReview` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RejectReviewTransaction(reviewID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "rejectReview", reviewID)
}

// RejectReviewUnsigned creates a transaction invoking `rejectReview` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RejectReviewUnsigned(reviewID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "rejectReview", nil, reviewID)
}

// ReclaimBounty creates a transaction invoking `reclaimBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ReclaimBounty(paperID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "reclaimBounty", paperID)
}

// ReclaimBountyTransaction creates a transaction invoking `reclaimBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ReclaimBountyTransaction(paperID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "reclaimBounty", paperID)
}

// ReclaimBountyUnsigned creates a transaction invoking `reclaimBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ReclaimBountyUnsigned(paperID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "reclaimBounty", nil, paperID)
}

// UpdateCoreAddress creates a transaction invoking `updateCoreAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateCoreAddress(registry util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateCoreAddress", registry)
}

// UpdateCoreAddressTransaction creates a transaction invoking `updateCoreAddress` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateCoreAddressTransaction(registry util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateCoreAddress", registry)
}

// UpdateCoreAddressUnsigned creates a transaction invoking `updateCoreAddress` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateCoreAddressUnsigned(registry util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateCoreAddress", nil, registry)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToBounty converts stack item into *Bounty.
func itemToBounty(item stackitem.Item, err error) (*Bounty, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Bounty)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Bounty from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Bounty) FromStackItem(item stackitem.Item) error {
	arr, err := fields(item, 7)
	if err != nil {
		return err
	}
	res.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	res.Creator, err = uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}
	res.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	res.Deadline, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}
	res.MaxReviewers, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field MaxReviewers: %w", err)
	}
	res.AcceptedReviews, err = arr[5].TryInteger()
	if err != nil {
		return fmt.Errorf("field AcceptedReviews: %w", err)
	}
	res.Active, err = arr[6].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}
	return nil
}

// itemToReview converts stack item into *Review.
func itemToReview(item stackitem.Item, err error) (*Review, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Review)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Review from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Review) FromStackItem(item stackitem.Item) error {
	arr, err := fields(item, 7)
	if err != nil {
		return err
	}
	res.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}
	res.PaperID, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	res.Reviewer, err = uint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Reviewer: %w", err)
	}
	b, err := arr[3].TryBytes()
	if err != nil {
		return fmt.Errorf("field ContentHash: %w", err)
	}
	res.ContentHash = string(b)
	res.Status, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	res.BountyAmount, err = arr[5].TryInteger()
	if err != nil {
		return fmt.Errorf("field BountyAmount: %w", err)
	}
	res.Timestamp, err = arr[6].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}
	return nil
}

// itemToBountyStatus converts stack item into *BountyStatus.
func itemToBountyStatus(item stackitem.Item, err error) (*BountyStatus, error) {
	if err != nil {
		return nil, err
	}
	var res = new(BountyStatus)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of BountyStatus from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *BountyStatus) FromStackItem(item stackitem.Item) error {
	arr, err := fields(item, 4)
	if err != nil {
		return err
	}
	res.RemainingSlots, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field RemainingSlots: %w", err)
	}
	res.SlotAmount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field SlotAmount: %w", err)
	}
	res.Active, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}
	res.TimeRemaining, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field TimeRemaining: %w", err)
	}
	return nil
}

// BountyCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "BountyCreated" name from the provided [result.ApplicationLog].
func BountyCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BountyCreatedEvent, error) {
	var res []*BountyCreatedEvent
	err := eachEvent(log, "BountyCreated", func(item *stackitem.Array) error {
		event := new(BountyCreatedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to BountyCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *BountyCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}
	e.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	e.Creator, err = uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}
	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	e.Deadline, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}
	e.MaxReviewers, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field MaxReviewers: %w", err)
	}
	return nil
}

// ReviewSubmittedEventsFromApplicationLog retrieves a set of all emitted events
// with "ReviewSubmitted" name from the provided [result.ApplicationLog].
func ReviewSubmittedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ReviewSubmittedEvent, error) {
	var res []*ReviewSubmittedEvent
	err := eachEvent(log, "ReviewSubmitted", func(item *stackitem.Array) error {
		event := new(ReviewSubmittedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to ReviewSubmittedEvent or
// returns an error if it's not possible to do to so.
func (e *ReviewSubmittedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}
	e.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	e.ReviewID, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReviewID: %w", err)
	}
	e.Reviewer, err = uint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Reviewer: %w", err)
	}
	return nil
}

// ReviewStatusUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ReviewStatusUpdated" name from the provided [result.ApplicationLog].
func ReviewStatusUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ReviewStatusUpdatedEvent, error) {
	var res []*ReviewStatusUpdatedEvent
	err := eachEvent(log, "ReviewStatusUpdated", func(item *stackitem.Array) error {
		event := new(ReviewStatusUpdatedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to ReviewStatusUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *ReviewStatusUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}
	e.ReviewID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReviewID: %w", err)
	}
	e.Status, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	return nil
}

// BountyClaimedEventsFromApplicationLog retrieves a set of all emitted events
// with "BountyClaimed" name from the provided [result.ApplicationLog].
func BountyClaimedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BountyClaimedEvent, error) {
	var res []*BountyClaimedEvent
	err := eachEvent(log, "BountyClaimed", func(item *stackitem.Array) error {
		event := new(BountyClaimedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to BountyClaimedEvent or
// returns an error if it's not possible to do to so.
func (e *BountyClaimedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}
	e.ReviewID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReviewID: %w", err)
	}
	e.Reviewer, err = uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Reviewer: %w", err)
	}
	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	return nil
}

// BountyCompletedEventsFromApplicationLog retrieves a set of all emitted events
// with "BountyCompleted" name from the provided [result.ApplicationLog].
func BountyCompletedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BountyCompletedEvent, error) {
	var res []*BountyCompletedEvent
	err := eachEvent(log, "BountyCompleted", func(item *stackitem.Array) error {
		event := new(BountyCompletedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to BountyCompletedEvent or
// returns an error if it's not possible to do to so.
func (e *BountyCompletedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}
	e.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	e.Returned, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Returned: %w", err)
	}
	return nil
}

// CoreAddressUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "CoreAddressUpdated" name from the provided [result.ApplicationLog].
func CoreAddressUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CoreAddressUpdatedEvent, error) {
	var res []*CoreAddressUpdatedEvent
	err := eachEvent(log, "CoreAddressUpdated", func(item *stackitem.Array) error {
		event := new(CoreAddressUpdatedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to CoreAddressUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *CoreAddressUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}
	e.Registry, err = uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field MaxReviewers: %w", err)
	}
	return nil
}

func eachEvent(log *result.ApplicationLog, name string, f func(*stackitem.Array) error) error {
	if log == nil {
		return errors.New("nil application log")
	}
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			if err := f(e.Item); err != nil {
				return fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
		}
	}
	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return fields(item, n)
}

func fields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func arrayOfBigInts(arr []stackitem.Item, err error) ([]*big.Int, error) {
	if err != nil {
		return nil, err
	}
	res := make([]*big.Int, len(arr))
	for i := range arr {
		res[i], err = arr[i].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

func uint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
