// Package registry contains RPC wrappers for SageNet Registry contract.
package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep11"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Paper is a contract-specific registry.Paper type used by its methods.
type Paper struct {
	ID           *big.Int
	ContentHash  string
	Title        string
	Abstract     string
	Author       util.Uint160
	Publisher    util.Uint160
	Status       *big.Int
	VersionCount *big.Int
	Timestamp    *big.Int
}

// PaperVersion is a contract-specific registry.PaperVersion type used by its methods.
type PaperVersion struct {
	ContentHash string
	ChangeNotes string
	Timestamp   *big.Int
}

// PaperSubmittedEvent represents "PaperSubmitted" event emitted by the contract.
type PaperSubmittedEvent struct {
	PaperID     *big.Int
	Author      util.Uint160
	ContentHash string
}

// PaperVersionAddedEvent represents "PaperVersionAdded" event emitted by the contract.
type PaperVersionAddedEvent struct {
	PaperID      *big.Int
	OldHash      string
	NewHash      string
	VersionCount *big.Int
}

// PaperStatusUpdatedEvent represents "PaperStatusUpdated" event emitted by the contract.
type PaperStatusUpdatedEvent struct {
	PaperID *big.Int
	Status  *big.Int
}

// StatusUpdaterSetEvent represents "StatusUpdaterSet" event emitted by the contract.
type StatusUpdaterSetEvent struct {
	Updater util.Uint160
	Enabled bool
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep11.Invoker
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep11.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	nep11.NonDivisibleReader
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	nep11.BaseWriter
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{*nep11.NewNonDivisibleReader(invoker, hash), invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	var nep11ndt = nep11.NewNonDivisible(actor, hash)
	return &Contract{ContractReader{nep11ndt.NonDivisibleReader, actor, hash}, nep11ndt.BaseWriter, actor, hash}
}

// Name invokes `name` method of contract.
func (c *ContractReader) Name() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "name"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// IsStatusUpdater invokes `isStatusUpdater` method of contract.
func (c *ContractReader) IsStatusUpdater(updater util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isStatusUpdater", updater))
}

// GetPaper invokes `getPaper` method of contract.
func (c *ContractReader) GetPaper(id *big.Int) (*Paper, error) {
	return itemToPaper(unwrap.Item(c.invoker.Call(c.hash, "getPaper", id)))
}

// GetPaperVersionHistory invokes `getPaperVersionHistory` method of contract.
func (c *ContractReader) GetPaperVersionHistory(id *big.Int) ([]*PaperVersion, error) {
	arr, err := unwrap.Array(c.invoker.Call(c.hash, "getPaperVersionHistory", id))
	if err != nil {
		return nil, err
	}
	res := make([]*PaperVersion, len(arr))
	for i := range arr {
		res[i], err = itemToPaperVersion(arr[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// GetPaperVersion invokes `getPaperVersion` method of contract.
func (c *ContractReader) GetPaperVersion(id *big.Int, number *big.Int) (*PaperVersion, error) {
	return itemToPaperVersion(unwrap.Item(c.invoker.Call(c.hash, "getPaperVersion", id, number)))
}

// GetPapersByAuthor invokes `getPapersByAuthor` method of contract.
func (c *ContractReader) GetPapersByAuthor(author util.Uint160) ([]*big.Int, error) {
	return arrayOfBigInts(unwrap.Array(c.invoker.Call(c.hash, "getPapersByAuthor", author)))
}

// VerifyPaper invokes `verifyPaper` method of contract. It returns whether
// the content hash is recorded and the ID of the paper having it.
func (c *ContractReader) VerifyPaper(contentHash string) (bool, *big.Int, error) {
	arr, err := unwrap.Array(c.invoker.Call(c.hash, "verifyPaper", contentHash))
	if err != nil {
		return false, nil, err
	}
	if len(arr) != 2 {
		return false, nil, errors.New("wrong number of result elements")
	}
	exists, err := arr[0].TryBool()
	if err != nil {
		return false, nil, fmt.Errorf("field exists: %w", err)
	}
	id, err := arr[1].TryInteger()
	if err != nil {
		return false, nil, fmt.Errorf("field id: %w", err)
	}
	return exists, id, nil
}

// IsAuthor invokes `isAuthor` method of contract.
func (c *ContractReader) IsAuthor(id *big.Int, addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAuthor", id, addr))
}

// IsPublisher invokes `isPublisher` method of contract.
func (c *ContractReader) IsPublisher(id *big.Int, addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isPublisher", id, addr))
}

// PublisherOf invokes `publisherOf` method of contract. Zero hash is returned
// for papers not submitted to any publisher.
func (c *ContractReader) PublisherOf(id *big.Int) (util.Uint160, error) {
	return optionalUint160(unwrap.Item(c.invoker.Call(c.hash, "publisherOf", id)))
}

// PapersSession invokes `tokens` method of contract. It returns session
// iterator over IDs of all registered papers, the session must be terminated
// by the caller.
func (c *ContractReader) PapersSession() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "tokens"))
}

// PapersExpanded is similar to PapersSession (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) PapersExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "tokens", _numOfIteratorItems))
}

// SubmitPaper creates a transaction invoking `submitPaper` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitPaper(author util.Uint160, contentHash string, title string, abstract string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitPaper", author, contentHash, title, abstract)
}

// SubmitPaperTransaction creates a transaction invoking `submitPaper` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitPaperTransaction(author util.Uint160, contentHash string, title string, abstract string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitPaper", author, contentHash, title, abstract)
}

// SubmitPaperUnsigned creates a transaction invoking `submitPaper` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitPaperUnsigned(author util.Uint160, contentHash string, title string, abstract string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitPaper", nil, author, contentHash, title, abstract)
}

// UpdatePaperHash creates a transaction invoking `updatePaperHash` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdatePaperHash(id *big.Int, newContentHash string, changeNotes string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updatePaperHash", id, newContentHash, changeNotes)
}

// UpdatePaperHashTransaction creates a transaction invoking `updatePaperHash` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdatePaperHashTransaction(id *big.Int, newContentHash string, changeNotes string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updatePaperHash", id, newContentHash, changeNotes)
}

// UpdatePaperHashUnsigned creates a transaction invoking `updatePaperHash` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdatePaperHashUnsigned(id *big.Int, newContentHash string, changeNotes string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updatePaperHash", nil, id, newContentHash, changeNotes)
}

// UpdatePaperStatus creates a transaction invoking `updatePaperStatus` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdatePaperStatus(id *big.Int, newStatus *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updatePaperStatus", id, newStatus)
}

// UpdatePaperStatusTransaction creates a transaction invoking `updatePaperStatus` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdatePaperStatusTransaction(id *big.Int, newStatus *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updatePaperStatus", id, newStatus)
}

// UpdatePaperStatusUnsigned creates a transaction invoking `updatePaperStatus` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdatePaperStatusUnsigned(id *big.Int, newStatus *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updatePaperStatus", nil, id, newStatus)
}

// SubmitToPublisher creates a transaction invoking `submitToPublisher` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitToPublisher(id *big.Int, publisher util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitToPublisher", id, publisher)
}

// SubmitToPublisherTransaction creates a transaction invoking `submitToPublisher` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitToPublisherTransaction(id *big.Int, publisher util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitToPublisher", id, publisher)
}

// SubmitToPublisherUnsigned creates a transaction invoking `submitToPublisher` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitToPublisherUnsigned(id *big.Int, publisher util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitToPublisher", nil, id, publisher)
}

// SetStatusUpdater creates a transaction invoking `setStatusUpdater` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetStatusUpdater(updater util.Uint160, enabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setStatusUpdater", updater, enabled)
}

// SetStatusUpdaterTransaction creates a transaction invoking `setStatusUpdater` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetStatusUpdaterTransaction(updater util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setStatusUpdater", updater, enabled)
}

// SetStatusUpdaterUnsigned creates a transaction invoking `setStatusUpdater` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetStatusUpdaterUnsigned(updater util.Uint160, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setStatusUpdater", nil, updater, enabled)
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

// itemToPaper converts stack item into *Paper.
func itemToPaper(item stackitem.Item, err error) (*Paper, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Paper)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Paper from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Paper) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 9 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.ContentHash, err = utf8String(arr[index])
	if err != nil {
		return fmt.Errorf("field ContentHash: %w", err)
	}

	index++
	res.Title, err = utf8String(arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.Abstract, err = utf8String(arr[index])
	if err != nil {
		return fmt.Errorf("field Abstract: %w", err)
	}

	index++
	res.Author, err = optionalUint160(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Author: %w", err)
	}

	index++
	res.Publisher, err = optionalUint160(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Publisher: %w", err)
	}

	index++
	res.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	res.VersionCount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field VersionCount: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// itemToPaperVersion converts stack item into *PaperVersion.
func itemToPaperVersion(item stackitem.Item, err error) (*PaperVersion, error) {
	if err != nil {
		return nil, err
	}
	var res = new(PaperVersion)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of PaperVersion from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *PaperVersion) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.ContentHash, err = utf8String(arr[0])
	if err != nil {
		return fmt.Errorf("field ContentHash: %w", err)
	}
	res.ChangeNotes, err = utf8String(arr[1])
	if err != nil {
		return fmt.Errorf("field ChangeNotes: %w", err)
	}
	res.Timestamp, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}
	return nil
}

// PaperSubmittedEventsFromApplicationLog retrieves a set of all emitted events
// with "PaperSubmitted" name from the provided [result.ApplicationLog].
func PaperSubmittedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaperSubmittedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PaperSubmittedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PaperSubmitted" {
				continue
			}
			event := new(PaperSubmittedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PaperSubmittedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PaperSubmittedEvent or
// returns an error if it's not possible to do to so.
func (e *PaperSubmittedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}
	e.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	e.Author, err = uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Author: %w", err)
	}
	e.ContentHash, err = utf8String(arr[2])
	if err != nil {
		return fmt.Errorf("field ContentHash: %w", err)
	}
	return nil
}

// PaperVersionAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "PaperVersionAdded" name from the provided [result.ApplicationLog].
func PaperVersionAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaperVersionAddedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PaperVersionAddedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PaperVersionAdded" {
				continue
			}
			event := new(PaperVersionAddedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PaperVersionAddedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PaperVersionAddedEvent or
// returns an error if it's not possible to do to so.
func (e *PaperVersionAddedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}
	e.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	e.OldHash, err = utf8String(arr[1])
	if err != nil {
		return fmt.Errorf("field OldHash: %w", err)
	}
	e.NewHash, err = utf8String(arr[2])
	if err != nil {
		return fmt.Errorf("field NewHash: %w", err)
	}
	e.VersionCount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field VersionCount: %w", err)
	}
	return nil
}

// PaperStatusUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "PaperStatusUpdated" name from the provided [result.ApplicationLog].
func PaperStatusUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaperStatusUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PaperStatusUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PaperStatusUpdated" {
				continue
			}
			event := new(PaperStatusUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PaperStatusUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PaperStatusUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *PaperStatusUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}
	e.PaperID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaperID: %w", err)
	}
	e.Status, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	return nil
}

// StatusUpdaterSetEventsFromApplicationLog retrieves a set of all emitted events
// with "StatusUpdaterSet" name from the provided [result.ApplicationLog].
func StatusUpdaterSetEventsFromApplicationLog(log *result.ApplicationLog) ([]*StatusUpdaterSetEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*StatusUpdaterSetEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "StatusUpdaterSet" {
				continue
			}
			event := new(StatusUpdaterSetEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize StatusUpdaterSetEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to StatusUpdaterSetEvent or
// returns an error if it's not possible to do to so.
func (e *StatusUpdaterSetEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}
	e.Updater, err = uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Updater: %w", err)
	}
	e.Enabled, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}
	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
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

func utf8String(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func uint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// optionalUint160 decodes a hash which may be Null.
func optionalUint160(item stackitem.Item, err error) (util.Uint160, error) {
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return uint160(item)
}
