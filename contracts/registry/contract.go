package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/sagenet-research/sagenet-contract/common"
	"github.com/sagenet-research/sagenet-contract/contracts/registry/paperstatus"
	"github.com/sagenet-research/sagenet-contract/policy"
)

// Prefixes used for contract data storage.
const (
	// prefixTotalSupply contains the number of minted papers. Paper IDs are
	// sequential, so it is the ID of the latest paper too.
	prefixTotalSupply byte = 0x00
	// prefixBalance contains map from the author to their balance.
	prefixBalance byte = 0x01
	// prefixAccountToken contains map from (author + token key) to token ID,
	// where token key = hash160(token ID) and token ID = decimal paper ID.
	prefixAccountToken byte = 0x02
	// prefixToken contains map from token key to token ID.
	prefixToken byte = 0x03
	// prefixPaper contains map from token key to Paper.
	prefixPaper byte = 0x10
	// prefixVersion contains map from (token key + version number) to PaperVersion.
	prefixVersion byte = 0x11
	// prefixContentHash contains map from every content hash ever recorded to
	// the paper ID.
	prefixContentHash byte = 0x12
	// prefixAuthorPapers contains map from the author to the list of their
	// paper IDs in submission order.
	prefixAuthorPapers byte = 0x13
	// prefixStatusUpdater contains set of contracts allowed to change status
	// of any paper.
	prefixStatusUpdater byte = 0x20
)

const (
	tokenName          = "SageNet Research SBT"
	tokenSymbol        = "SAGESBT"
	initialChangeNotes = "Initial submission"
)

// Error messages.
const (
	ErrPaperExists       = "Paper already exists"
	ErrHashExists        = "This hash already exists for another paper"
	ErrPaperNotFound     = "Paper does not exist"
	ErrInvalidVersion    = "Invalid version number"
	ErrInvalidStatus     = "Invalid status"
	ErrEmptyContentHash  = "content hash is empty"
	ErrNonTransferable   = "SBT: tokens are non-transferable"
	ErrTokenNotFound     = "token not found"
	ErrUnexpectedDataArg = "unexpected deploy data"
)

// Paper is a research paper record. The paper is also a non-divisible token
// owned by Author.
type Paper struct {
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

// PaperVersion is an entry of the paper revision history.
type PaperVersion struct {
	ContentHash string
	ChangeNotes string
	Timestamp   int
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	ctx := storage.GetContext()

	var owner interop.Hash160
	if data != nil {
		args := data.([]any)
		if len(args) != 1 {
			panic(ErrUnexpectedDataArg)
		}
		owner = args[0].(interop.Hash160)
	} else {
		owner = runtime.GetScriptContainer().Sender
	}

	common.SetOwner(ctx, owner)
	storage.Put(ctx, []byte{prefixTotalSupply}, 0)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	authorize(policy.UpdateContract, policy.Roles{Owner: common.HasUpdateAccess(ctx)})
	common.UpdateContract("registry", script, manifest, data)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Owner returns the account allowed to manage status updaters and update
// the contract.
func Owner() interop.Hash160 {
	return common.Owner(storage.GetReadOnlyContext())
}

// Name returns the token name.
func Name() string {
	return tokenName
}

// Symbol returns the token symbol.
func Symbol() string {
	return tokenSymbol
}

// Decimals returns 0, tokens are non-divisible.
func Decimals() int {
	return 0
}

// TotalSupply returns the number of registered papers.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{prefixTotalSupply}).(int)
}

// BalanceOf returns the number of papers submitted by the owner.
func BalanceOf(owner interop.Hash160) int {
	if !common.IsValidAddress(owner) {
		panic(`invalid owner`)
	}
	ctx := storage.GetReadOnlyContext()
	balance := storage.Get(ctx, append([]byte{prefixBalance}, owner...))
	if balance == nil {
		return 0
	}
	return balance.(int)
}

// OwnerOf returns the author of the paper with the given token ID.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getPaperByToken(ctx, tokenID).Author
}

// Properties returns paper metadata for the given token ID.
func Properties(tokenID []byte) map[string]any {
	ctx := storage.GetReadOnlyContext()
	p := getPaperByToken(ctx, tokenID)
	return map[string]any{
		"name":        p.Title,
		"contentHash": p.ContentHash,
		"author":      p.Author,
		"status":      p.Status,
	}
}

// Tokens returns iterator over all token IDs.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixToken}, storage.ValuesOnly)
}

// TokensOf returns iterator over token IDs owned by the specified owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	if !common.IsValidAddress(owner) {
		panic(`invalid owner`)
	}
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{prefixAccountToken}, owner...), storage.ValuesOnly)
}

// Transfer always fails: paper tokens stay with their authors.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	panic(ErrNonTransferable)
}

// SubmitPaper registers a new paper and mints its token to the author. The
// author must witness the transaction and contentHash must never have been
// recorded before. It returns the new paper ID.
//
// This method produces Transfer and PaperSubmitted notifications.
func SubmitPaper(author interop.Hash160, contentHash, title, abstract string) int {
	common.CheckAddress(author)
	common.CheckWitness(author)
	checkContentHash(contentHash)

	ctx := storage.GetContext()
	if storage.Get(ctx, contentHashKey(contentHash)) != nil {
		panic(ErrPaperExists)
	}

	id := common.NextID(ctx, []byte{prefixTotalSupply})
	tokenID := tokenIDOf(id)
	tokenKey := getTokenKey(tokenID)
	now := runtime.GetTime()

	putPaper(ctx, tokenKey, Paper{
		ID:           id,
		ContentHash:  contentHash,
		Title:        title,
		Abstract:     abstract,
		Author:       author,
		Status:       int(paperstatus.Draft),
		VersionCount: 1,
		Timestamp:    now,
	})
	putVersion(ctx, tokenKey, 1, PaperVersion{
		ContentHash: contentHash,
		ChangeNotes: initialChangeNotes,
		Timestamp:   now,
	})
	storage.Put(ctx, contentHashKey(contentHash), id)
	storage.Put(ctx, append([]byte{prefixToken}, tokenKey...), tokenID)
	common.AppendToIntList(ctx, append([]byte{prefixAuthorPapers}, author...), id)

	mint(ctx, author, tokenID, tokenKey)

	runtime.Notify("PaperSubmitted", id, author, contentHash)
	return id
}

// UpdatePaperHash appends a new version of the paper. Only the author may
// call it and newContentHash must never have been recorded before.
//
// This method produces PaperVersionAdded notification.
func UpdatePaperHash(id int, newContentHash string, changeNotes string) {
	ctx := storage.GetContext()
	tokenKey := paperKey(id)
	p := getPaperWithKey(ctx, tokenKey)

	authorize(policy.UpdatePaperHash, policy.Roles{Author: runtime.CheckWitness(p.Author)})
	checkContentHash(newContentHash)

	hashKey := contentHashKey(newContentHash)
	if storage.Get(ctx, hashKey) != nil {
		panic(ErrHashExists)
	}

	oldHash := p.ContentHash
	p.ContentHash = newContentHash
	p.VersionCount = p.VersionCount + 1

	putVersion(ctx, tokenKey, p.VersionCount, PaperVersion{
		ContentHash: newContentHash,
		ChangeNotes: changeNotes,
		Timestamp:   runtime.GetTime(),
	})
	putPaper(ctx, tokenKey, p)
	storage.Put(ctx, hashKey, id)

	runtime.Notify("PaperVersionAdded", id, oldHash, newContentHash, p.VersionCount)
}

// UpdatePaperStatus sets paper status. It can be invoked by the author, by
// the publisher the paper was submitted to, or by a contract enabled with
// SetStatusUpdater.
//
// This method produces PaperStatusUpdated notification.
func UpdatePaperStatus(id int, newStatus int) {
	if !paperstatus.IsValid(newStatus) {
		panic(ErrInvalidStatus)
	}

	ctx := storage.GetContext()
	tokenKey := paperKey(id)
	p := getPaperWithKey(ctx, tokenKey)

	authorize(policy.UpdatePaperStatus, policy.Roles{
		Author:        runtime.CheckWitness(p.Author),
		Publisher:     isPublisherWitnessed(p),
		StatusUpdater: isStatusUpdater(ctx, runtime.GetCallingScriptHash()),
	})

	p.Status = newStatus
	putPaper(ctx, tokenKey, p)

	runtime.Notify("PaperStatusUpdated", id, newStatus)
}

// SubmitToPublisher hands the paper to the publisher, which is then allowed
// to change its status and adjudicate reviews. Only the author may call it.
//
// This method produces PaperStatusUpdated notification.
func SubmitToPublisher(id int, publisher interop.Hash160) {
	common.CheckAddress(publisher)

	ctx := storage.GetContext()
	tokenKey := paperKey(id)
	p := getPaperWithKey(ctx, tokenKey)

	authorize(policy.SubmitToPublisher, policy.Roles{Author: runtime.CheckWitness(p.Author)})

	status := int(paperstatus.InApplication)
	p.Publisher = publisher
	p.Status = status
	putPaper(ctx, tokenKey, p)

	runtime.Notify("PaperStatusUpdated", id, status)
}

// SetStatusUpdater enables or disables the contract to call
// UpdatePaperStatus for any paper. It can be invoked only by the owner.
//
// This method produces StatusUpdaterSet notification.
func SetStatusUpdater(updater interop.Hash160, enabled bool) {
	ctx := storage.GetContext()
	authorize(policy.SetStatusUpdater, policy.Roles{Owner: common.IsOwnerWitnessed(ctx)})
	common.CheckAddress(updater)

	key := append([]byte{prefixStatusUpdater}, updater...)
	if enabled {
		storage.Put(ctx, key, []byte{1})
	} else {
		storage.Delete(ctx, key)
	}

	runtime.Notify("StatusUpdaterSet", updater, enabled)
}

// IsStatusUpdater reports whether the contract is allowed to change paper
// status.
func IsStatusUpdater(updater interop.Hash160) bool {
	return isStatusUpdater(storage.GetReadOnlyContext(), updater)
}

// GetPaper returns the paper record.
func GetPaper(id int) Paper {
	return getPaperWithKey(storage.GetReadOnlyContext(), paperKey(id))
}

// GetPaperVersionHistory returns all paper versions, the initial submission
// first.
func GetPaperVersionHistory(id int) []PaperVersion {
	ctx := storage.GetReadOnlyContext()
	tokenKey := paperKey(id)
	p := getPaperWithKey(ctx, tokenKey)

	res := []PaperVersion{}
	for i := 1; i <= p.VersionCount; i++ {
		res = append(res, getVersion(ctx, tokenKey, i))
	}
	return res
}

// GetPaperVersion returns the paper version by its 1-based number.
func GetPaperVersion(id int, number int) PaperVersion {
	ctx := storage.GetReadOnlyContext()
	tokenKey := paperKey(id)
	p := getPaperWithKey(ctx, tokenKey)

	if number < 1 || number > p.VersionCount {
		panic(ErrInvalidVersion)
	}
	return getVersion(ctx, tokenKey, number)
}

// GetPapersByAuthor returns IDs of the papers submitted by the author in
// submission order.
func GetPapersByAuthor(author interop.Hash160) []int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntList(ctx, append([]byte{prefixAuthorPapers}, author...))
}

// VerifyPaper looks for a paper having the content hash in any of its
// versions. It returns a pair of a boolean existence flag and the paper ID
// (0 if there is no such paper).
func VerifyPaper(contentHash string) []any {
	ctx := storage.GetReadOnlyContext()
	v := storage.Get(ctx, contentHashKey(contentHash))
	if v == nil {
		return []any{false, 0}
	}
	return []any{true, v.(int)}
}

// IsAuthor reports whether addr is the author of the paper.
func IsAuthor(id int, addr interop.Hash160) bool {
	p := getPaperWithKey(storage.GetReadOnlyContext(), paperKey(id))
	return p.Author.Equals(addr)
}

// IsPublisher reports whether addr is the publisher the paper was submitted
// to.
func IsPublisher(id int, addr interop.Hash160) bool {
	p := getPaperWithKey(storage.GetReadOnlyContext(), paperKey(id))
	return p.Publisher != nil && p.Publisher.Equals(addr)
}

// PublisherOf returns the publisher of the paper or nil if the paper was not
// submitted to any.
func PublisherOf(id int) interop.Hash160 {
	p := getPaperWithKey(storage.GetReadOnlyContext(), paperKey(id))
	return p.Publisher
}

func authorize(op policy.Operation, r policy.Roles) {
	reason := policy.Check(op, r)
	if reason != "" {
		panic(reason)
	}
}

func isPublisherWitnessed(p Paper) bool {
	return p.Publisher != nil && runtime.CheckWitness(p.Publisher)
}

func isStatusUpdater(ctx storage.Context, addr interop.Hash160) bool {
	return storage.Get(ctx, append([]byte{prefixStatusUpdater}, addr...)) != nil
}

func checkContentHash(h string) {
	if len(h) == 0 {
		panic(ErrEmptyContentHash)
	}
}

// mint assigns the token to the author and notifies about the transfer.
func mint(ctx storage.Context, to interop.Hash160, tokenID []byte, tokenKey []byte) {
	balanceKey := append([]byte{prefixBalance}, to...)
	var balance int
	if b := storage.Get(ctx, balanceKey); b != nil {
		balance = b.(int)
	}
	storage.Put(ctx, balanceKey, balance+1)

	accountTokenKey := append(append([]byte{prefixAccountToken}, to...), tokenKey...)
	storage.Put(ctx, accountTokenKey, tokenID)

	var from interop.Hash160
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, nil)
	}
}

// tokenIDOf returns the token ID of the paper, i.e. its decimal ID.
func tokenIDOf(id int) []byte {
	return []byte(std.Itoa(id, 10))
}

// getTokenKey computes hash160 from the given tokenID.
func getTokenKey(tokenID []byte) []byte {
	return crypto.Ripemd160(tokenID)
}

func paperKey(id int) []byte {
	return getTokenKey(tokenIDOf(id))
}

// contentHashKey keys the content hash set by sha256 of the hash, so
// identifiers of any length fit into the storage key limit.
func contentHashKey(h string) []byte {
	return append([]byte{prefixContentHash}, crypto.Sha256([]byte(h))...)
}

func getPaperByToken(ctx storage.Context, tokenID []byte) Paper {
	data := storage.Get(ctx, append([]byte{prefixPaper}, getTokenKey(tokenID)...))
	if data == nil {
		panic(ErrTokenNotFound)
	}
	return std.Deserialize(data.([]byte)).(Paper)
}

func getPaperWithKey(ctx storage.Context, tokenKey []byte) Paper {
	data := storage.Get(ctx, append([]byte{prefixPaper}, tokenKey...))
	if data == nil {
		panic(ErrPaperNotFound)
	}
	return std.Deserialize(data.([]byte)).(Paper)
}

func putPaper(ctx storage.Context, tokenKey []byte, p Paper) {
	common.SetSerialized(ctx, append([]byte{prefixPaper}, tokenKey...), p)
}

func versionKey(tokenKey []byte, number int) []byte {
	return append(append([]byte{prefixVersion}, tokenKey...), []byte(std.Itoa(number, 10))...)
}

func getVersion(ctx storage.Context, tokenKey []byte, number int) PaperVersion {
	data := storage.Get(ctx, versionKey(tokenKey, number))
	return std.Deserialize(data.([]byte)).(PaperVersion)
}

func putVersion(ctx storage.Context, tokenKey []byte, number int, v PaperVersion) {
	common.SetSerialized(ctx, versionKey(tokenKey, number), v)
}
