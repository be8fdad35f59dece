package reentrant

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	escrowKey = "escrow"
	reviewKey = "review"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), escrowKey, data.(interop.Hash160))
}

// SubmitReview submits a review in the name of this contract and remembers
// its ID.
func SubmitReview(paperID int, contentHash string) int {
	ctx := storage.GetContext()
	escrow := storage.Get(ctx, escrowKey).(interop.Hash160)
	id := contract.Call(escrow, "submitReview", contract.All,
		runtime.GetExecutingScriptHash(), paperID, contentHash).(int)
	storage.Put(ctx, reviewKey, id)
	return id
}

// OnNEP17Payment tries to get paid for the same review once more.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetReadOnlyContext()
	id := storage.Get(ctx, reviewKey)
	if id == nil {
		return
	}
	escrow := storage.Get(ctx, escrowKey).(interop.Hash160)
	contract.Call(escrow, "acceptReview", contract.All, id.(int))
}
