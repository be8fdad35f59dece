package paperholder

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Receipt describes a received paper token.
type Receipt struct {
	Registry interop.Hash160
	From     interop.Hash160
	TokenID  []byte
}

const (
	prefixReceipt = "r"
	registryKey   = "registry"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), registryKey, data.(interop.Hash160))
}

// SubmitPaper submits a paper authored by this contract.
func SubmitPaper(contentHash, title, abstract string) int {
	reg := storage.Get(storage.GetReadOnlyContext(), registryKey).(interop.Hash160)
	return contract.Call(reg, "submitPaper", contract.All,
		runtime.GetExecutingScriptHash(), contentHash, title, abstract).(int)
}

// OnNEP11Payment records every received token.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	if amount != 1 {
		panic("wrong amount")
	}
	storage.Put(storage.GetContext(), append([]byte(prefixReceipt), tokenID...), std.Serialize(Receipt{
		Registry: runtime.GetCallingScriptHash(),
		From:     from,
		TokenID:  tokenID,
	}))
}

// GetReceipt returns the receipt of the token or an empty one.
func GetReceipt(tokenID []byte) Receipt {
	val := storage.Get(storage.GetReadOnlyContext(), append([]byte(prefixReceipt), tokenID...))
	if val == nil {
		return Receipt{}
	}
	return std.Deserialize(val.([]byte)).(Receipt)
}
