package statusupdater

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const registryKey = "registry"

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), registryKey, data.(interop.Hash160))
}

// UpdatePaperStatus changes the paper status in the name of this contract.
func UpdatePaperStatus(id int, status int) {
	reg := storage.Get(storage.GetReadOnlyContext(), registryKey).(interop.Hash160)
	contract.Call(reg, "updatePaperStatus", contract.All, id, status)
}
