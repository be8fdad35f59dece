package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess(ctx storage.Context) bool {
	return IsOwnerWitnessed(ctx)
}

// UpdateContract replaces the executing contract with the given NEF and
// manifest. The current version is appended to data so _deploy of the new
// code can call CheckVersion. name is used for the log record only.
func UpdateContract(name string, script []byte, manifest []byte, data any) {
	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, AppendVersion(data))
	runtime.Log(name + " contract updated")
}
