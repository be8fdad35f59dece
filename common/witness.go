package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// ownerKey stores the hash of the account administering the contract.
const ownerKey = "owner"

var (
	// ErrOwnerWitnessFailed appears when the method must be called
	// by the contract owner but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// using certain account but was not.
	ErrWitnessFailed = "witness check failed"
	// ErrInvalidAddress appears when an account argument is not a
	// 20-byte script hash.
	ErrInvalidAddress = "invalid address"
)

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	if !runtime.CheckWitness(caller) {
		panic(ErrWitnessFailed)
	}
}

// IsValidAddress checks that addr is a script hash.
func IsValidAddress(addr interop.Hash160) bool {
	return addr != nil && len(addr) == interop.Hash160Len
}

// CheckAddress panics with ErrInvalidAddress if addr is not a script hash.
func CheckAddress(addr interop.Hash160) {
	if !IsValidAddress(addr) {
		panic(ErrInvalidAddress)
	}
}

// SetOwner saves the contract owner. It is called from _deploy.
func SetOwner(ctx storage.Context, owner interop.Hash160) {
	CheckAddress(owner)
	storage.Put(ctx, ownerKey, owner)
}

// Owner returns the contract owner.
func Owner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

// IsOwnerWitnessed reports whether the contract owner signed the transaction.
func IsOwnerWitnessed(ctx storage.Context) bool {
	return runtime.CheckWitness(Owner(ctx))
}
