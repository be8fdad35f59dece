/*
Package contentstore defines content-addressed storage of paper and review
bodies. The registry and the escrow keep only content identifiers, the bytes
live in a CAS and are verified against the identifier on every read.
*/
package contentstore

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CAS is a minimal content-addressed storage.
//
// Put is idempotent and returns the identifier derived from the written
// bytes. Stored objects are immutable. Get returns ErrNotFound if the object
// is missing.
type CAS interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

var (
	// ErrNotFound is returned when the requested object is missing.
	ErrNotFound = errors.New("contentstore: not found")
	// ErrInvalidCID is returned for undefined or malformed identifiers.
	ErrInvalidCID = errors.New("contentstore: invalid cid")
	// ErrCIDMismatch is returned when the bytes don't match the identifier.
	ErrCIDMismatch = errors.New("contentstore: cid mismatch")
	// ErrImmutable is returned on attempt to overwrite a stored object with
	// other bytes.
	ErrImmutable = errors.New("contentstore: immutable object mismatch")
)

// Sum returns CIDv1 with the raw codec and sha2-256 multihash of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("calculate multihash: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Parse decodes the content hash recorded on chain. Both CIDv0 ("Qm...")
// and CIDv1 strings are accepted.
func Parse(contentHash string) (cid.Cid, error) {
	id, err := cid.Decode(contentHash)
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: %w", ErrInvalidCID, err)
	}
	return id, nil
}

// Verify checks that data is addressed by id. The hash function and the
// codec are taken from id, so identifiers produced by other stores (e.g.
// CIDv0 of IPFS gateways) are verified too.
func Verify(id cid.Cid, data []byte) error {
	if !id.Defined() {
		return ErrInvalidCID
	}

	got, err := id.Prefix().Sum(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCID, err)
	}

	if !got.Equals(id) {
		return ErrCIDMismatch
	}

	return nil
}
