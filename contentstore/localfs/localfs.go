// Package localfs implements contentstore.CAS on top of the local file
// system.
package localfs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"
	"github.com/sagenet-research/sagenet-contract/contentstore"
)

// CAS keeps objects in read-only files named by their CIDs. Objects are
// sharded into subdirectories by the last two characters of the CID.
type CAS struct {
	root string
}

// New constructs CAS rooted at root. The directory is created if needed.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}
	return &CAS{root: root}, nil
}

// Put implements contentstore.CAS.
func (c *CAS) Put(data []byte) (cid.Cid, error) {
	id, err := contentstore.Sum(data)
	if err != nil {
		return cid.Undef, err
	}

	path := c.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, fmt.Errorf("create shard directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if !os.IsExist(err) {
			return cid.Undef, fmt.Errorf("create object file: %w", err)
		}

		existing, err := c.Get(id)
		if err != nil || !bytes.Equal(existing, data) {
			return cid.Undef, contentstore.ErrImmutable
		}
		return id, nil
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return cid.Undef, fmt.Errorf("write object file: %w", err)
	}

	return id, nil
}

// Get implements contentstore.CAS. Objects with any hash function are
// verified, so files placed into the store by other tools are served too.
func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, contentstore.ErrInvalidCID
	}

	data, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, contentstore.ErrNotFound
		}
		return nil, fmt.Errorf("read object file: %w", err)
	}

	if err := contentstore.Verify(id, data); err != nil {
		return nil, err
	}

	return data, nil
}

// Has implements contentstore.CAS.
func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

// pathFor shards objects by the last two characters of the CID string. The
// leading ones encode multibase, version and codec and are shared by all
// objects of one kind.
func (c *CAS) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(c.root, s)
	}
	return filepath.Join(c.root, shard(s), s)
}

func shard(s string) string {
	return s[len(s)-2:]
}
