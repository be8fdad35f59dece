/*
Package contracts reads compiled SageNet contracts and provides access to them.

Contracts are compiled by neo-go into <name>/contract.nef and
<name>/manifest.json next to their sources, so the source tree itself (or any
copy of the compiled files) can be passed to Read as fs.FS.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

// Contract directories.
const (
	RegistryDir = "registry"
	EscrowDir   = "escrow"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the file system.
type Contract struct {
	Dir      string
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	// the escrow is bound to the registry hash, so the registry goes first.
	deployOrder = []string{
		RegistryDir,
		EscrowDir,
	}
)

// Read returns current set of SageNet contracts stored in fsys. They're
// returned in the order they're supposed to be deployed starting from the
// registry.
func Read(fsys fs.FS) ([]Contract, error) {
	return read(fsys, deployOrder)
}

func read(fsys fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(fsys, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c = Contract{Dir: dir}

	// fs.FS paths use "/" even on Windows, so filepath.Join() is not
	// applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
