package contracts

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestReadCompiled(t *testing.T) {
	_fs := fstest.MapFS{}
	for _, dir := range deployOrder {
		ctr := neotest.CompileFile(t, util.Uint160{}, dir, filepath.Join(dir, "config.yml"))

		bNEF, err := ctr.NEF.Bytes()
		require.NoError(t, err)
		jManifest, err := json.Marshal(ctr.Manifest)
		require.NoError(t, err)

		_fs[dir+"/"+nefName] = &fstest.MapFile{Data: bNEF}
		_fs[dir+"/"+manifestName] = &fstest.MapFile{Data: jManifest}
	}

	c, err := Read(_fs)
	require.NoError(t, err)
	require.Equal(t, len(deployOrder), len(c))

	require.Equal(t, RegistryDir, c[0].Dir)
	require.Equal(t, "SageNet Registry", c[0].Manifest.Name)
	require.Equal(t, EscrowDir, c[1].Dir)
	require.Equal(t, "SageNet Review Escrow", c[1].Manifest.Name)
}

func TestGetMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[RegistryDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = RegistryDir + "/" + nefName
		manifestPath = RegistryDir + "/" + manifestName
	)

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err := read(_fs, []string{RegistryDir})
	require.NoError(t, err)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = read(_fs, []string{RegistryDir})
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = read(_fs, []string{RegistryDir})
	require.ErrorIs(t, err, errInvalidManifest)

	// Escrow is missing.
	_, err = Read(_fs)
	require.Error(t, err)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
