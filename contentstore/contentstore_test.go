package contentstore_test

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"
	"github.com/sagenet-research/sagenet-contract/contentstore"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	data := []byte("Attention is all you need")

	id, err := contentstore.Sum(data)
	require.NoError(t, err)
	require.EqualValues(t, 1, id.Version())
	require.EqualValues(t, cid.Raw, id.Type())

	again, err := contentstore.Sum(data)
	require.NoError(t, err)
	require.True(t, id.Equals(again))

	other, err := contentstore.Sum([]byte("Attention is not all you need"))
	require.NoError(t, err)
	require.False(t, id.Equals(other))
}

func TestParse(t *testing.T) {
	data := []byte("paper body")

	t.Run("v1", func(t *testing.T) {
		id, err := contentstore.Sum(data)
		require.NoError(t, err)

		parsed, err := contentstore.Parse(id.String())
		require.NoError(t, err)
		require.True(t, id.Equals(parsed))
	})

	t.Run("v0", func(t *testing.T) {
		mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
		require.NoError(t, err)

		// CIDv0 is a bare base58 encoded multihash.
		parsed, err := contentstore.Parse(base58.Encode(mh))
		require.NoError(t, err)
		require.EqualValues(t, 0, parsed.Version())
		require.NoError(t, contentstore.Verify(parsed, data))
	})

	for _, s := range []string{"", "!not a cid"} {
		_, err := contentstore.Parse(s)
		require.ErrorIs(t, err, contentstore.ErrInvalidCID, s)
	}
}

func TestVerify(t *testing.T) {
	data := []byte("review body")

	id, err := contentstore.Sum(data)
	require.NoError(t, err)

	require.NoError(t, contentstore.Verify(id, data))
	require.ErrorIs(t, contentstore.Verify(id, []byte("tampered review")), contentstore.ErrCIDMismatch)
	require.ErrorIs(t, contentstore.Verify(cid.Undef, data), contentstore.ErrInvalidCID)
}
