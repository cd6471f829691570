package cidutil_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveform-audio/waveform-go/pkg/waveform/cidutil"
)

func TestCanonicalJSON(t *testing.T) {
	t.Run("orders object keys", func(t *testing.T) {
		out, err := cidutil.CanonicalJSON(map[string]any{
			"zebra": 1,
			"apple": 2,
			"mango": map[string]any{"b": 1, "a": 2},
		})
		require.NoError(t, err)
		assert.Equal(t, `{"apple":2,"mango":{"a":2,"b":1},"zebra":1}`, string(out))
	})

	t.Run("deep-equal values canonicalize identically", func(t *testing.T) {
		type payload struct {
			Title string `json:"title"`
			Genre string `json:"genre"`
		}
		a, err := cidutil.CanonicalJSON(payload{Title: "x", Genre: "y"})
		require.NoError(t, err)
		b, err := cidutil.CanonicalJSON(map[string]string{"genre": "y", "title": "x"})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		out, err := cidutil.CanonicalJSON(map[string]string{"url": "a&b<c>"})
		require.NoError(t, err)
		assert.Equal(t, `{"url":"a&b<c>"}`, string(out))
	})

	t.Run("unserializable values fail", func(t *testing.T) {
		_, err := cidutil.CanonicalJSON(map[string]any{"ch": make(chan int)})
		assert.Error(t, err)
	})
}

func TestComputeMetadataCID(t *testing.T) {
	type metadata struct {
		Title   string `json:"title"`
		OwnerID int64  `json:"owner_id"`
	}

	t.Run("is deterministic", func(t *testing.T) {
		a, err := cidutil.ComputeMetadataCID(metadata{Title: "x", OwnerID: 7})
		require.NoError(t, err)
		b, err := cidutil.ComputeMetadataCID(metadata{Title: "x", OwnerID: 7})
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.True(t, strings.HasPrefix(a, "b"), "expected a CIDv1 base32 string, got %s", a)
	})

	t.Run("differs when content differs", func(t *testing.T) {
		a, err := cidutil.ComputeMetadataCID(metadata{Title: "x"})
		require.NoError(t, err)
		b, err := cidutil.ComputeMetadataCID(metadata{Title: "y"})
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestComputeFileCID(t *testing.T) {
	t.Run("rewinds the reader", func(t *testing.T) {
		f := bytes.NewReader([]byte("file contents"))
		cid, err := cidutil.ComputeFileCID(f)
		require.NoError(t, err)
		assert.NotEmpty(t, cid)

		rest, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "file contents", string(rest))
	})

	t.Run("same contents hash to the same cid", func(t *testing.T) {
		a, err := cidutil.ComputeFileCID(bytes.NewReader([]byte("same")))
		require.NoError(t, err)
		b, err := cidutil.ComputeFileCID(bytes.NewReader([]byte("same")))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestValidateCID(t *testing.T) {
	cid, err := cidutil.ComputeFileCID(bytes.NewReader([]byte("payload")))
	require.NoError(t, err)

	assert.NoError(t, cidutil.ValidateCID(cid, bytes.NewReader([]byte("payload"))))
	assert.Error(t, cidutil.ValidateCID(cid, bytes.NewReader([]byte("tampered"))))
}
