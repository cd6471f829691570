package waveform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
)

func TestHashID(t *testing.T) {
	t.Run("round trips numeric ids", func(t *testing.T) {
		for _, id := range []int64{0, 1, 42, 1000000} {
			encoded, err := waveform.EncodeHashID(id)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(encoded), 5)

			decoded, err := waveform.DecodeHashID(encoded)
			require.NoError(t, err)
			assert.Equal(t, id, decoded)
		}
	})

	t.Run("encoding is stable", func(t *testing.T) {
		a, err := waveform.EncodeHashID(7)
		require.NoError(t, err)
		b, err := waveform.EncodeHashID(7)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("rejects negative ids", func(t *testing.T) {
		_, err := waveform.EncodeHashID(-1)
		assert.Error(t, err)
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		_, err := waveform.DecodeHashID("!!!")
		assert.Error(t, err)
	})
}
