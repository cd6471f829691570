package storage_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
	"github.com/waveform-audio/waveform-go/pkg/waveform/storage"
	"github.com/waveform-audio/waveform-go/pkg/waveform/storage/storagetest"
)

func newClient(t *testing.T, node *storagetest.Server) *storage.Client {
	t.Helper()
	client, err := storage.New(node.URL())
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	_, err := storage.New("")
	assert.Error(t, err)
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads and returns the processed result", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		result, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader([]byte("audio-bytes")),
			Name:     "track.mp3",
			Template: "audio",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.Equal(t, "done", result.Status)
		assert.Equal(t, result.ID, result.Results["320"])
		require.NotNil(t, result.Probe)
		assert.Equal(t, "1", result.Probe.Format.Duration)
		assert.Equal(t, 1, node.UploadCalls())
	})

	t.Run("identical files get identical upload ids", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		first, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File: bytes.NewReader([]byte("same")), Template: "audio",
		})
		require.NoError(t, err)
		second, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File: bytes.NewReader([]byte("same")), Template: "audio",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("passes preview options through", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		result, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader([]byte("audio-bytes")),
			Template: "audio",
			Options:  map[string]string{"preview_start_seconds": "5"},
		})
		require.NoError(t, err)
		assert.Contains(t, result.Results, "320_preview|5")
	})

	t.Run("reports monotonic progress", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		contents := bytes.Repeat([]byte("x"), 1<<16)
		var reports []int64
		_, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader(contents),
			Template: "audio",
			OnProgress: func(read, total int64) {
				assert.EqualValues(t, len(contents), total)
				reports = append(reports, read)
			},
		})
		require.NoError(t, err)

		require.NotEmpty(t, reports)
		for i := 1; i < len(reports); i++ {
			assert.GreaterOrEqual(t, reports[i], reports[i-1])
		}
		assert.EqualValues(t, len(contents), reports[len(reports)-1])
	})

	t.Run("retries a transient failure", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)
		node.FailNext(1)

		result, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader([]byte("audio-bytes")),
			Template: "audio",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.Equal(t, 2, node.UploadCalls())
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)
		node.FailNext(10)

		_, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader([]byte("audio-bytes")),
			Template: "audio",
		})

		var uploadErr *waveform.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "audio", uploadErr.Template)
		assert.Equal(t, 3, uploadErr.Attempts)
		// Initial attempt plus two retries, never more.
		assert.Equal(t, 3, node.UploadCalls())
	})

	t.Run("does not retry a client error", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		_, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader([]byte("audio-bytes")),
			Template: "", // rejected before any request
		})
		var validationErr *waveform.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Zero(t, node.UploadCalls())
	})

	t.Run("requires a file", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		_, err := client.UploadFile(ctx, waveform.UploadFileRequest{Template: "audio"})
		var validationErr *waveform.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestEditFile(t *testing.T) {
	ctx := context.Background()

	t.Run("re-cuts a preview on an existing upload", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		uploaded, err := client.UploadFile(ctx, waveform.UploadFileRequest{
			File:     bytes.NewReader([]byte("audio-bytes")),
			Template: "audio",
		})
		require.NoError(t, err)

		edited, err := client.EditFile(ctx, waveform.EditFileRequest{
			UploadID: uploaded.ID,
			Data:     map[string]string{"preview_start_seconds": "12"},
		})
		require.NoError(t, err)
		assert.Equal(t, uploaded.ID, edited.ID)
		assert.Contains(t, edited.Results, "320_preview|12")
	})

	t.Run("an unknown upload id is not retried", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		_, err := client.EditFile(ctx, waveform.EditFileRequest{
			UploadID: "missing",
			Data:     map[string]string{"preview_start_seconds": "12"},
		})

		var uploadErr *waveform.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, 1, uploadErr.Attempts)
		assert.Equal(t, 1, node.EditCalls())
	})

	t.Run("requires an upload id", func(t *testing.T) {
		node := storagetest.NewServer()
		defer node.Close()
		client := newClient(t, node)

		_, err := client.EditFile(ctx, waveform.EditFileRequest{})
		var validationErr *waveform.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}
