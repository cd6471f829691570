package waveform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
)

func TestNew(t *testing.T) {
	storage := &fakeStorage{}
	entityManager := &fakeEntityManager{}
	catalog := &fakeCatalog{}
	auth := &fakeAuth{}

	t.Run("builds all facades when fully configured", func(t *testing.T) {
		client, err := waveform.New(
			waveform.WithStorage(storage),
			waveform.WithEntityManager(entityManager),
			waveform.WithCatalog(catalog),
			waveform.WithAuth(auth),
		)
		require.NoError(t, err)
		assert.NotNil(t, client.Tracks)
		assert.NotNil(t, client.Playlists)
		assert.NotNil(t, client.Albums)
	})

	t.Run("requires every capability", func(t *testing.T) {
		tests := []struct {
			name    string
			options []waveform.Option
		}{
			{
				name: "missing storage",
				options: []waveform.Option{
					waveform.WithEntityManager(entityManager),
					waveform.WithCatalog(catalog),
					waveform.WithAuth(auth),
				},
			},
			{
				name: "missing entity manager",
				options: []waveform.Option{
					waveform.WithStorage(storage),
					waveform.WithCatalog(catalog),
					waveform.WithAuth(auth),
				},
			},
			{
				name: "missing catalog",
				options: []waveform.Option{
					waveform.WithStorage(storage),
					waveform.WithEntityManager(entityManager),
					waveform.WithAuth(auth),
				},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := waveform.New(tt.options...)
				assert.Error(t, err)
			})
		}
	})

	t.Run("missing auth returns the sentinel", func(t *testing.T) {
		_, err := waveform.New(
			waveform.WithStorage(storage),
			waveform.WithEntityManager(entityManager),
			waveform.WithCatalog(catalog),
		)
		assert.ErrorIs(t, err, waveform.ErrMissingAuth)
	})
}

func TestAcquireRelease(t *testing.T) {
	options := []waveform.Option{
		waveform.WithStorage(&fakeStorage{}),
		waveform.WithEntityManager(&fakeEntityManager{}),
		waveform.WithCatalog(&fakeCatalog{}),
		waveform.WithAuth(&fakeAuth{}),
	}

	first, err := waveform.Acquire(options...)
	require.NoError(t, err)

	// A second acquire returns the same instance even with no options.
	second, err := waveform.Acquire()
	require.NoError(t, err)
	assert.Same(t, first, second)

	// One reference still held; the client survives the first release.
	waveform.Release()
	third, err := waveform.Acquire()
	require.NoError(t, err)
	assert.Same(t, first, third)

	// Drop all remaining references.
	waveform.Release()
	waveform.Release()

	// A fresh acquire after full release initializes a new client.
	fresh, err := waveform.Acquire(options...)
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	waveform.Release()
}

func TestAcquireFailureHoldsNoClient(t *testing.T) {
	_, err := waveform.Acquire()
	require.Error(t, err)

	// The failed acquire left nothing behind: a valid one still works.
	client, err := waveform.Acquire(
		waveform.WithStorage(&fakeStorage{}),
		waveform.WithEntityManager(&fakeEntityManager{}),
		waveform.WithCatalog(&fakeCatalog{}),
		waveform.WithAuth(&fakeAuth{}),
	)
	require.NoError(t, err)
	assert.NotNil(t, client)
	waveform.Release()
}
