package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
	"github.com/waveform-audio/waveform-go/pkg/waveform/catalog"
)

func TestNew(t *testing.T) {
	_, err := catalog.New("")
	assert.Error(t, err)
}

func TestGetTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches by id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/tracks/42", r.URL.Path)
			json.NewEncoder(w).Encode(waveform.Track{
				ID:       42,
				OwnerID:  7,
				Metadata: waveform.TrackMetadata{Title: "BachGavotte"},
			})
		}))
		defer srv.Close()

		client, err := catalog.New(srv.URL)
		require.NoError(t, err)

		track, err := client.GetTrack(ctx, 42)
		require.NoError(t, err)
		assert.EqualValues(t, 42, track.ID)
		assert.Equal(t, "BachGavotte", track.Metadata.Title)
	})

	t.Run("missing track returns the sentinel", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		client, err := catalog.New(srv.URL)
		require.NoError(t, err)

		_, err = client.GetTrack(ctx, 42)
		assert.ErrorIs(t, err, waveform.ErrNotFound)
	})
}

func TestGetPlaylist(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/playlists/5", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode(waveform.Playlist{
			ID:      5,
			OwnerID: 7,
			Metadata: waveform.PlaylistMetadata{
				PlaylistName:     "Mix",
				PlaylistContents: []waveform.PlaylistTrack{{TrackID: 10, Timestamp: 1680000000}},
			},
		})
	}))
	defer srv.Close()

	client, err := catalog.New(srv.URL)
	require.NoError(t, err)

	playlist, err := client.GetPlaylist(ctx, 7, 5)
	require.NoError(t, err)
	assert.Equal(t, "Mix", playlist.Metadata.PlaylistName)
	require.Len(t, playlist.Metadata.PlaylistContents, 1)
	assert.EqualValues(t, 10, playlist.Metadata.PlaylistContents[0].TrackID)
}

func TestGetUnclaimedID(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/ids/unclaimed", r.URL.Path)
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		json.NewEncoder(w).Encode(map[string]int64{"id": 99})
	}))
	defer srv.Close()

	client, err := catalog.New(srv.URL)
	require.NoError(t, err)

	id, err := client.GetUnclaimedID(ctx, "track")
	require.NoError(t, err)
	assert.EqualValues(t, 99, id)
}
