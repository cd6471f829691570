package waveform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// PlaylistsClient is the facade for playlist and album write operations.
type PlaylistsClient struct {
	storage       StorageService
	entityManager EntityManagerService
	catalog       CatalogService
	auth          AuthService
	logger        *slog.Logger
}

// CreatePlaylist creates a playlist from tracks that already exist.
func (c *PlaylistsClient) CreatePlaylist(ctx context.Context, req CreatePlaylistRequest) (*PlaylistWriteResult, error) {
	const op = "CreatePlaylist"
	if err := validatePlaylistMetadata(op, req.UserID, req.Metadata); err != nil {
		return nil, err
	}

	metadata := req.Metadata
	metadata.PlaylistOwnerID = req.UserID

	if req.CoverArtFile != nil {
		coverResp, err := c.storage.UploadFile(ctx, UploadFileRequest{
			File:       req.CoverArtFile,
			Name:       req.CoverArtName,
			Template:   templateImgSquare,
			OnProgress: req.OnProgress,
		})
		if err != nil {
			return nil, fmt.Errorf("create playlist: %w", err)
		}
		metadata.CoverArtSizes = coverResp.ID
	}

	block, err := c.entityManager.GetCurrentBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	metadata.PlaylistContents = make([]PlaylistTrack, 0, len(req.TrackIDs))
	for _, trackID := range req.TrackIDs {
		metadata.PlaylistContents = append(metadata.PlaylistContents, PlaylistTrack{
			TrackID:   trackID,
			Timestamp: block.Timestamp,
		})
	}

	playlistID, err := c.catalog.GetUnclaimedID(ctx, "playlist")
	if err != nil {
		return nil, fmt.Errorf("create playlist: reserve id: %w", err)
	}

	return c.writePlaylist(ctx, "create playlist", req.UserID, playlistID, ActionCreate, metadata, req.Write)
}

// UploadPlaylist uploads every track file plus the cover art concurrently,
// then writes one track entity per file and finally the playlist entity. A
// single upload failure aborts the whole batch before any entity write:
// in-flight sibling uploads run to completion but their results are
// discarded, and no partial playlist is created.
func (c *PlaylistsClient) UploadPlaylist(ctx context.Context, req UploadPlaylistRequest) (*PlaylistWriteResult, error) {
	const op = "UploadPlaylist"
	if err := validatePlaylistMetadata(op, req.UserID, req.Metadata); err != nil {
		return nil, err
	}
	if len(req.TrackFiles) == 0 {
		return nil, &ValidationError{Op: op, Field: "TrackFiles", Reason: "at least one track file is required"}
	}
	if len(req.TrackMetadatas) != len(req.TrackFiles) {
		return nil, &ValidationError{Op: op, Field: "TrackMetadatas", Reason: "must match TrackFiles in length"}
	}
	if len(req.TrackNames) != 0 && len(req.TrackNames) != len(req.TrackFiles) {
		return nil, &ValidationError{Op: op, Field: "TrackNames", Reason: "must match TrackFiles in length"}
	}

	// Fan-out: cover art plus every track file in parallel. The group is
	// not context-scoped, so a failed upload does not cancel its siblings.
	var coverResp *UploadResult
	audioResps := make([]*UploadResult, len(req.TrackFiles))
	var g errgroup.Group
	if req.CoverArtFile != nil {
		g.Go(func() error {
			resp, err := c.storage.UploadFile(ctx, UploadFileRequest{
				File:       req.CoverArtFile,
				Name:       req.CoverArtName,
				Template:   templateImgSquare,
				OnProgress: req.OnProgress,
			})
			if err != nil {
				return err
			}
			coverResp = resp
			return nil
		})
	}
	for i := range req.TrackFiles {
		i := i
		g.Go(func() error {
			name := ""
			if len(req.TrackNames) > 0 {
				name = req.TrackNames[i]
			}
			resp, err := c.storage.UploadFile(ctx, UploadFileRequest{
				File:       req.TrackFiles[i],
				Name:       name,
				Template:   templateAudio,
				OnProgress: req.OnProgress,
			})
			if err != nil {
				return err
			}
			audioResps[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("upload playlist: %w", err)
	}

	// All uploads resolved; write one track entity per file.
	trackIDs := make([]int64, len(req.TrackFiles))
	for i, parsed := range req.TrackMetadatas {
		trackMetadata := combineTrackMetadata(parsed, req.Metadata)
		trackMetadata.OwnerID = req.UserID
		populateTrackMetadata(&trackMetadata, audioResps[i], coverResp)

		trackID, err := c.catalog.GetUnclaimedID(ctx, "track")
		if err != nil {
			return nil, fmt.Errorf("upload playlist: reserve track id: %w", err)
		}
		if _, err := c.entityManager.ManageEntity(ctx, ManageEntityRequest{
			UserID:     req.UserID,
			EntityType: EntityTypeTrack,
			EntityID:   trackID,
			Action:     ActionCreate,
			Metadata:   trackMetadata,
			Auth:       c.auth,
			Write:      req.Write,
		}); err != nil {
			return nil, fmt.Errorf("upload playlist: write track %d: %w", i, err)
		}
		trackIDs[i] = trackID
	}

	block, err := c.entityManager.GetCurrentBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("upload playlist: %w", err)
	}

	metadata := req.Metadata
	metadata.PlaylistOwnerID = req.UserID
	metadata.IsPrivate = false
	if coverResp != nil {
		metadata.CoverArtSizes = coverResp.ID
	}
	metadata.PlaylistContents = make([]PlaylistTrack, 0, len(trackIDs))
	for _, trackID := range trackIDs {
		metadata.PlaylistContents = append(metadata.PlaylistContents, PlaylistTrack{
			TrackID:   trackID,
			Timestamp: block.Timestamp,
		})
	}

	playlistID, err := c.catalog.GetUnclaimedID(ctx, "playlist")
	if err != nil {
		return nil, fmt.Errorf("upload playlist: reserve id: %w", err)
	}

	return c.writePlaylist(ctx, "upload playlist", req.UserID, playlistID, ActionCreate, metadata, req.Write)
}

// UpdatePlaylist rewrites a playlist's full metadata, optionally replacing
// its cover art.
func (c *PlaylistsClient) UpdatePlaylist(ctx context.Context, req UpdatePlaylistRequest) (*PlaylistWriteResult, error) {
	const op = "UpdatePlaylist"
	if err := validatePlaylistMetadata(op, req.UserID, req.Metadata); err != nil {
		return nil, err
	}
	if req.PlaylistID <= 0 {
		return nil, &ValidationError{Op: op, Field: "PlaylistID", Reason: "must be positive"}
	}

	metadata := req.Metadata
	metadata.PlaylistOwnerID = req.UserID

	if req.CoverArtFile != nil {
		coverResp, err := c.storage.UploadFile(ctx, UploadFileRequest{
			File:       req.CoverArtFile,
			Name:       req.CoverArtName,
			Template:   templateImgSquare,
			OnProgress: req.OnProgress,
		})
		if err != nil {
			return nil, fmt.Errorf("update playlist: %w", err)
		}
		metadata.CoverArtSizes = coverResp.ID
	}

	return c.writePlaylist(ctx, "update playlist", req.UserID, req.PlaylistID, ActionUpdate, metadata, req.Write)
}

// PublishPlaylist flips a private playlist to public.
func (c *PlaylistsClient) PublishPlaylist(ctx context.Context, req PublishPlaylistRequest) (*PlaylistWriteResult, error) {
	if err := validatePlaylistID("PublishPlaylist", req.UserID, req.PlaylistID); err != nil {
		return nil, err
	}
	return c.fetchAndUpdate(ctx, "publish playlist", req.UserID, req.PlaylistID, req.Write,
		func(metadata PlaylistMetadata) (PlaylistMetadata, error) {
			metadata.IsPrivate = false
			return metadata, nil
		})
}

// AddTrackToPlaylist appends a track to the end of a playlist. For finer
// control over ordering use UpdatePlaylist.
func (c *PlaylistsClient) AddTrackToPlaylist(ctx context.Context, req AddTrackToPlaylistRequest) (*PlaylistWriteResult, error) {
	const op = "AddTrackToPlaylist"
	if err := validatePlaylistID(op, req.UserID, req.PlaylistID); err != nil {
		return nil, err
	}
	if req.TrackID <= 0 {
		return nil, &ValidationError{Op: op, Field: "TrackID", Reason: "must be positive"}
	}

	block, err := c.entityManager.GetCurrentBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("add track to playlist: %w", err)
	}
	return c.fetchAndUpdate(ctx, "add track to playlist", req.UserID, req.PlaylistID, req.Write,
		func(metadata PlaylistMetadata) (PlaylistMetadata, error) {
			metadata.PlaylistContents = append(metadata.PlaylistContents, PlaylistTrack{
				TrackID:   req.TrackID,
				Timestamp: block.Timestamp,
			})
			return metadata, nil
		})
}

// RemoveTrackFromPlaylist removes the track at the given index. An
// out-of-range index fails with IndexOutOfRangeError before any write is
// issued.
func (c *PlaylistsClient) RemoveTrackFromPlaylist(ctx context.Context, req RemoveTrackFromPlaylistRequest) (*PlaylistWriteResult, error) {
	const op = "RemoveTrackFromPlaylist"
	if err := validatePlaylistID(op, req.UserID, req.PlaylistID); err != nil {
		return nil, err
	}
	if req.TrackIndex < 0 {
		return nil, &ValidationError{Op: op, Field: "TrackIndex", Reason: "must not be negative"}
	}

	return c.fetchAndUpdate(ctx, "remove track from playlist", req.UserID, req.PlaylistID, req.Write,
		func(metadata PlaylistMetadata) (PlaylistMetadata, error) {
			if req.TrackIndex >= len(metadata.PlaylistContents) {
				return metadata, &IndexOutOfRangeError{Index: req.TrackIndex, Length: len(metadata.PlaylistContents)}
			}
			metadata.PlaylistContents = append(
				metadata.PlaylistContents[:req.TrackIndex],
				metadata.PlaylistContents[req.TrackIndex+1:]...)
			return metadata, nil
		})
}

// DeletePlaylist soft-deletes a playlist or album.
func (c *PlaylistsClient) DeletePlaylist(ctx context.Context, req DeletePlaylistRequest) (*PlaylistWriteResult, error) {
	return c.socialAction(ctx, "delete playlist", req.UserID, req.PlaylistID, ActionDelete, req.Write)
}

// SavePlaylist favorites a playlist or album.
func (c *PlaylistsClient) SavePlaylist(ctx context.Context, req SocialPlaylistRequest) (*PlaylistWriteResult, error) {
	return c.socialAction(ctx, "save playlist", req.UserID, req.PlaylistID, ActionSave, req.Write)
}

// UnsavePlaylist removes a favorite.
func (c *PlaylistsClient) UnsavePlaylist(ctx context.Context, req SocialPlaylistRequest) (*PlaylistWriteResult, error) {
	return c.socialAction(ctx, "unsave playlist", req.UserID, req.PlaylistID, ActionUnsave, req.Write)
}

// RepostPlaylist reposts a playlist or album.
func (c *PlaylistsClient) RepostPlaylist(ctx context.Context, req SocialPlaylistRequest) (*PlaylistWriteResult, error) {
	return c.socialAction(ctx, "repost playlist", req.UserID, req.PlaylistID, ActionRepost, req.Write)
}

// UnrepostPlaylist removes a repost.
func (c *PlaylistsClient) UnrepostPlaylist(ctx context.Context, req SocialPlaylistRequest) (*PlaylistWriteResult, error) {
	return c.socialAction(ctx, "unrepost playlist", req.UserID, req.PlaylistID, ActionUnrepost, req.Write)
}

// fetchAndUpdate fetches the playlist's current metadata, applies a pure
// transform, and resubmits the full metadata as an update. There is no
// optimistic-concurrency token: two concurrent editors race and the last
// write wins.
func (c *PlaylistsClient) fetchAndUpdate(ctx context.Context, opName string, userID, playlistID int64, write *WriteOptions, transform func(PlaylistMetadata) (PlaylistMetadata, error)) (*PlaylistWriteResult, error) {
	playlist, err := c.catalog.GetPlaylist(ctx, userID, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch playlist %d: %w", opName, playlistID, err)
	}

	metadata, err := transform(playlist.Metadata)
	if err != nil {
		return nil, err
	}
	metadata.PlaylistOwnerID = userID

	return c.writePlaylist(ctx, opName, userID, playlistID, ActionUpdate, metadata, write)
}

func (c *PlaylistsClient) socialAction(ctx context.Context, opName string, userID, playlistID int64, action Action, write *WriteOptions) (*PlaylistWriteResult, error) {
	if err := validatePlaylistID(opName, userID, playlistID); err != nil {
		return nil, err
	}
	result, err := c.entityManager.ManageEntity(ctx, ManageEntityRequest{
		UserID:     userID,
		EntityType: EntityTypePlaylist,
		EntityID:   playlistID,
		Action:     action,
		Auth:       c.auth,
		Write:      write,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	return playlistWriteResult(result, playlistID)
}

func (c *PlaylistsClient) writePlaylist(ctx context.Context, opName string, userID, playlistID int64, action Action, metadata PlaylistMetadata, write *WriteOptions) (*PlaylistWriteResult, error) {
	result, err := c.entityManager.ManageEntity(ctx, ManageEntityRequest{
		UserID:     userID,
		EntityType: EntityTypePlaylist,
		EntityID:   playlistID,
		Action:     action,
		Metadata:   metadata,
		Auth:       c.auth,
		Write:      write,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	return playlistWriteResult(result, playlistID)
}

// combineTrackMetadata fills gaps in a track's metadata from the playlist
// it is uploaded with: genre and mood fall back, tags merge and dedupe.
func combineTrackMetadata(track TrackMetadata, playlist PlaylistMetadata) TrackMetadata {
	if track.Genre == "" {
		track.Genre = playlist.Genre
	}
	if track.Mood == "" {
		track.Mood = playlist.Mood
	}
	if playlist.Tags != "" {
		if track.Tags == "" {
			track.Tags = playlist.Tags
		} else {
			seen := map[string]bool{}
			merged := make([]string, 0)
			for _, tag := range append(strings.Split(track.Tags, ","), strings.Split(playlist.Tags, ",")...) {
				if tag == "" || seen[tag] {
					continue
				}
				seen[tag] = true
				merged = append(merged, tag)
			}
			track.Tags = strings.Join(merged, ",")
		}
	}
	return track
}

func playlistWriteResult(result *ManageEntityResult, playlistID int64) (*PlaylistWriteResult, error) {
	encoded, err := EncodeHashID(playlistID)
	if err != nil {
		return nil, err
	}
	return &PlaylistWriteResult{
		BlockHash:   result.TxReceipt.BlockHash,
		BlockNumber: result.TxReceipt.BlockNumber,
		PlaylistID:  encoded,
	}, nil
}

func validatePlaylistMetadata(op string, userID int64, metadata PlaylistMetadata) error {
	if err := validateUserID(op, userID); err != nil {
		return err
	}
	if metadata.PlaylistName == "" {
		return &ValidationError{Op: op, Field: "Metadata.PlaylistName", Reason: "is required"}
	}
	return nil
}

func validatePlaylistID(op string, userID, playlistID int64) error {
	if err := validateUserID(op, userID); err != nil {
		return err
	}
	if playlistID <= 0 {
		return &ValidationError{Op: op, Field: "PlaylistID", Reason: "must be positive"}
	}
	return nil
}
