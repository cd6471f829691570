package waveform

import "context"

// AlbumsClient is the facade for album write operations. An album is a
// playlist with IsAlbum set, so every operation composes the playlist
// facade and re-names the result.
type AlbumsClient struct {
	playlists *PlaylistsClient
}

// UploadAlbum uploads the given track files and combines them into a new
// album.
func (c *AlbumsClient) UploadAlbum(ctx context.Context, req UploadAlbumRequest) (*AlbumWriteResult, error) {
	metadata := req.Metadata
	if req.AlbumName != "" {
		metadata.PlaylistName = req.AlbumName
	}
	metadata.IsAlbum = true

	result, err := c.playlists.UploadPlaylist(ctx, UploadPlaylistRequest{
		UserID:         req.UserID,
		TrackFiles:     req.TrackFiles,
		TrackNames:     req.TrackNames,
		TrackMetadatas: req.TrackMetadatas,
		CoverArtFile:   req.CoverArtFile,
		CoverArtName:   req.CoverArtName,
		Metadata:       metadata,
		OnProgress:     req.OnProgress,
		Write:          req.Write,
	})
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

// UpdateAlbum rewrites an album's metadata.
func (c *AlbumsClient) UpdateAlbum(ctx context.Context, req UpdateAlbumRequest) (*AlbumWriteResult, error) {
	metadata := req.Metadata
	if req.AlbumName != "" {
		metadata.PlaylistName = req.AlbumName
	}
	metadata.IsAlbum = true

	result, err := c.playlists.UpdatePlaylist(ctx, UpdatePlaylistRequest{
		UserID:       req.UserID,
		PlaylistID:   req.AlbumID,
		CoverArtFile: req.CoverArtFile,
		CoverArtName: req.CoverArtName,
		Metadata:     metadata,
		OnProgress:   req.OnProgress,
		Write:        req.Write,
	})
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

// DeleteAlbum soft-deletes an album.
func (c *AlbumsClient) DeleteAlbum(ctx context.Context, req DeleteAlbumRequest) (*AlbumWriteResult, error) {
	result, err := c.playlists.DeletePlaylist(ctx, DeletePlaylistRequest{
		UserID:     req.UserID,
		PlaylistID: req.AlbumID,
		Write:      req.Write,
	})
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

// FavoriteAlbum favorites an album.
func (c *AlbumsClient) FavoriteAlbum(ctx context.Context, req SocialAlbumRequest) (*AlbumWriteResult, error) {
	result, err := c.playlists.SavePlaylist(ctx, c.socialRequest(req))
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

// UnfavoriteAlbum removes a favorite.
func (c *AlbumsClient) UnfavoriteAlbum(ctx context.Context, req SocialAlbumRequest) (*AlbumWriteResult, error) {
	result, err := c.playlists.UnsavePlaylist(ctx, c.socialRequest(req))
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

// RepostAlbum reposts an album.
func (c *AlbumsClient) RepostAlbum(ctx context.Context, req SocialAlbumRequest) (*AlbumWriteResult, error) {
	result, err := c.playlists.RepostPlaylist(ctx, c.socialRequest(req))
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

// UnrepostAlbum removes a repost.
func (c *AlbumsClient) UnrepostAlbum(ctx context.Context, req SocialAlbumRequest) (*AlbumWriteResult, error) {
	result, err := c.playlists.UnrepostPlaylist(ctx, c.socialRequest(req))
	if err != nil {
		return nil, err
	}
	return albumWriteResult(result), nil
}

func (c *AlbumsClient) socialRequest(req SocialAlbumRequest) SocialPlaylistRequest {
	return SocialPlaylistRequest{
		UserID:     req.UserID,
		PlaylistID: req.AlbumID,
		Write:      req.Write,
	}
}

func albumWriteResult(result *PlaylistWriteResult) *AlbumWriteResult {
	return &AlbumWriteResult{
		BlockHash:   result.BlockHash,
		BlockNumber: result.BlockNumber,
		AlbumID:     result.PlaylistID,
	}
}
