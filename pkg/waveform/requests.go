package waveform

import "io"

// Request/Response DTOs for the facade surface.

// UploadTrackRequest contains parameters for uploading a new track.
type UploadTrackRequest struct {
	UserID       int64
	TrackFile    io.ReadSeeker
	TrackName    string
	CoverArtFile io.ReadSeeker
	CoverArtName string
	Metadata     TrackMetadata
	OnProgress   ProgressFunc
	Write        *WriteOptions
}

// UpdateTrackRequest contains parameters for updating an existing track.
// CoverArtFile is optional; when nil the existing cover art is kept.
type UpdateTrackRequest struct {
	UserID       int64
	TrackID      int64
	CoverArtFile io.ReadSeeker
	CoverArtName string
	Metadata     TrackMetadata
	// TranscodePreview re-cuts the preview clip from
	// Metadata.PreviewStartSeconds via the storage node.
	TranscodePreview bool
	OnProgress       ProgressFunc
	Write            *WriteOptions
}

// DeleteTrackRequest contains parameters for soft-deleting a track.
type DeleteTrackRequest struct {
	UserID  int64
	TrackID int64
	Write   *WriteOptions
}

// SocialTrackRequest contains parameters for social track actions
// (favorite, unfavorite, repost, unrepost).
type SocialTrackRequest struct {
	UserID  int64
	TrackID int64
	Write   *WriteOptions
}

// TrackWriteResult is returned by track write operations.
type TrackWriteResult struct {
	BlockHash   string
	BlockNumber int64
	TrackID     string
}

// CreatePlaylistRequest creates a playlist from tracks that already exist.
type CreatePlaylistRequest struct {
	UserID       int64
	TrackIDs     []int64
	CoverArtFile io.ReadSeeker
	CoverArtName string
	Metadata     PlaylistMetadata
	OnProgress   ProgressFunc
	Write        *WriteOptions
}

// UploadPlaylistRequest uploads a set of track files and combines them into
// a new playlist or album.
type UploadPlaylistRequest struct {
	UserID         int64
	TrackFiles     []io.ReadSeeker
	TrackNames     []string
	TrackMetadatas []TrackMetadata
	CoverArtFile   io.ReadSeeker
	CoverArtName   string
	Metadata       PlaylistMetadata
	OnProgress     ProgressFunc
	Write          *WriteOptions
}

// UpdatePlaylistRequest contains parameters for updating a playlist.
type UpdatePlaylistRequest struct {
	UserID       int64
	PlaylistID   int64
	CoverArtFile io.ReadSeeker
	CoverArtName string
	Metadata     PlaylistMetadata
	OnProgress   ProgressFunc
	Write        *WriteOptions
}

// PublishPlaylistRequest flips a private playlist to public.
type PublishPlaylistRequest struct {
	UserID     int64
	PlaylistID int64
	Write      *WriteOptions
}

// AddTrackToPlaylistRequest appends a track to the end of a playlist.
type AddTrackToPlaylistRequest struct {
	UserID     int64
	PlaylistID int64
	TrackID    int64
	Write      *WriteOptions
}

// RemoveTrackFromPlaylistRequest removes the track at TrackIndex.
type RemoveTrackFromPlaylistRequest struct {
	UserID     int64
	PlaylistID int64
	TrackIndex int
	Write      *WriteOptions
}

// DeletePlaylistRequest contains parameters for soft-deleting a playlist.
type DeletePlaylistRequest struct {
	UserID     int64
	PlaylistID int64
	Write      *WriteOptions
}

// SocialPlaylistRequest contains parameters for social playlist actions.
type SocialPlaylistRequest struct {
	UserID     int64
	PlaylistID int64
	Write      *WriteOptions
}

// PlaylistWriteResult is returned by playlist write operations.
type PlaylistWriteResult struct {
	BlockHash   string
	BlockNumber int64
	PlaylistID  string
}

// UploadAlbumRequest uploads a set of track files and combines them into a
// new album.
type UploadAlbumRequest struct {
	UserID         int64
	TrackFiles     []io.ReadSeeker
	TrackNames     []string
	TrackMetadatas []TrackMetadata
	CoverArtFile   io.ReadSeeker
	CoverArtName   string
	AlbumName      string
	Metadata       PlaylistMetadata
	OnProgress     ProgressFunc
	Write          *WriteOptions
}

// UpdateAlbumRequest contains parameters for updating an album.
type UpdateAlbumRequest struct {
	UserID       int64
	AlbumID      int64
	CoverArtFile io.ReadSeeker
	CoverArtName string
	AlbumName    string
	Metadata     PlaylistMetadata
	OnProgress   ProgressFunc
	Write        *WriteOptions
}

// DeleteAlbumRequest contains parameters for soft-deleting an album.
type DeleteAlbumRequest struct {
	UserID  int64
	AlbumID int64
	Write   *WriteOptions
}

// SocialAlbumRequest contains parameters for social album actions.
type SocialAlbumRequest struct {
	UserID  int64
	AlbumID int64
	Write   *WriteOptions
}

// AlbumWriteResult is returned by album write operations.
type AlbumWriteResult struct {
	BlockHash   string
	BlockNumber int64
	AlbumID     string
}
