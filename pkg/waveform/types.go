package waveform

import "time"

// EntityType is the domain type for ledger-tracked entities.
type EntityType string

// Entity type constants (typed).
const (
	EntityTypeTrack    EntityType = "Track"
	EntityTypePlaylist EntityType = "Playlist"
	EntityTypeUser     EntityType = "User"
)

// Action is the kind of write performed against an entity.
type Action string

// Action constants (typed).
const (
	ActionCreate   Action = "Create"
	ActionUpdate   Action = "Update"
	ActionDelete   Action = "Delete"
	ActionSave     Action = "Save"
	ActionUnsave   Action = "Unsave"
	ActionRepost   Action = "Repost"
	ActionUnrepost Action = "Unrepost"
	ActionFollow   Action = "Follow"
	ActionUnfollow Action = "Unfollow"
)

// BlockConfirmation is the terminal state of a confirmation poll.
type BlockConfirmation string

// Block confirmation constants (typed).
//
// ConfirmationUnknown means the confirmation window elapsed without the
// ledger resolving the write either way. The write may still land; callers
// should treat it as "submitted, unconfirmed" and reconcile by re-querying
// entity state, not as a failure.
const (
	ConfirmationConfirmed BlockConfirmation = "CONFIRMED"
	ConfirmationDenied    BlockConfirmation = "DENIED"
	ConfirmationUnknown   BlockConfirmation = "UNKNOWN"
)

// WriteAction is the signed, immutable record submitted to the ledger.
// Metadata, when present, is the JSON-serialized canonical payload
// {"cid": ..., "data": ...}. Signature covers the canonical payload bytes
// of every other field.
type WriteAction struct {
	UserID      int64      `json:"user_id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    int64      `json:"entity_id"`
	Action      Action     `json:"action"`
	Metadata    string     `json:"metadata,omitempty"`
	Nonce       string     `json:"nonce"`
	Signature   []byte     `json:"signature,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// TxReceipt identifies the block a submitted write landed in. It is the
// durability handle callers use to confirm the write later.
type TxReceipt struct {
	BlockHash   string `json:"block_hash"`
	BlockNumber int64  `json:"block_number"`
}

// Block is a point-in-time view of the ledger head.
type Block struct {
	Height    int64 `json:"height"`
	Timestamp int64 `json:"timestamp"`
}

// UploadResult is what the storage node returns for a processed upload.
// Results maps a processing variant (e.g. "320" for transcoded audio, or a
// square image size) to the identifier of the stored artifact.
type UploadResult struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Results map[string]string `json:"results,omitempty"`
	Probe   *ProbeInfo        `json:"probe,omitempty"`
}

// ProbeInfo carries media probe output from the storage node.
type ProbeInfo struct {
	Format ProbeFormat `json:"format"`
}

// ProbeFormat holds format-level probe fields.
type ProbeFormat struct {
	Duration string `json:"duration"`
}

// WriteOptions overrides confirmation behavior for a single write.
type WriteOptions struct {
	// ConfirmationTimeout bounds the confirmation poll. Zero means the
	// coordinator default.
	ConfirmationTimeout time.Duration
	// SkipConfirmation returns immediately after submission without polling.
	SkipConfirmation bool
}

// TrackMetadata is the mutable metadata for a track entity. Field naming
// follows the canonical snake_case wire form used for content addressing.
type TrackMetadata struct {
	OwnerID             int64  `json:"owner_id,omitempty"`
	Title               string `json:"title"`
	Genre               string `json:"genre,omitempty"`
	Mood                string `json:"mood,omitempty"`
	Tags                string `json:"tags,omitempty"`
	Description         string `json:"description,omitempty"`
	ReleaseDate         string `json:"release_date,omitempty"`
	IsUnlisted          bool   `json:"is_unlisted,omitempty"`
	AudioUploadID       string `json:"audio_upload_id,omitempty"`
	TrackCID            string `json:"track_cid,omitempty"`
	PreviewCID          string `json:"preview_cid,omitempty"`
	PreviewStartSeconds int64  `json:"preview_start_seconds,omitempty"`
	CoverArtSizes       string `json:"cover_art_sizes,omitempty"`
	Duration            string `json:"duration,omitempty"`
}

// PlaylistMetadata is the mutable metadata for a playlist or album entity.
// Albums are playlists with IsAlbum set.
type PlaylistMetadata struct {
	PlaylistOwnerID  int64           `json:"playlist_owner_id,omitempty"`
	PlaylistName     string          `json:"playlist_name"`
	Description      string          `json:"description,omitempty"`
	Genre            string          `json:"genre,omitempty"`
	Mood             string          `json:"mood,omitempty"`
	Tags             string          `json:"tags,omitempty"`
	IsAlbum          bool            `json:"is_album,omitempty"`
	IsPrivate        bool            `json:"is_private,omitempty"`
	CoverArtSizes    string          `json:"cover_art_sizes,omitempty"`
	PlaylistContents []PlaylistTrack `json:"playlist_contents"`
}

// PlaylistTrack is one entry in a playlist's ordered track list. Timestamp
// records the ledger time the track was added.
type PlaylistTrack struct {
	TrackID   int64 `json:"track_id"`
	Timestamp int64 `json:"timestamp"`
}

// Track is the read model returned by the catalog for a track entity.
type Track struct {
	ID       int64         `json:"id"`
	OwnerID  int64         `json:"owner_id"`
	Metadata TrackMetadata `json:"metadata"`
}

// Playlist is the read model returned by the catalog for a playlist entity.
type Playlist struct {
	ID       int64            `json:"id"`
	OwnerID  int64            `json:"owner_id"`
	Metadata PlaylistMetadata `json:"metadata"`
}
