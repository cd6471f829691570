package waveform

import (
	"context"
	"io"
)

// AuthService is the cryptographic identity capability. Implementations hold
// the key material; the SDK only ever sees payload bytes and signatures.
type AuthService interface {
	// Sign signs arbitrary payload bytes.
	Sign(ctx context.Context, payload []byte) ([]byte, error)

	// SignTransaction signs a ledger transaction payload.
	SignTransaction(ctx context.Context, payload []byte) ([]byte, error)

	// GetSharedSecret derives a shared secret against the given public key.
	GetSharedSecret(ctx context.Context, publicKey []byte) ([]byte, error)

	// GetAddress returns the signer's ledger address.
	GetAddress(ctx context.Context) (string, error)
}

// StorageService transfers binary assets to the remote storage node.
type StorageService interface {
	// UploadFile uploads a file and returns identifiers for the processed
	// artifacts. A non-nil error means no durable processed artifact should
	// be assumed; callers must not proceed to metadata generation.
	UploadFile(ctx context.Context, req UploadFileRequest) (*UploadResult, error)

	// EditFile re-runs server-side processing for an existing upload.
	EditFile(ctx context.Context, req EditFileRequest) (*UploadResult, error)
}

// EntityManagerService coordinates signed entity writes against the ledger.
type EntityManagerService interface {
	// ManageEntity builds, signs, submits and (unless skipped) confirms a
	// single entity write.
	ManageEntity(ctx context.Context, req ManageEntityRequest) (*ManageEntityResult, error)

	// GetCurrentBlock returns the current ledger head.
	GetCurrentBlock(ctx context.Context) (*Block, error)
}

// LedgerClient is the transport-level capability the entity manager submits
// through. The ledger itself is an opaque append-only chain; this interface
// is the full surface the SDK needs from it.
type LedgerClient interface {
	// SubmitEntityWrite submits a signed write and returns its receipt.
	SubmitEntityWrite(ctx context.Context, action *WriteAction) (*TxReceipt, error)

	// GetBlockConfirmation reports the finality of the given block.
	GetBlockConfirmation(ctx context.Context, blockHash string, blockNumber int64) (BlockConfirmation, error)

	// GetCurrentBlock returns the current ledger head.
	GetCurrentBlock(ctx context.Context) (*Block, error)
}

// CatalogService is the read-side capability. Facades compose it for
// read-modify-write updates instead of extending a generated client.
type CatalogService interface {
	// GetTrack fetches the current state of a track.
	GetTrack(ctx context.Context, trackID int64) (*Track, error)

	// GetPlaylist fetches the current state of a playlist or album.
	GetPlaylist(ctx context.Context, userID, playlistID int64) (*Playlist, error)

	// GetUnclaimedID reserves an unclaimed numeric entity id of the given
	// kind ("track" or "playlist").
	GetUnclaimedID(ctx context.Context, kind string) (int64, error)
}

// ProgressFunc receives upload progress. uploaded is monotonically
// non-decreasing and total is the full payload size when known (-1 otherwise).
type ProgressFunc func(uploaded, total int64)

// UploadFileRequest contains parameters for uploading a binary asset.
type UploadFileRequest struct {
	// File is the asset content. It must be re-readable: failed attempts
	// rewind it before retrying.
	File io.ReadSeeker

	// Name is the original file name, used by the storage node for probe
	// and content-type hints.
	Name string

	// Template selects the server-side processing profile, e.g. "audio" or
	// "img_square".
	Template string

	// Options are template-specific key-value processing options.
	Options map[string]string

	// OnProgress, when set, is called zero or more times before the
	// terminal success or failure.
	OnProgress ProgressFunc
}

// EditFileRequest contains parameters for re-processing an existing upload.
type EditFileRequest struct {
	UploadID string
	Data     map[string]string
}

// ManageEntityRequest contains parameters for a single entity write.
type ManageEntityRequest struct {
	UserID     int64
	EntityType EntityType
	EntityID   int64
	Action     Action

	// Metadata is the typed metadata associated with the action, or nil for
	// actions that carry none (e.g. Delete, Unsave). It is canonicalized
	// and content-addressed by the coordinator.
	Metadata any

	// Auth signs the canonical payload.
	Auth AuthService

	// Write optionally overrides confirmation behavior.
	Write *WriteOptions
}

// ManageEntityResult is the outcome of a submitted write.
type ManageEntityResult struct {
	TxReceipt TxReceipt

	// Confirmation is the terminal confirmation state. It is
	// ConfirmationUnknown both when confirmation was skipped and when the
	// confirmation window elapsed unresolved.
	Confirmation BlockConfirmation
}
