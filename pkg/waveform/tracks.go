package waveform

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Storage node processing templates.
const (
	templateAudio     = "audio"
	templateImgSquare = "img_square"
)

// TracksClient is the facade for track write operations. It sequences
// uploader, addresser and coordinator calls into one logical operation and
// retains no state between calls.
type TracksClient struct {
	storage       StorageService
	entityManager EntityManagerService
	catalog       CatalogService
	auth          AuthService
	logger        *slog.Logger
}

// UploadTrack uploads the track audio (and cover art, when provided),
// finalizes the track metadata with the upload results, and writes the new
// track entity to the ledger.
func (c *TracksClient) UploadTrack(ctx context.Context, req UploadTrackRequest) (*TrackWriteResult, error) {
	const op = "UploadTrack"
	if err := validateUserID(op, req.UserID); err != nil {
		return nil, err
	}
	if req.TrackFile == nil {
		return nil, &ValidationError{Op: op, Field: "TrackFile", Reason: "is required"}
	}
	if req.Metadata.Title == "" {
		return nil, &ValidationError{Op: op, Field: "Metadata.Title", Reason: "is required"}
	}

	metadata := req.Metadata
	metadata.OwnerID = req.UserID

	uploadOptions := map[string]string{}
	if metadata.PreviewStartSeconds > 0 {
		uploadOptions["preview_start_seconds"] = strconv.FormatInt(metadata.PreviewStartSeconds, 10)
	}

	// Audio and cover art upload concurrently; metadata is only finalized
	// once both resolve.
	var audioResp, coverResp *UploadResult
	var g errgroup.Group
	g.Go(func() error {
		resp, err := c.storage.UploadFile(ctx, UploadFileRequest{
			File:       req.TrackFile,
			Name:       req.TrackName,
			Template:   templateAudio,
			Options:    uploadOptions,
			OnProgress: req.OnProgress,
		})
		if err != nil {
			return err
		}
		audioResp = resp
		return nil
	})
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
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("upload track: %w", err)
	}

	populateTrackMetadata(&metadata, audioResp, coverResp)

	trackID, err := c.catalog.GetUnclaimedID(ctx, "track")
	if err != nil {
		return nil, fmt.Errorf("upload track: reserve id: %w", err)
	}

	result, err := c.entityManager.ManageEntity(ctx, ManageEntityRequest{
		UserID:     req.UserID,
		EntityType: EntityTypeTrack,
		EntityID:   trackID,
		Action:     ActionCreate,
		Metadata:   metadata,
		Auth:       c.auth,
		Write:      req.Write,
	})
	if err != nil {
		return nil, fmt.Errorf("upload track: %w", err)
	}
	return trackWriteResult(result, trackID)
}

// UpdateTrack rewrites a track's metadata, optionally replacing its cover
// art and re-cutting its preview clip.
func (c *TracksClient) UpdateTrack(ctx context.Context, req UpdateTrackRequest) (*TrackWriteResult, error) {
	const op = "UpdateTrack"
	if err := validateUserID(op, req.UserID); err != nil {
		return nil, err
	}
	if req.TrackID <= 0 {
		return nil, &ValidationError{Op: op, Field: "TrackID", Reason: "must be positive"}
	}
	if req.TranscodePreview {
		if req.Metadata.PreviewStartSeconds <= 0 {
			return nil, &ValidationError{Op: op, Field: "Metadata.PreviewStartSeconds", Reason: "required when transcoding a preview"}
		}
		if req.Metadata.AudioUploadID == "" {
			return nil, &ValidationError{Op: op, Field: "Metadata.AudioUploadID", Reason: "required when transcoding a preview"}
		}
	}

	metadata := req.Metadata
	metadata.OwnerID = req.UserID

	if req.CoverArtFile != nil {
		coverResp, err := c.storage.UploadFile(ctx, UploadFileRequest{
			File:       req.CoverArtFile,
			Name:       req.CoverArtName,
			Template:   templateImgSquare,
			OnProgress: req.OnProgress,
		})
		if err != nil {
			return nil, fmt.Errorf("update track: %w", err)
		}
		metadata.CoverArtSizes = coverResp.ID
	}

	if req.TranscodePreview {
		start := strconv.FormatInt(metadata.PreviewStartSeconds, 10)
		editResp, err := c.storage.EditFile(ctx, EditFileRequest{
			UploadID: metadata.AudioUploadID,
			Data:     map[string]string{"preview_start_seconds": start},
		})
		if err != nil {
			return nil, fmt.Errorf("update track: %w", err)
		}
		metadata.PreviewCID = editResp.Results["320_preview|"+start]
	}

	result, err := c.entityManager.ManageEntity(ctx, ManageEntityRequest{
		UserID:     req.UserID,
		EntityType: EntityTypeTrack,
		EntityID:   req.TrackID,
		Action:     ActionUpdate,
		Metadata:   metadata,
		Auth:       c.auth,
		Write:      req.Write,
	})
	if err != nil {
		return nil, fmt.Errorf("update track: %w", err)
	}
	return trackWriteResult(result, req.TrackID)
}

// DeleteTrack soft-deletes a track. Delete actions carry no metadata.
func (c *TracksClient) DeleteTrack(ctx context.Context, req DeleteTrackRequest) (*TrackWriteResult, error) {
	return c.socialAction(ctx, "delete track", req.UserID, req.TrackID, ActionDelete, req.Write)
}

// FavoriteTrack records a favorite for the track.
func (c *TracksClient) FavoriteTrack(ctx context.Context, req SocialTrackRequest) (*TrackWriteResult, error) {
	return c.socialAction(ctx, "favorite track", req.UserID, req.TrackID, ActionSave, req.Write)
}

// UnfavoriteTrack removes a favorite.
func (c *TracksClient) UnfavoriteTrack(ctx context.Context, req SocialTrackRequest) (*TrackWriteResult, error) {
	return c.socialAction(ctx, "unfavorite track", req.UserID, req.TrackID, ActionUnsave, req.Write)
}

// RepostTrack records a repost for the track.
func (c *TracksClient) RepostTrack(ctx context.Context, req SocialTrackRequest) (*TrackWriteResult, error) {
	return c.socialAction(ctx, "repost track", req.UserID, req.TrackID, ActionRepost, req.Write)
}

// UnrepostTrack removes a repost.
func (c *TracksClient) UnrepostTrack(ctx context.Context, req SocialTrackRequest) (*TrackWriteResult, error) {
	return c.socialAction(ctx, "unrepost track", req.UserID, req.TrackID, ActionUnrepost, req.Write)
}

func (c *TracksClient) socialAction(ctx context.Context, opName string, userID, trackID int64, action Action, write *WriteOptions) (*TrackWriteResult, error) {
	if err := validateUserID(opName, userID); err != nil {
		return nil, err
	}
	if trackID <= 0 {
		return nil, &ValidationError{Op: opName, Field: "TrackID", Reason: "must be positive"}
	}

	result, err := c.entityManager.ManageEntity(ctx, ManageEntityRequest{
		UserID:     userID,
		EntityType: EntityTypeTrack,
		EntityID:   trackID,
		Action:     action,
		Auth:       c.auth,
		Write:      write,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	return trackWriteResult(result, trackID)
}

// populateTrackMetadata finalizes track metadata from upload results. It
// must only run after uploads complete: the CID depends on upload-assigned
// identifiers.
func populateTrackMetadata(metadata *TrackMetadata, audio, cover *UploadResult) {
	metadata.AudioUploadID = audio.ID
	metadata.TrackCID = audio.Results["320"]
	if metadata.PreviewStartSeconds > 0 {
		key := "320_preview|" + strconv.FormatInt(metadata.PreviewStartSeconds, 10)
		metadata.PreviewCID = audio.Results[key]
	}
	if audio.Probe != nil && metadata.Duration == "" {
		metadata.Duration = audio.Probe.Format.Duration
	}
	if cover != nil {
		metadata.CoverArtSizes = cover.ID
	}
}

func trackWriteResult(result *ManageEntityResult, trackID int64) (*TrackWriteResult, error) {
	encoded, err := EncodeHashID(trackID)
	if err != nil {
		return nil, err
	}
	return &TrackWriteResult{
		BlockHash:   result.TxReceipt.BlockHash,
		BlockNumber: result.TxReceipt.BlockNumber,
		TrackID:     encoded,
	}, nil
}

func validateUserID(op string, userID int64) error {
	if userID <= 0 {
		return &ValidationError{Op: op, Field: "UserID", Reason: "must be positive"}
	}
	return nil
}
