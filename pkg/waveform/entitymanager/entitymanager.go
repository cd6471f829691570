// Package entitymanager implements the entity write coordinator: it builds
// the canonical payload for a write, has the auth capability sign it,
// submits it to the ledger, and polls for block confirmation.
package entitymanager

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
	"github.com/waveform-audio/waveform-go/pkg/waveform/cidutil"
)

// Confirmation defaults. Overridable per service via options and per call
// via waveform.WriteOptions.
const (
	DefaultConfirmationTimeout = 45 * time.Second
	DefaultPollingInterval     = 2 * time.Second
)

// Service coordinates signed entity writes. It is stateless and safe for
// concurrent use; all durable state lives in the remote ledger.
type Service struct {
	ledger              waveform.LedgerClient
	confirmationTimeout time.Duration
	pollingInterval     time.Duration
	logger              *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfirmationTimeout sets the default confirmation timeout.
func WithConfirmationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.confirmationTimeout = d
		}
	}
}

// WithPollingInterval sets the confirmation polling interval.
func WithPollingInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollingInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an entity write coordinator backed by the given ledger client.
func New(ledger waveform.LedgerClient, opts ...Option) (*Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger client is required")
	}
	s := &Service{
		ledger:              ledger,
		confirmationTimeout: DefaultConfirmationTimeout,
		pollingInterval:     DefaultPollingInterval,
		logger:              slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// entityPayload is the canonical on-ledger metadata envelope.
type entityPayload struct {
	CID  string          `json:"cid"`
	Data json.RawMessage `json:"data"`
}

// ManageEntity performs one write: validate, build payload, sign, submit,
// and confirm unless skipped.
//
// A nil error with Confirmation == ConfirmationUnknown means the write was
// submitted but the confirmation window elapsed unresolved; the caller must
// treat it as "submitted, unconfirmed" and reconcile later. The coordinator
// performs no deduplication of identical resubmissions: the content-derived
// CID makes them detectable, but acting on that is the caller's call.
func (s *Service) ManageEntity(ctx context.Context, req waveform.ManageEntityRequest) (*waveform.ManageEntityResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	action := &waveform.WriteAction{
		UserID:      req.UserID,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		Action:      req.Action,
		Nonce:       uuid.NewString(),
		SubmittedAt: time.Now().UTC(),
	}

	if req.Metadata != nil {
		metadata, err := buildMetadata(req.Metadata)
		if err != nil {
			return nil, err
		}
		action.Metadata = metadata
	}

	payload, err := cidutil.CanonicalJSON(action)
	if err != nil {
		return nil, &waveform.SerializationError{Err: err}
	}
	signature, err := req.Auth.Sign(ctx, payload)
	if err != nil {
		return nil, &waveform.SigningError{Err: err}
	}
	action.Signature = signature

	receipt, err := s.ledger.SubmitEntityWrite(ctx, action)
	if err != nil {
		return nil, &waveform.SubmissionError{
			EntityType: req.EntityType,
			Action:     req.Action,
			Err:        err,
		}
	}
	s.logger.Debug("entity write submitted",
		"entity_type", req.EntityType,
		"entity_id", req.EntityID,
		"action", req.Action,
		"block_hash", receipt.BlockHash,
		"block_number", receipt.BlockNumber,
	)

	if req.Write != nil && req.Write.SkipConfirmation {
		return &waveform.ManageEntityResult{
			TxReceipt:    *receipt,
			Confirmation: waveform.ConfirmationUnknown,
		}, nil
	}

	timeout := s.confirmationTimeout
	if req.Write != nil && req.Write.ConfirmationTimeout > 0 {
		timeout = req.Write.ConfirmationTimeout
	}

	confirmation, err := s.confirmWrite(ctx, receipt, timeout)
	if err != nil {
		return nil, err
	}
	return &waveform.ManageEntityResult{
		TxReceipt:    *receipt,
		Confirmation: confirmation,
	}, nil
}

// confirmWrite polls block confirmation until the write is confirmed,
// denied, or the timeout elapses. Status-check failures are logged and the
// poll continues; they are not in the critical write path.
func (s *Service) confirmWrite(ctx context.Context, receipt *waveform.TxReceipt, timeout time.Duration) (waveform.BlockConfirmation, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		confirmation, err := s.ledger.GetBlockConfirmation(ctx, receipt.BlockHash, receipt.BlockNumber)
		if err != nil {
			s.logger.Warn("block confirmation check failed, retrying",
				"block_hash", receipt.BlockHash, "error", err)
		} else {
			switch confirmation {
			case waveform.ConfirmationConfirmed:
				return waveform.ConfirmationConfirmed, nil
			case waveform.ConfirmationDenied:
				return waveform.ConfirmationDenied, fmt.Errorf("block %s: %w", receipt.BlockHash, waveform.ErrWriteDenied)
			}
		}

		select {
		case <-ctx.Done():
			return waveform.ConfirmationUnknown, ctx.Err()
		case <-deadline.C:
			s.logger.Warn("confirmation timed out; write is submitted but unconfirmed",
				"block_hash", receipt.BlockHash, "timeout", timeout)
			return waveform.ConfirmationUnknown, nil
		case <-ticker.C:
		}
	}
}

// GetCurrentBlock returns the current ledger head.
func (s *Service) GetCurrentBlock(ctx context.Context) (*waveform.Block, error) {
	return s.ledger.GetCurrentBlock(ctx)
}

// buildMetadata canonicalizes metadata and wraps it in the {cid, data}
// envelope the ledger expects.
func buildMetadata(metadata any) (string, error) {
	data, err := cidutil.CanonicalJSON(metadata)
	if err != nil {
		return "", &waveform.SerializationError{Err: err}
	}
	metadataCID, err := cidutil.ComputeRawCID(data)
	if err != nil {
		return "", &waveform.SerializationError{Err: err}
	}
	envelope, err := json.Marshal(entityPayload{CID: metadataCID, Data: data})
	if err != nil {
		return "", &waveform.SerializationError{Err: err}
	}
	return string(envelope), nil
}

func validateRequest(req waveform.ManageEntityRequest) error {
	const op = "ManageEntity"
	if req.UserID <= 0 {
		return &waveform.ValidationError{Op: op, Field: "UserID", Reason: "must be positive"}
	}
	if req.EntityType == "" {
		return &waveform.ValidationError{Op: op, Field: "EntityType", Reason: "is required"}
	}
	if req.EntityID <= 0 {
		return &waveform.ValidationError{Op: op, Field: "EntityID", Reason: "must be positive"}
	}
	if req.Action == "" {
		return &waveform.ValidationError{Op: op, Field: "Action", Reason: "is required"}
	}
	if req.Auth == nil {
		return waveform.ErrMissingAuth
	}
	return nil
}
