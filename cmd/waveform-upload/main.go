// Command waveform-upload uploads a single track from the command line.
// Intended for smoke-testing an environment end to end: storage upload,
// metadata addressing, ledger write and confirmation.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
	"github.com/waveform-audio/waveform-go/pkg/waveform/config"
)

func main() {
	var (
		userID    = flag.Int64("user", 0, "numeric user id")
		trackPath = flag.String("track", "", "path to the audio file")
		coverPath = flag.String("cover", "", "path to the cover art file (optional)")
		title     = flag.String("title", "", "track title")
		genre     = flag.String("genre", "", "track genre")
		skip      = flag.Bool("skip-confirmation", false, "return after submission without waiting for confirmation")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *userID <= 0 || *trackPath == "" || *title == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	auth, err := authFromEnv()
	if err != nil {
		logger.Error("Failed to initialize signer", "err", err)
		os.Exit(1)
	}

	client, err := cfg.BuildClient(auth, logger)
	if err != nil {
		logger.Error("Failed to build client", "err", err)
		os.Exit(1)
	}

	trackFile, err := os.Open(*trackPath)
	if err != nil {
		logger.Error("Failed to open track file", "err", err)
		os.Exit(1)
	}
	defer trackFile.Close()

	req := waveform.UploadTrackRequest{
		UserID:    *userID,
		TrackFile: trackFile,
		TrackName: *trackPath,
		Metadata: waveform.TrackMetadata{
			Title: *title,
			Genre: *genre,
		},
		OnProgress: func(uploaded, total int64) {
			fmt.Fprintf(os.Stderr, "\ruploaded %d/%d bytes", uploaded, total)
		},
	}
	if *skip {
		req.Write = &waveform.WriteOptions{SkipConfirmation: true}
	}
	if *coverPath != "" {
		coverFile, err := os.Open(*coverPath)
		if err != nil {
			logger.Error("Failed to open cover art file", "err", err)
			os.Exit(1)
		}
		defer coverFile.Close()
		req.CoverArtFile = coverFile
		req.CoverArtName = *coverPath
	}

	result, err := client.Tracks.UploadTrack(context.Background(), req)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.Error("Upload failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("track %s written in block %s (number %d)\n",
		result.TrackID, result.BlockHash, result.BlockNumber)
}

// envAuth signs payloads with an HMAC secret from the environment. Good
// enough for smoke tests against development networks; production callers
// plug in a real wallet-backed AuthService.
type envAuth struct {
	secret []byte
}

func authFromEnv() (*envAuth, error) {
	secret := os.Getenv("WAVEFORM_SIGNING_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("WAVEFORM_SIGNING_SECRET is required")
	}
	raw, err := hex.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("WAVEFORM_SIGNING_SECRET must be hex: %w", err)
	}
	return &envAuth{secret: raw}, nil
}

func (a *envAuth) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write(payload)
	return mac.Sum(nil), nil
}

func (a *envAuth) SignTransaction(ctx context.Context, payload []byte) ([]byte, error) {
	return a.Sign(ctx, payload)
}

func (a *envAuth) GetSharedSecret(ctx context.Context, publicKey []byte) ([]byte, error) {
	return nil, fmt.Errorf("shared secrets are not supported by the env signer")
}

func (a *envAuth) GetAddress(ctx context.Context) (string, error) {
	sum := sha256.Sum256(a.secret)
	return hex.EncodeToString(sum[:20]), nil
}
