// Package config loads SDK configuration from the environment and builds a
// fully wired client from it. Retry, polling and confirmation constants are
// deliberate defaults, not hardcoded: deployments override them per
// environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
	"github.com/waveform-audio/waveform-go/pkg/waveform/catalog"
	"github.com/waveform-audio/waveform-go/pkg/waveform/entitymanager"
	"github.com/waveform-audio/waveform-go/pkg/waveform/ledger"
	"github.com/waveform-audio/waveform-go/pkg/waveform/storage"
)

// Config holds SDK configuration.
type Config struct {
	StorageURL string `env:"WAVEFORM_STORAGE_URL" env-description:"Storage node base URL"`
	LedgerURL  string `env:"WAVEFORM_LEDGER_URL" env-description:"Ledger gateway base URL"`
	CatalogURL string `env:"WAVEFORM_CATALOG_URL" env-description:"Catalog indexer base URL"`

	ConfirmationTimeout time.Duration `env:"WAVEFORM_CONFIRMATION_TIMEOUT" env-default:"45s"`
	PollingInterval     time.Duration `env:"WAVEFORM_POLLING_INTERVAL" env-default:"2s"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the required endpoints are set.
func (c *Config) Validate() error {
	if c.StorageURL == "" {
		return fmt.Errorf("storage URL is required")
	}
	if c.LedgerURL == "" {
		return fmt.Errorf("ledger URL is required")
	}
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog URL is required")
	}
	return nil
}

// BuildClient wires the HTTP capability implementations described by the
// config into a ready-to-use client. The auth capability stays caller
// provided: the SDK never owns key material.
func (c *Config) BuildClient(auth waveform.AuthService, logger *slog.Logger) (*waveform.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	storageClient, err := storage.New(c.StorageURL, storage.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	ledgerClient, err := ledger.New(c.LedgerURL)
	if err != nil {
		return nil, err
	}
	catalogClient, err := catalog.New(c.CatalogURL)
	if err != nil {
		return nil, err
	}
	manager, err := entitymanager.New(ledgerClient,
		entitymanager.WithConfirmationTimeout(c.ConfirmationTimeout),
		entitymanager.WithPollingInterval(c.PollingInterval),
		entitymanager.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return waveform.New(
		waveform.WithStorage(storageClient),
		waveform.WithEntityManager(manager),
		waveform.WithCatalog(catalogClient),
		waveform.WithAuth(auth),
		waveform.WithLogger(logger),
	)
}
