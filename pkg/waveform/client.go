package waveform

import (
	"fmt"
	"log/slog"
)

// Client is the SDK entry point. It aggregates the domain facades, which
// share one set of injected capabilities. A Client holds no per-operation
// state and is safe for concurrent use.
type Client struct {
	Tracks    *TracksClient
	Playlists *PlaylistsClient
	Albums    *AlbumsClient

	storage       StorageService
	entityManager EntityManagerService
	catalog       CatalogService
	auth          AuthService
	logger        *slog.Logger
}

// Option represents a functional option for configuring the client.
type Option func(*Client)

// WithStorage sets the storage capability.
func WithStorage(storage StorageService) Option {
	return func(c *Client) {
		c.storage = storage
	}
}

// WithEntityManager sets the entity write coordinator.
func WithEntityManager(entityManager EntityManagerService) Option {
	return func(c *Client) {
		c.entityManager = entityManager
	}
}

// WithCatalog sets the read-side catalog capability.
func WithCatalog(catalog CatalogService) Option {
	return func(c *Client) {
		c.catalog = catalog
	}
}

// WithAuth sets the signing capability.
func WithAuth(auth AuthService) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client with the given options.
func New(options ...Option) (*Client, error) {
	c := &Client{logger: slog.Default()}
	for _, option := range options {
		option(c)
	}

	if c.storage == nil {
		return nil, fmt.Errorf("storage service is required")
	}
	if c.entityManager == nil {
		return nil, fmt.Errorf("entity manager service is required")
	}
	if c.catalog == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	if c.auth == nil {
		return nil, ErrMissingAuth
	}

	c.Tracks = &TracksClient{
		storage:       c.storage,
		entityManager: c.entityManager,
		catalog:       c.catalog,
		auth:          c.auth,
		logger:        c.logger.With("component", "tracks"),
	}
	c.Playlists = &PlaylistsClient{
		storage:       c.storage,
		entityManager: c.entityManager,
		catalog:       c.catalog,
		auth:          c.auth,
		logger:        c.logger.With("component", "playlists"),
	}
	c.Albums = &AlbumsClient{playlists: c.Playlists}

	return c, nil
}
