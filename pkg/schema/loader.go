package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// DefaultMaxDocumentBytes bounds a single document when LoaderConfig leaves
// MaxBytes unset.
const DefaultMaxDocumentBytes = int64(5 << 20)

// Loader resolves a Source into a Document. The stock implementation lives in
// internal/loader and is reachable through jsonforms.NewLoader.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context, src Source) (Document, error)

// Load delegates to the underlying function.
func (fn LoaderFunc) Load(ctx context.Context, src Source) (Document, error) {
	return fn(ctx, src)
}

// LoaderConfig is the resolved configuration of the stock loader. The zero
// value reads local files only, with the default size limit.
type LoaderConfig struct {
	// Files backs SourceKindFS sources.
	Files fs.FS
	// Remote controls SourceKindURL sources.
	Remote Remote
	// MaxBytes caps every document regardless of origin.
	MaxBytes int64
}

// Limit returns the effective per-document byte cap.
func (c LoaderConfig) Limit() int64 {
	if c.MaxBytes <= 0 {
		return DefaultMaxDocumentBytes
	}
	return c.MaxBytes
}

// Remote describes HTTP access. Loading stays offline until Enabled is set.
type Remote struct {
	Enabled bool
	Client  *http.Client
	Timeout time.Duration
}

// HTTPClient returns the client to fetch with, or nil when remote loading is
// off. A supplied client is copied so Timeout never leaks into the caller's.
func (r Remote) HTTPClient() *http.Client {
	if !r.Enabled {
		return nil
	}
	if r.Client == nil {
		return &http.Client{Timeout: r.Timeout}
	}
	clone := *r.Client
	if clone.Timeout == 0 {
		clone.Timeout = r.Timeout
	}
	return &clone
}

// LoaderOption adjusts a LoaderConfig.
type LoaderOption func(*LoaderConfig)

// WithFiles serves fs sources from files.
func WithFiles(files fs.FS) LoaderOption {
	return func(c *LoaderConfig) {
		c.Files = files
	}
}

// WithRemote turns on HTTP loading with a fresh client bounded by timeout.
func WithRemote(timeout time.Duration) LoaderOption {
	return func(c *LoaderConfig) {
		c.Remote.Enabled = true
		c.Remote.Timeout = timeout
	}
}

// WithRemoteClient turns on HTTP loading through client.
func WithRemoteClient(client *http.Client) LoaderOption {
	return func(c *LoaderConfig) {
		c.Remote.Enabled = client != nil || c.Remote.Enabled
		c.Remote.Client = client
	}
}

// WithMaxBytes caps the size of each loaded document.
func WithMaxBytes(limit int64) LoaderOption {
	return func(c *LoaderConfig) {
		c.MaxBytes = limit
	}
}

// NewLoaderConfig folds options into a LoaderConfig.
func NewLoaderConfig(options ...LoaderOption) LoaderConfig {
	var cfg LoaderConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
