package storage

import (
	"context"
	"time"
)

// Store represents a backend that holds named configuration parameters,
// each a JSON document with a version history
type Store interface {
	// Name returns a human-readable name for this store (e.g., "s3_primary", "ssm_runtime")
	Name() string

	// Type returns the store type (s3, ssm, local)
	Type() string

	// ReadLatest returns the most recent value of a parameter
	// name: parameter name (e.g., "my_app-dev")
	ReadLatest(ctx context.Context, name string) (*Parameter, error)

	// Read returns a specific version of a parameter
	// version: a version label as returned by LatestVersion, or
	// LatestVersionLabel for the most recent value
	Read(ctx context.Context, name string, version string) (*Parameter, error)

	// LatestVersion returns the version label of the most recent value
	// Returns ErrNotFound when the parameter has never been deployed
	LatestVersion(ctx context.Context, name string) (string, error)

	// Deploy writes value as the new latest version of the parameter.
	// When the stored value is identical the write is skipped and the
	// returned Deployment has Skipped set.
	Deploy(ctx context.Context, name string, value []byte, tags map[string]string) (*Deployment, error)

	// Delete removes a parameter
	// includeHistory: also remove all historical versions permanently
	Delete(ctx context.Context, name string, includeHistory bool) error

	// Close releases resources (connections, sessions)
	Close() error
}

// Parameter is a stored configuration document together with its version
type Parameter struct {
	Name    string // Parameter name
	Value   []byte // Raw JSON document
	Version string // Version label ("1", "2", ... or a native version id)
	SHA256  string // Hex digest of the stored document
}

// Deployment describes the outcome of a Deploy call
type Deployment struct {
	Parameter string // Parameter name that was deployed
	Version   string // Version label of the written value
	SHA256    string // Hex digest of the written value
	Location  string // URI or name of the written object
	Skipped   bool   // True when the stored value already matched
}

// Config represents parameter store configuration
type Config struct {
	Name    string                 `json:"name"`    // User-friendly name (e.g., "s3_primary")
	Type    string                 `json:"type"`    // Store type: s3, ssm, local
	Enabled bool                   `json:"enabled"` // Whether this store is active
	Options map[string]interface{} `json:"options"` // Store-specific options
}

// Result represents outcome of a storage operation against one store
type Result struct {
	StoreName string
	StoreType string
	Success   bool
	Skipped   bool
	Version   string
	Error     error
	Duration  time.Duration
}
