package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/williamokano/aws_config/pkg/storage"
)

// Store keeps parameters on the local filesystem using the same layout as
// an unversioned S3 bucket:
//
//	{base}/{name}/{name}-latest.json
//	{base}/{name}/{name}-latest.meta.json
//	{base}/{name}/{name}-000001.json
//
// The meta sidecar carries what S3 would hold in object metadata. Useful
// as a development mirror and for tests that should not touch AWS.
type Store struct {
	name     string
	basePath string
}

// meta is the sidecar for the latest file
type meta struct {
	Version string `json:"config_version"`
	SHA256  string `json:"config_sha256"`
}

func init() {
	storage.RegisterStore("local", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return New(cfg)
	})
}

// New creates a new local filesystem store
func New(cfg storage.Config) (*Store, error) {
	// Extract path from options
	pathVal, ok := cfg.Options["path"]
	if !ok {
		return nil, fmt.Errorf("missing required option: path")
	}

	path, ok := pathVal.(string)
	if !ok {
		return nil, fmt.Errorf("path must be a string")
	}

	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Store{
		name:     cfg.Name,
		basePath: path,
	}, nil
}

func (s *Store) Name() string { return s.name }
func (s *Store) Type() string { return "local" }

// ReadLatest returns the most recent value of a parameter
func (s *Store) ReadLatest(ctx context.Context, name string) (*storage.Parameter, error) {
	value, err := s.readFile(s.latestPath(name))
	if err != nil {
		return nil, err
	}

	m := s.readMeta(name)
	if m.Version == "" {
		if highest, scanErr := s.scanVersions(name); scanErr == nil {
			m.Version = strconv.Itoa(highest)
		}
	}
	if m.SHA256 == "" {
		m.SHA256, _ = storage.SHA256OfJSON(value)
	}

	return &storage.Parameter{
		Name:    name,
		Value:   value,
		Version: storage.EncodeVersion(m.Version),
		SHA256:  m.SHA256,
	}, nil
}

// Read returns a specific version of a parameter
func (s *Store) Read(ctx context.Context, name string, version string) (*storage.Parameter, error) {
	if storage.IsLatest(version) {
		return s.ReadLatest(ctx, name)
	}

	version = storage.EncodeVersion(version)
	value, err := s.readFile(s.versionedPath(name, version))
	if err != nil {
		return nil, err
	}

	sha, _ := storage.SHA256OfJSON(value)
	return &storage.Parameter{
		Name:    name,
		Value:   value,
		Version: version,
		SHA256:  sha,
	}, nil
}

// LatestVersion returns the version number of the most recent value. The
// meta sidecar is authoritative; surviving history files are scanned when
// it is gone.
func (s *Store) LatestVersion(ctx context.Context, name string) (string, error) {
	if m := s.readMeta(name); m.Version != "" {
		return m.Version, nil
	}
	highest, err := s.scanVersions(name)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(highest), nil
}

// Deploy writes value as the new latest version of the parameter. The
// write is skipped when the stored document is identical. Tags have no
// filesystem equivalent and are ignored.
func (s *Store) Deploy(ctx context.Context, name string, value []byte, tags map[string]string) (*storage.Deployment, error) {
	sha, err := storage.SHA256OfJSON(value)
	if err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	existing, err := s.ReadLatest(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if existing != nil && storage.SameJSON(existing.Value, value) {
		return &storage.Deployment{
			Parameter: name,
			Version:   existing.Version,
			SHA256:    sha,
			Location:  s.latestPath(name),
			Skipped:   true,
		}, nil
	}

	current, err := s.LatestVersion(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		current = "0"
	}
	n, _ := strconv.Atoi(current)
	next := strconv.Itoa(n + 1)

	dir := filepath.Join(s.basePath, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	versionedPath := s.versionedPath(name, next)
	if err := os.WriteFile(versionedPath, value, 0644); err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}
	if err := os.WriteFile(s.latestPath(name), value, 0644); err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	metaRaw, err := json.Marshal(meta{Version: next, SHA256: sha})
	if err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}
	if err := os.WriteFile(s.metaPath(name), metaRaw, 0644); err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	return &storage.Deployment{
		Parameter: name,
		Version:   next,
		SHA256:    sha,
		Location:  versionedPath,
	}, nil
}

// Delete removes a parameter. Without includeHistory only the latest file
// and its sidecar go away; history files survive for recovery.
func (s *Store) Delete(ctx context.Context, name string, includeHistory bool) error {
	if includeHistory {
		if err := os.RemoveAll(filepath.Join(s.basePath, name)); err != nil {
			return storage.WrapError(s.name, "delete", err)
		}
		return nil
	}

	for _, path := range []string{s.latestPath(name), s.metaPath(name)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return storage.WrapError(s.name, "delete", err)
		}
	}
	return nil
}

// Prune removes history files beyond the keep newest versions
func (s *Store) Prune(ctx context.Context, name string, keep int) ([]string, error) {
	versions, err := s.listVersions(name)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, n := range storage.VersionsToPrune(versions, keep) {
		path := s.versionedPath(name, strconv.Itoa(n))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, storage.WrapError(s.name, "prune", err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Close is a no-op for local store
func (s *Store) Close() error {
	return nil
}

// Helper functions

func (s *Store) latestPath(name string) string {
	return filepath.Join(s.basePath, name, name+"-latest.json")
}

func (s *Store) metaPath(name string) string {
	return filepath.Join(s.basePath, name, name+"-latest.meta.json")
}

func (s *Store) versionedPath(name, version string) string {
	return filepath.Join(s.basePath, name, name+"-"+storage.ZeroPadVersion(version)+".json")
}

func (s *Store) readFile(path string) ([]byte, error) {
	value, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.WrapError(s.name, "read", fmt.Errorf("%w: %s", storage.ErrNotFound, path))
		}
		return nil, storage.WrapError(s.name, "read", err)
	}
	return value, nil
}

func (s *Store) readMeta(name string) meta {
	var m meta
	raw, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		return m
	}
	_ = json.Unmarshal(raw, &m)
	return m
}

func (s *Store) scanVersions(name string) (int, error) {
	versions, err := s.listVersions(name)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, n := range versions {
		if n > highest {
			highest = n
		}
	}

	if highest == 0 {
		return 0, storage.WrapError(s.name, "list", fmt.Errorf("%w: %s", storage.ErrNotFound, name))
	}
	return highest, nil
}

func (s *Store) listVersions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, name))
	if err != nil {
		return nil, storage.WrapError(s.name, "list", fmt.Errorf("%w: %s", storage.ErrNotFound, name))
	}

	var versions []int
	for _, entry := range entries {
		stem := strings.TrimSuffix(entry.Name(), ".json")
		idx := strings.LastIndex(stem, "-")
		if idx < 0 {
			continue
		}
		if n, err := strconv.Atoi(stem[idx+1:]); err == nil {
			versions = append(versions, n)
		}
	}
	return versions, nil
}
