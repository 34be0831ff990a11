package backblaze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/kurin/blazer/b2"

	"github.com/williamokano/aws_config/pkg/storage"
)

// Store keeps parameters in a Backblaze B2 bucket using the same key
// layout as an unversioned S3 bucket:
//
//	{prefix}/{name}/{name}-latest.json
//	{prefix}/{name}/{name}-000001.json
//
// B2 file info carries the version and checksum the way S3 object
// metadata does. Serves as an off-AWS mirror for disaster recovery.
type Store struct {
	name   string
	bucket *b2.Bucket
	prefix string
}

func init() {
	storage.RegisterStore("backblaze", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return New(ctx, cfg)
	})
}

// New creates a new Backblaze B2 store
func New(ctx context.Context, cfg storage.Config) (*Store, error) {
	b2Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	// Create B2 client
	client, err := b2.NewClient(ctx, b2Cfg.AccountID, b2Cfg.ApplicationKey)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", storage.ErrAuthFailed)
	}

	// Get bucket
	bucket, err := client.Bucket(ctx, b2Cfg.BucketName)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "get bucket", err)
	}

	return NewWithBucket(cfg.Name, bucket, b2Cfg.Prefix), nil
}

// NewWithBucket creates a store on an existing bucket handle
func NewWithBucket(name string, bucket *b2.Bucket, prefix string) *Store {
	return &Store{
		name:   name,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *Store) Name() string { return s.name }
func (s *Store) Type() string { return "backblaze" }

// ReadLatest returns the most recent value of a parameter
func (s *Store) ReadLatest(ctx context.Context, name string) (*storage.Parameter, error) {
	return s.getObject(ctx, name, s.latestKey(name))
}

// Read returns a specific version of a parameter
func (s *Store) Read(ctx context.Context, name string, version string) (*storage.Parameter, error) {
	if storage.IsLatest(version) {
		return s.ReadLatest(ctx, name)
	}
	key := s.versionedKey(name, storage.EncodeVersion(version))
	return s.getObject(ctx, name, key)
}

func (s *Store) getObject(ctx context.Context, name, key string) (*storage.Parameter, error) {
	obj := s.bucket.Object(key)

	r := obj.NewReader(ctx)
	value, err := io.ReadAll(r)
	if err != nil {
		r.Close()
		return nil, storage.WrapError(s.name, "read", s.mapNotFound(err, key))
	}
	if err := r.Close(); err != nil {
		return nil, storage.WrapError(s.name, "read", err)
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, storage.WrapError(s.name, "read", err)
	}

	return &storage.Parameter{
		Name:    name,
		Value:   value,
		Version: storage.EncodeVersion(attrs.Info[storage.MetadataKeyVersion]),
		SHA256:  attrs.Info[storage.MetadataKeySHA256],
	}, nil
}

// LatestVersion returns the version number of the most recent value. The
// latest object's file info is authoritative; when it is gone the
// surviving history files are scanned instead.
func (s *Store) LatestVersion(ctx context.Context, name string) (string, error) {
	attrs, err := s.bucket.Object(s.latestKey(name)).Attrs(ctx)
	if err == nil {
		n, convErr := strconv.Atoi(attrs.Info[storage.MetadataKeyVersion])
		if convErr != nil {
			return "", storage.WrapError(s.name, "read version metadata", convErr)
		}
		return strconv.Itoa(n), nil
	}
	if !b2.IsNotExist(err) {
		return "", storage.WrapError(s.name, "stat", err)
	}

	highest, err := s.scanVersions(ctx, name)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(highest), nil
}

// Deploy uploads value as the new latest version of the parameter. The
// upload is skipped when the stored document is identical. Tags have no
// B2 equivalent and are ignored.
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
			Location:  s.location(s.latestKey(name)),
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

	info := map[string]string{
		storage.MetadataKeyVersion: next,
		storage.MetadataKeySHA256:  sha,
	}

	versionedKey := s.versionedKey(name, next)
	if err := s.putObject(ctx, versionedKey, value, info); err != nil {
		return nil, err
	}
	if err := s.putObject(ctx, s.latestKey(name), value, info); err != nil {
		return nil, err
	}

	return &storage.Deployment{
		Parameter: name,
		Version:   next,
		SHA256:    sha,
		Location:  s.location(versionedKey),
	}, nil
}

func (s *Store) putObject(ctx context.Context, key string, value []byte, info map[string]string) error {
	return storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		w := s.bucket.Object(key).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{
			ContentType: "application/json",
			Info:        info,
		}))
		if _, err := w.Write(value); err != nil {
			w.Close()
			return storage.WrapError(s.name, "upload", err)
		}
		if err := w.Close(); err != nil {
			return storage.WrapError(s.name, "upload", err)
		}
		return nil
	})
}

// Delete removes a parameter. Without includeHistory only the latest
// object goes away; history objects survive for recovery.
func (s *Store) Delete(ctx context.Context, name string, includeHistory bool) error {
	if includeHistory {
		return s.deletePrefix(ctx, s.paramDirKey(name))
	}

	if err := s.bucket.Object(s.latestKey(name)).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return storage.WrapError(s.name, "delete", err)
	}
	return nil
}

func (s *Store) deletePrefix(ctx context.Context, prefix string) error {
	iter := s.bucket.List(ctx, b2.ListPrefix(prefix))
	for iter.Next() {
		if err := iter.Object().Delete(ctx); err != nil {
			return storage.WrapError(s.name, "delete", err)
		}
	}
	if err := iter.Err(); err != nil {
		return storage.WrapError(s.name, "delete", err)
	}
	return nil
}

// Prune removes history objects beyond the keep newest versions
func (s *Store) Prune(ctx context.Context, name string, keep int) ([]string, error) {
	found, err := s.listVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	versions := make([]int, 0, len(found))
	for n := range found {
		versions = append(versions, n)
	}

	var removed []string
	for _, n := range storage.VersionsToPrune(versions, keep) {
		if err := found[n].Delete(ctx); err != nil {
			return removed, storage.WrapError(s.name, "prune", err)
		}
		removed = append(removed, s.location(found[n].Name()))
	}
	return removed, nil
}

// Close is a no-op for B2
func (s *Store) Close() error {
	return nil
}

// Helper functions

func (s *Store) latestKey(name string) string {
	return path.Join(s.prefix, name, name+"-latest.json")
}

func (s *Store) versionedKey(name, version string) string {
	return path.Join(s.prefix, name, name+"-"+storage.ZeroPadVersion(version)+".json")
}

func (s *Store) paramDirKey(name string) string {
	return path.Join(s.prefix, name) + "/"
}

func (s *Store) location(key string) string {
	return "b2://" + s.bucket.Name() + "/" + key
}

func (s *Store) mapNotFound(err error, key string) error {
	if b2.IsNotExist(err) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, s.location(key))
	}
	return err
}

func (s *Store) scanVersions(ctx context.Context, name string) (int, error) {
	found, err := s.listVersions(ctx, name)
	if err != nil {
		return 0, err
	}

	highest := 0
	for n := range found {
		if n > highest {
			highest = n
		}
	}

	if highest == 0 {
		return 0, storage.WrapError(s.name, "list", fmt.Errorf("%w: %s", storage.ErrNotFound, name))
	}
	return highest, nil
}

// listVersions maps every sequential history version to its object
func (s *Store) listVersions(ctx context.Context, name string) (map[int]*b2.Object, error) {
	found := map[int]*b2.Object{}
	iter := s.bucket.List(ctx, b2.ListPrefix(s.paramDirKey(name)))
	for iter.Next() {
		obj := iter.Object()
		stem := strings.TrimSuffix(path.Base(obj.Name()), ".json")
		idx := strings.LastIndex(stem, "-")
		if idx < 0 {
			continue
		}
		if n, err := strconv.Atoi(stem[idx+1:]); err == nil {
			found[n] = obj
		}
	}
	if err := iter.Err(); err != nil {
		return nil, storage.WrapError(s.name, "list", err)
	}
	return found, nil
}
