package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/williamokano/aws_config/pkg/s3uri"
	"github.com/williamokano/aws_config/pkg/storage"
)

// VersionStatus is the versioning state of the backing bucket
type VersionStatus string

const (
	VersionNotEnabled VersionStatus = "NotEnabled"
	VersionEnabled    VersionStatus = "Enabled"
	VersionSuspended  VersionStatus = "Suspended"
)

// API is the subset of the S3 client used by the store
type API interface {
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
}

// Store keeps parameters as JSON objects under a config directory in S3.
//
// For buckets with versioning enabled a parameter is a single object
// "{dir}/{name}.json" and versions are native S3 version ids. For buckets
// without versioning the store keeps its own history:
//
//	{dir}/{name}/{name}-latest.json
//	{dir}/{name}/{name}-000001.json
//	{dir}/{name}/{name}-000002.json
//
// with sequential integer versions carried in object metadata.
type Store struct {
	name   string
	client API
	dir    s3uri.URI
	status VersionStatus
}

func init() {
	storage.RegisterStore("s3", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return New(ctx, cfg)
	})
}

// New creates a new S3 store
func New(ctx context.Context, cfg storage.Config) (*Store, error) {
	// Extract S3 config from options
	s3Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	dir, err := s3uri.Parse(s3Cfg.S3URI)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	// Build AWS config
	loadOpts := []func(*config.LoadOptions) error{}
	if s3Cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s3Cfg.Region))
	}
	if s3Cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3Cfg.AccessKeyID,
				s3Cfg.SecretAccessKey,
				"",
			),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	// Create S3 client
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Cfg.Endpoint)
		}
		o.UsePathStyle = s3Cfg.ForcePathStyle
	})

	return NewWithClient(ctx, cfg.Name, client, dir)
}

// NewWithClient creates a store on an existing client. The bucket's
// versioning status is resolved once here; suspended versioning is
// rejected because it mixes versioned and unversioned objects in a way
// the store cannot track reliably.
func NewWithClient(ctx context.Context, name string, client API, dir s3uri.URI) (*Store, error) {
	dir = dir.ToDir()

	out, err := client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(dir.Bucket),
	})
	if err != nil {
		return nil, storage.WrapError(name, "get bucket versioning", fmt.Errorf("%w: %v", storage.ErrConnFailed, err))
	}

	status := versionStatusOf(out.Status)
	if status == VersionSuspended {
		return nil, storage.WrapError(name, "init", fmt.Errorf("%w: bucket %q", storage.ErrVersioningSuspended, dir.Bucket))
	}

	return &Store{
		name:   name,
		client: client,
		dir:    dir,
		status: status,
	}, nil
}

func (s *Store) Name() string { return s.name }
func (s *Store) Type() string { return "s3" }

// VersionStatus returns the versioning state of the backing bucket
func (s *Store) VersionStatus() VersionStatus { return s.status }

func (s *Store) versionEnabled() bool { return s.status == VersionEnabled }

// LatestURI returns the S3 URI holding the parameter's latest value
func (s *Store) LatestURI(name string) s3uri.URI {
	return s3uri.URI{Bucket: s.dir.Bucket, Key: s.latestKey(name)}
}

// ReadLatest returns the most recent value of a parameter
func (s *Store) ReadLatest(ctx context.Context, name string) (*storage.Parameter, error) {
	return s.getObject(ctx, name, s.latestKey(name), "")
}

// Read returns a specific version of a parameter
func (s *Store) Read(ctx context.Context, name string, version string) (*storage.Parameter, error) {
	if storage.IsLatest(version) {
		return s.ReadLatest(ctx, name)
	}
	if s.versionEnabled() {
		// Native version ids address the single latest object
		return s.getObject(ctx, name, s.latestKey(name), version)
	}
	key := s.versionedKey(name, storage.EncodeVersion(version))
	return s.getObject(ctx, name, key, "")
}

func (s *Store) getObject(ctx context.Context, name, key, versionID string) (*storage.Parameter, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.dir.Bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, storage.WrapError(s.name, "read", mapNotFound(err, s.uri(key)))
	}
	defer out.Body.Close()

	value, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storage.WrapError(s.name, "read", err)
	}

	version := versionID
	if version == "" {
		if s.versionEnabled() {
			version = aws.ToString(out.VersionId)
		} else {
			version = out.Metadata[storage.MetadataKeyVersion]
		}
	}

	return &storage.Parameter{
		Name:    name,
		Value:   value,
		Version: storage.EncodeVersion(version),
		SHA256:  out.Metadata[storage.MetadataKeySHA256],
	}, nil
}

// LatestVersion returns the version label of the most recent value
func (s *Store) LatestVersion(ctx context.Context, name string) (string, error) {
	if s.versionEnabled() {
		return s.latestNativeVersion(ctx, name)
	}
	n, err := s.latestFileVersion(ctx, name)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}

// latestNativeVersion resolves the newest version id of the parameter
// object, skipping a delete marker left by a soft delete.
func (s *Store) latestNativeVersion(ctx context.Context, name string) (string, error) {
	key := s.latestKey(name)

	out, err := s.client.ListObjectVersions(ctx, &s3.ListObjectVersionsInput{
		Bucket: aws.String(s.dir.Bucket),
		Prefix: aws.String(key),
	})
	if err != nil {
		return "", storage.WrapError(s.name, "list versions", err)
	}

	markerIsLatest := false
	for _, marker := range out.DeleteMarkers {
		if aws.ToString(marker.Key) == key && aws.ToBool(marker.IsLatest) {
			markerIsLatest = true
			break
		}
	}

	for _, version := range out.Versions {
		if aws.ToString(version.Key) != key {
			continue
		}
		// Versions are listed newest first; after a soft delete the
		// newest real version is the one the delete marker hides.
		if markerIsLatest || aws.ToBool(version.IsLatest) {
			return aws.ToString(version.VersionId), nil
		}
	}

	return "", storage.WrapError(s.name, "list versions", fmt.Errorf("%w: %s", storage.ErrNotFound, s.uri(key)))
}

// latestFileVersion resolves the newest sequential version for buckets
// without native versioning. The latest object's metadata is authoritative;
// when it is gone the surviving history files are scanned instead.
func (s *Store) latestFileVersion(ctx context.Context, name string) (int, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.dir.Bucket),
		Key:    aws.String(s.latestKey(name)),
	})
	if err == nil {
		n, convErr := strconv.Atoi(head.Metadata[storage.MetadataKeyVersion])
		if convErr != nil {
			return 0, storage.WrapError(s.name, "read version metadata", convErr)
		}
		return n, nil
	}
	if !isNotFound(err) {
		return 0, storage.WrapError(s.name, "stat", err)
	}

	highest := 0
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.dir.Bucket),
		Prefix: aws.String(s.paramDirKey(name)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, storage.WrapError(s.name, "list", err)
		}
		for _, obj := range page.Contents {
			if n, ok := parseObjectVersion(aws.ToString(obj.Key)); ok && n > highest {
				highest = n
			}
		}
	}

	if highest == 0 {
		return 0, storage.WrapError(s.name, "list", fmt.Errorf("%w: %s", storage.ErrNotFound, s.uri(s.latestKey(name))))
	}
	return highest, nil
}

// Deploy writes value as the new latest version of the parameter. The
// write is skipped when the stored document is identical.
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
			Location:  s.LatestURI(name).String(),
			Skipped:   true,
		}, nil
	}

	if s.versionEnabled() {
		return s.deployNativeVersion(ctx, name, value, sha, tags)
	}
	next, err := s.nextFileVersion(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.deployFileVersion(ctx, name, value, sha, next, tags)
}

// WriteVersion uploads a parameter object under the caller's version and
// refreshes the latest object, without the unchanged-value check Deploy
// performs. Deployment pipelines use it to stamp the history with a
// version another system assigned. In a version-enabled bucket the bucket
// mints its own id and the supplied version is ignored; a latest or empty
// version falls back to the next sequential one.
func (s *Store) WriteVersion(ctx context.Context, name string, value []byte, version string, tags map[string]string) (*storage.Deployment, error) {
	sha, err := storage.SHA256OfJSON(value)
	if err != nil {
		return nil, storage.WrapError(s.name, "write", err)
	}
	if s.versionEnabled() {
		return s.deployNativeVersion(ctx, name, value, sha, tags)
	}
	if storage.IsLatest(version) {
		if version, err = s.nextFileVersion(ctx, name); err != nil {
			return nil, err
		}
	} else {
		version = storage.EncodeVersion(version)
	}
	return s.deployFileVersion(ctx, name, value, sha, version, tags)
}

// deployNativeVersion overwrites the single parameter object and lets the
// bucket mint the new version id.
func (s *Store) deployNativeVersion(ctx context.Context, name string, value []byte, sha string, tags map[string]string) (*storage.Deployment, error) {
	key := s.latestKey(name)

	var out *s3.PutObjectOutput
	err := storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		var putErr error
		out, putErr = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.dir.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(value),
			ContentType: aws.String("application/json"),
			Metadata: map[string]string{
				storage.MetadataKeySHA256: sha,
			},
			Tagging: tagging(tags),
		})
		if putErr != nil {
			return storage.WrapError(s.name, "deploy", putErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &storage.Deployment{
		Parameter: name,
		Version:   aws.ToString(out.VersionId),
		SHA256:    sha,
		Location:  s.uri(key).String(),
	}, nil
}

// nextFileVersion returns the sequential version a new deploy should use.
func (s *Store) nextFileVersion(ctx context.Context, name string) (string, error) {
	current, err := s.latestFileVersion(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}
	return strconv.Itoa(current + 1), nil
}

// deployFileVersion writes the history object for the given version and
// then copies it over the latest object, so history is complete even if
// the copy fails.
func (s *Store) deployFileVersion(ctx context.Context, name string, value []byte, sha, version string, tags map[string]string) (*storage.Deployment, error) {
	versionedKey := s.versionedKey(name, version)
	err := storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		_, putErr := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.dir.Bucket),
			Key:         aws.String(versionedKey),
			Body:        bytes.NewReader(value),
			ContentType: aws.String("application/json"),
			Metadata: map[string]string{
				storage.MetadataKeyVersion: version,
				storage.MetadataKeySHA256:  sha,
			},
			Tagging: tagging(tags),
		})
		if putErr != nil {
			return storage.WrapError(s.name, "deploy", putErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, err = s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.dir.Bucket),
		Key:        aws.String(s.latestKey(name)),
		CopySource: aws.String(url.QueryEscape(s.dir.Bucket + "/" + versionedKey)),
	})
	if err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	return &storage.Deployment{
		Parameter: name,
		Version:   version,
		SHA256:    sha,
		Location:  s.uri(versionedKey).String(),
	}, nil
}

// Delete removes a parameter. Without includeHistory a versioned bucket
// gets a delete marker and an unversioned bucket loses only the latest
// object; with includeHistory every version is removed permanently.
func (s *Store) Delete(ctx context.Context, name string, includeHistory bool) error {
	if s.versionEnabled() {
		if includeHistory {
			return s.deleteAllVersions(ctx, s.latestKey(name))
		}
		return s.deleteObject(ctx, s.latestKey(name))
	}

	if includeHistory {
		return s.deletePrefix(ctx, s.paramDirKey(name))
	}
	return s.deleteObject(ctx, s.latestKey(name))
}

func (s *Store) deleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.dir.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storage.WrapError(s.name, "delete", err)
	}
	return nil
}

func (s *Store) deleteAllVersions(ctx context.Context, key string) error {
	// ListObjectVersions has no generated paginator, so follow the
	// key/version markers by hand.
	input := &s3.ListObjectVersionsInput{
		Bucket: aws.String(s.dir.Bucket),
		Prefix: aws.String(key),
	}

	for {
		page, err := s.client.ListObjectVersions(ctx, input)
		if err != nil {
			return storage.WrapError(s.name, "delete", err)
		}

		var objects []types.ObjectIdentifier
		for _, version := range page.Versions {
			if aws.ToString(version.Key) != key {
				continue
			}
			objects = append(objects, types.ObjectIdentifier{
				Key:       version.Key,
				VersionId: version.VersionId,
			})
		}
		for _, marker := range page.DeleteMarkers {
			if aws.ToString(marker.Key) != key {
				continue
			}
			objects = append(objects, types.ObjectIdentifier{
				Key:       marker.Key,
				VersionId: marker.VersionId,
			})
		}

		if err := s.deleteBatch(ctx, objects); err != nil {
			return err
		}

		if !aws.ToBool(page.IsTruncated) {
			return nil
		}
		input.KeyMarker = page.NextKeyMarker
		input.VersionIdMarker = page.NextVersionIdMarker
	}
}

func (s *Store) deletePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.dir.Bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return storage.WrapError(s.name, "delete", err)
		}

		var objects []types.ObjectIdentifier
		for _, obj := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}

		if err := s.deleteBatch(ctx, objects); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) deleteBatch(ctx context.Context, objects []types.ObjectIdentifier) error {
	if len(objects) == 0 {
		return nil
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.dir.Bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return storage.WrapError(s.name, "delete", err)
	}
	return nil
}

// Prune removes history objects beyond the keep newest versions. Buckets
// with native versioning are excluded; lifecycle rules own their history.
func (s *Store) Prune(ctx context.Context, name string, keep int) ([]string, error) {
	if s.versionEnabled() {
		return nil, storage.WrapError(s.name, "prune", fmt.Errorf("native bucket versioning is pruned by lifecycle rules"))
	}

	keyByVersion := map[int]string{}
	var versions []int
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.dir.Bucket),
		Prefix: aws.String(s.paramDirKey(name)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.WrapError(s.name, "prune", err)
		}
		for _, obj := range page.Contents {
			if n, ok := parseObjectVersion(aws.ToString(obj.Key)); ok {
				keyByVersion[n] = aws.ToString(obj.Key)
				versions = append(versions, n)
			}
		}
	}

	drop := storage.VersionsToPrune(versions, keep)
	if len(drop) == 0 {
		return nil, nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(drop))
	removed := make([]string, 0, len(drop))
	for _, n := range drop {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(keyByVersion[n])})
		removed = append(removed, s.uri(keyByVersion[n]).String())
	}
	if err := s.deleteBatch(ctx, objects); err != nil {
		return nil, err
	}
	return removed, nil
}

// Close is a no-op for S3
func (s *Store) Close() error {
	return nil
}

// Helper functions

func (s *Store) latestKey(name string) string {
	if s.versionEnabled() {
		return s.dir.Join(name + ".json").Key
	}
	return s.dir.Join(name, name+"-latest.json").Key
}

func (s *Store) versionedKey(name, version string) string {
	basename := name + "-" + storage.ZeroPadVersion(version) + ".json"
	return s.dir.Join(name, basename).Key
}

func (s *Store) paramDirKey(name string) string {
	return s.dir.Join(name + "/").Key
}

func (s *Store) uri(key string) s3uri.URI {
	return s3uri.URI{Bucket: s.dir.Bucket, Key: key}
}

func versionStatusOf(status types.BucketVersioningStatus) VersionStatus {
	switch status {
	case types.BucketVersioningStatusEnabled:
		return VersionEnabled
	case types.BucketVersioningStatusSuspended:
		return VersionSuspended
	default:
		return VersionNotEnabled
	}
}

// parseObjectVersion extracts the sequential version from a history object
// key such as "config/my_app-dev/my_app-dev-000042.json".
func parseObjectVersion(key string) (int, bool) {
	stem := strings.TrimSuffix(path.Base(key), ".json")
	idx := strings.LastIndex(stem, "-")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(stem[idx+1:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func tagging(tags map[string]string) *string {
	if len(tags) == 0 {
		return nil
	}
	values := url.Values{}
	for k, v := range tags {
		values.Set(k, v)
	}
	return aws.String(values.Encode())
}

func mapNotFound(err error, uri s3uri.URI) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, uri)
	}
	return err
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
