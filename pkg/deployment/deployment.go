package deployment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/s3uri"
	"github.com/williamokano/aws_config/pkg/storage"
	s3store "github.com/williamokano/aws_config/pkg/storage/s3"
	ssmstore "github.com/williamokano/aws_config/pkg/storage/ssm"
)

// Deployment encapsulates one parameter deployment as a command object,
// so the same name, payload and tags flow to both the parameter store
// and the S3 backup.
type Deployment struct {
	ParameterName string
	ParameterData map[string]interface{}
	ProjectName   string
	EnvName       string
}

// Value returns the payload serialized as JSON.
func (d *Deployment) Value() ([]byte, error) {
	value, err := json.Marshal(d.ParameterData)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize parameter data: %w", err)
	}
	return value, nil
}

// SHA256 returns the checksum of the serialized payload.
func (d *Deployment) SHA256() (string, error) {
	value, err := d.Value()
	if err != nil {
		return "", err
	}
	return storage.SHA256OfJSON(value)
}

// resourceTags merges extra tags under the tags every deployed parameter
// carries. The aws_config tags win on conflict.
func (d *Deployment) resourceTags(extra map[string]string, sha string) map[string]string {
	tags := make(map[string]string, len(extra)+3)
	for k, v := range extra {
		tags[k] = v
	}
	tags[envs.TagKeyProjectName] = d.ProjectName
	tags[envs.TagKeyEnvName] = d.EnvName
	if sha != "" {
		tags[envs.TagKeyConfigSHA256] = sha
	}
	return tags
}

// DeployToParameterStore writes the payload to SSM unless the stored
// value is already identical, and returns the parameter state before and
// after. After is nil when nothing changed.
func (d *Deployment) DeployToParameterStore(ctx context.Context, store *ssmstore.Store, tags map[string]string) (before, after *ssmstore.Parameter, err error) {
	value, err := d.Value()
	if err != nil {
		return nil, nil, err
	}
	sha, err := storage.SHA256OfJSON(value)
	if err != nil {
		return nil, nil, err
	}
	return store.PutIfChanged(ctx, d.ParameterName, string(value), d.resourceTags(tags, sha))
}

// S3Result reports where a deployment landed in S3.
type S3Result struct {
	Latest    s3uri.URI
	Versioned s3uri.URI
	Version   string
}

// DeployToS3 writes the payload to the S3 backup under the given
// version, typically the one SSM assigned. In a version-enabled bucket
// both locations are the same object and the bucket mints the version.
func (d *Deployment) DeployToS3(ctx context.Context, store *s3store.Store, version string, tags map[string]string) (*S3Result, error) {
	value, err := d.Value()
	if err != nil {
		return nil, err
	}
	deployed, err := store.WriteVersion(ctx, d.ParameterName, value, version, d.resourceTags(tags, ""))
	if err != nil {
		return nil, err
	}
	return &S3Result{
		Latest:    store.LatestURI(d.ParameterName),
		Versioned: s3uri.MustParse(deployed.Location),
		Version:   deployed.Version,
	}, nil
}

// DeleteFromParameterStore removes the parameter from SSM and reports
// whether it existed.
func (d *Deployment) DeleteFromParameterStore(ctx context.Context, store *ssmstore.Store) (bool, error) {
	err := store.Delete(ctx, d.ParameterName, true)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFromS3 removes the latest S3 object, or the whole history when
// includeHistory is set. S3 is the backup of record, so history removal
// is opt-in.
func (d *Deployment) DeleteFromS3(ctx context.Context, store *s3store.Store, includeHistory bool) error {
	return store.Delete(ctx, d.ParameterName, includeHistory)
}
