package ssm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/williamokano/aws_config/pkg/storage"
)

// API is the subset of the SSM client used by the store
type API interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
	AddTagsToResource(ctx context.Context, params *ssm.AddTagsToResourceInput, optFns ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error)
}

// Parameter mirrors one version of an SSM parameter
type Parameter struct {
	Name    string
	Value   string
	Version int64
	ARN     string
}

// Store keeps parameters in AWS SSM Parameter Store. Values are written
// as SecureString by default and versions are the sequential numbers SSM
// assigns on every overwrite.
type Store struct {
	name   string
	client API
	keyID  string
	tier   types.ParameterTier
	secure bool
}

func init() {
	storage.RegisterStore("ssm", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return New(ctx, cfg)
	})
}

// New creates a new SSM store
func New(ctx context.Context, cfg storage.Config) (*Store, error) {
	// Extract SSM config from options
	ssmCfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	// Build AWS config
	loadOpts := []func(*config.LoadOptions) error{}
	if ssmCfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(ssmCfg.Region))
	}
	if ssmCfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				ssmCfg.AccessKeyID,
				ssmCfg.SecretAccessKey,
				"",
			),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	// Create SSM client
	client := ssm.NewFromConfig(awsCfg, func(o *ssm.Options) {
		if ssmCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(ssmCfg.Endpoint)
		}
	})

	var tier types.ParameterTier
	if ssmCfg.Tier != "" {
		tier, _ = parseTier(ssmCfg.Tier)
	}

	return &Store{
		name:   cfg.Name,
		client: client,
		keyID:  ssmCfg.KeyID,
		tier:   tier,
		secure: ssmCfg.Secure,
	}, nil
}

// NewWithClient creates a store on an existing client
func NewWithClient(name string, client API, secure bool) *Store {
	return &Store{
		name:   name,
		client: client,
		secure: secure,
	}
}

func (s *Store) Name() string { return s.name }
func (s *Store) Type() string { return "ssm" }

// Get returns the current state of a parameter
func (s *Store) Get(ctx context.Context, name string) (*Parameter, error) {
	return s.get(ctx, name)
}

func (s *Store) get(ctx context.Context, selector string) (*Parameter, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(selector),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return nil, storage.WrapError(s.name, "get", fmt.Errorf("%w: %s", storage.ErrNotFound, selector))
		}
		var notFoundVersion *types.ParameterVersionNotFound
		if errors.As(err, &notFoundVersion) {
			return nil, storage.WrapError(s.name, "get", fmt.Errorf("%w: %s", storage.ErrNotFound, selector))
		}
		return nil, storage.WrapError(s.name, "get", err)
	}

	return &Parameter{
		Name:    aws.ToString(out.Parameter.Name),
		Value:   aws.ToString(out.Parameter.Value),
		Version: out.Parameter.Version,
		ARN:     aws.ToString(out.Parameter.ARN),
	}, nil
}

// PutIfChanged writes value unless the stored value is identical and
// returns the parameter state before and after. Before is nil when the
// parameter did not exist; after is nil when the write was skipped.
//
// Tags ride along on create. On overwrite they go through
// AddTagsToResource in a second call, since PutParameter rejects
// Overwrite and Tags together.
func (s *Store) PutIfChanged(ctx context.Context, name, value string, tags map[string]string) (before, after *Parameter, err error) {
	before, err = s.get(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, nil, err
		}
		before = nil
	}

	if before != nil && before.Value == value {
		return before, nil, nil
	}

	input := &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      s.parameterType(),
		Overwrite: aws.Bool(before != nil),
	}
	if s.keyID != "" {
		input.KeyId = aws.String(s.keyID)
	}
	if s.tier != "" {
		input.Tier = s.tier
	}
	if before == nil && len(tags) > 0 {
		input.Tags = awsTags(tags)
	}

	out, err := s.client.PutParameter(ctx, input)
	if err != nil {
		return before, nil, storage.WrapError(s.name, "put", err)
	}

	if before != nil && len(tags) > 0 {
		_, err = s.client.AddTagsToResource(ctx, &ssm.AddTagsToResourceInput{
			ResourceType: types.ResourceTypeForTaggingParameter,
			ResourceId:   aws.String(name),
			Tags:         awsTags(tags),
		})
		if err != nil {
			return before, nil, storage.WrapError(s.name, "tag", err)
		}
	}

	after = &Parameter{
		Name:    name,
		Value:   value,
		Version: out.Version,
	}
	return before, after, nil
}

// ReadLatest returns the most recent value of a parameter
func (s *Store) ReadLatest(ctx context.Context, name string) (*storage.Parameter, error) {
	param, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	return toStorageParameter(param), nil
}

// Read returns a specific version of a parameter using the "name:version"
// selector syntax SSM understands natively
func (s *Store) Read(ctx context.Context, name string, version string) (*storage.Parameter, error) {
	if storage.IsLatest(version) {
		return s.ReadLatest(ctx, name)
	}
	param, err := s.get(ctx, name+":"+storage.EncodeVersion(version))
	if err != nil {
		return nil, err
	}
	param.Name = name
	return toStorageParameter(param), nil
}

// LatestVersion returns the version number of the most recent value
func (s *Store) LatestVersion(ctx context.Context, name string) (string, error) {
	param, err := s.get(ctx, name)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(param.Version, 10), nil
}

// Deploy writes value as the new latest version of the parameter
func (s *Store) Deploy(ctx context.Context, name string, value []byte, tags map[string]string) (*storage.Deployment, error) {
	sha, err := storage.SHA256OfJSON(value)
	if err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	before, after, err := s.PutIfChanged(ctx, name, string(value), tags)
	if err != nil {
		return nil, err
	}

	if after == nil {
		return &storage.Deployment{
			Parameter: name,
			Version:   strconv.FormatInt(before.Version, 10),
			SHA256:    sha,
			Location:  name,
			Skipped:   true,
		}, nil
	}

	return &storage.Deployment{
		Parameter: name,
		Version:   strconv.FormatInt(after.Version, 10),
		SHA256:    sha,
		Location:  name,
	}, nil
}

// Delete removes a parameter. SSM always drops the whole version history,
// so includeHistory makes no difference here.
func (s *Store) Delete(ctx context.Context, name string, includeHistory bool) error {
	_, err := s.client.DeleteParameter(ctx, &ssm.DeleteParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return storage.WrapError(s.name, "delete", fmt.Errorf("%w: %s", storage.ErrNotFound, name))
		}
		return storage.WrapError(s.name, "delete", err)
	}
	return nil
}

// Close is a no-op for SSM
func (s *Store) Close() error {
	return nil
}

func (s *Store) parameterType() types.ParameterType {
	if s.secure {
		return types.ParameterTypeSecureString
	}
	return types.ParameterTypeString
}

func toStorageParameter(param *Parameter) *storage.Parameter {
	return &storage.Parameter{
		Name:    param.Name,
		Value:   []byte(param.Value),
		Version: strconv.FormatInt(param.Version, 10),
		SHA256:  storage.SHA256OfText(param.Value),
	}
}

func awsTags(tags map[string]string) []types.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(tags))
	for _, k := range keys {
		out = append(out, types.Tag{
			Key:   aws.String(k),
			Value: aws.String(tags[k]),
		})
	}
	return out
}
