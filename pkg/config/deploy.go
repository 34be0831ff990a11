package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/williamokano/aws_config/pkg/deployment"
	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/s3uri"
	s3store "github.com/williamokano/aws_config/pkg/storage/s3"
	ssmstore "github.com/williamokano/aws_config/pkg/storage/ssm"
)

// DefaultMaxConcurrentDeploys bounds DeployAllEnvs when no limit is given.
const DefaultMaxConcurrentDeploys = 3

// Deployer bundles the stores a deployment writes to. S3 may be nil when
// only the parameter store is in play.
type Deployer struct {
	SSM *ssmstore.Store
	S3  *s3store.Store
}

// DeploymentResult reports what a DeployEnv call actually touched.
type DeploymentResult struct {
	Parameter   *ssmstore.Parameter
	S3Latest    s3uri.URI
	S3Versioned s3uri.URI
}

// SSMDeployed reports whether the SSM parameter was written.
func (r *DeploymentResult) SSMDeployed() bool { return r.Parameter != nil }

// S3Deployed reports whether the S3 backup objects were written.
func (r *DeploymentResult) S3Deployed() bool { return r.S3Latest.Bucket != "" }

// DeployEnv deploys one env's parameter, or the consolidated document
// for envs.All, to SSM and from there to the S3 backup. S3 is only
// written when the SSM parameter actually changed, and the objects are
// stamped with the version SSM assigned so both systems stay aligned.
func (c *Config) DeployEnv(ctx context.Context, dep Deployer, envName string, tags map[string]string) (*DeploymentResult, error) {
	if dep.SSM == nil {
		return nil, fmt.Errorf("deployer needs an SSM store")
	}

	name, data, err := c.EnvParameterData(envName)
	if err != nil {
		return nil, err
	}
	d := &deployment.Deployment{
		ParameterName: name,
		ParameterData: data,
		ProjectName:   c.ProjectName(),
		EnvName:       envName,
	}

	_, after, err := d.DeployToParameterStore(ctx, dep.SSM, tags)
	if err != nil {
		return nil, err
	}
	if after == nil {
		return &DeploymentResult{}, nil
	}

	result := &DeploymentResult{Parameter: after}
	if dep.S3 == nil {
		return result, nil
	}

	sha, err := d.SHA256()
	if err != nil {
		return nil, err
	}
	s3Tags := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		s3Tags[k] = v
	}
	s3Tags[envs.TagKeyConfigSHA256] = sha

	s3res, err := d.DeployToS3(ctx, dep.S3, strconv.FormatInt(after.Version, 10), s3Tags)
	if err != nil {
		return nil, err
	}
	result.S3Latest = s3res.Latest
	result.S3Versioned = s3res.Versioned
	return result, nil
}

// DeleteEnv removes one env's parameter from SSM. The S3 history is the
// backup of record and is only removed when includeS3 is set.
func (c *Config) DeleteEnv(ctx context.Context, dep Deployer, envName string, includeS3 bool) error {
	if dep.SSM == nil {
		return fmt.Errorf("deployer needs an SSM store")
	}
	if includeS3 && dep.S3 == nil {
		return fmt.Errorf("an S3 store must be provided when includeS3 is set")
	}

	name, err := c.EnvParameterName(envName)
	if err != nil {
		return err
	}
	d := &deployment.Deployment{
		ParameterName: name,
		ProjectName:   c.ProjectName(),
		EnvName:       envName,
	}

	if _, err := d.DeleteFromParameterStore(ctx, dep.SSM); err != nil {
		return err
	}
	if includeS3 {
		return d.DeleteFromS3(ctx, dep.S3, true)
	}
	return nil
}

// EnvResult pairs one env's deployment outcome with its error.
type EnvResult struct {
	EnvName string
	Result  *DeploymentResult
	Err     error
}

// DeployAllEnvs deploys every env section plus the consolidated document
// in parallel with concurrency control via semaphore.
func (c *Config) DeployAllEnvs(ctx context.Context, dep Deployer, tags map[string]string, maxConcurrent int, logger zerolog.Logger) ([]EnvResult, error) {
	envNames := append(c.EnvNames(), envs.All)

	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentDeploys
	}
	logger.Info().
		Int("total_envs", len(envNames)).
		Int("max_concurrent", maxConcurrent).
		Msg("starting parallel config deployment")

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	g, gCtx := errgroup.WithContext(ctx)
	resultsChan := make(chan EnvResult, len(envNames))

	for _, envName := range envNames {
		envName := envName

		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return fmt.Errorf("failed to acquire semaphore: %w", err)
			}
			defer sem.Release(1)

			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			result, err := c.DeployEnv(gCtx, dep, envName, tags)
			resultsChan <- EnvResult{EnvName: envName, Result: result, Err: err}
			if err != nil {
				return fmt.Errorf("deploy failed for env %s: %w", envName, err)
			}
			return nil
		})
	}

	waitErr := g.Wait()
	close(resultsChan)

	var results []EnvResult
	for result := range resultsChan {
		results = append(results, result)
	}

	deployed := 0
	skipped := 0
	failed := 0
	for _, result := range results {
		switch {
		case result.Err != nil:
			failed++
		case result.Result.SSMDeployed():
			deployed++
		default:
			skipped++
		}
	}
	logger.Info().
		Int("deployed", deployed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("parallel config deployment completed")

	return results, waitErr
}
