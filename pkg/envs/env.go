package envs

import (
	"github.com/williamokano/aws_config/pkg/naming"
	"github.com/williamokano/aws_config/pkg/s3uri"
)

// AWS resource tag keys applied by this library. Namespaced so deployments
// never collide with tags owned by the application.
const (
	TagKeyProjectName  = "aws_config:project_name"
	TagKeyEnvName      = "aws_config:env_name"
	TagKeyConfigSHA256 = "aws_config:config_sha256"
)

// Core carries the values every environment has. Applications embed it in
// their own environment struct and add typed fields on top:
//
//	type Env struct {
//		envs.Core
//		Username string `json:"username"`
//		Password string `json:"password"`
//	}
type Core struct {
	ProjectName    string `json:"project_name"`
	EnvName        string `json:"env_name"`
	S3URIData      string `json:"s3uri_data,omitempty"`
	S3URIArtifacts string `json:"s3uri_artifacts,omitempty"`
}

// Validate checks the project and environment names.
func (c Core) Validate() error {
	if err := naming.ValidateProjectName(c.ProjectName); err != nil {
		return err
	}
	return ValidateEnvName(c.EnvName)
}

// ProjectNameSnake returns the project name in under_score form.
func (c Core) ProjectNameSnake() string {
	return naming.Snakeify(c.ProjectName)
}

// ProjectNameSlug returns the project name in hyphen-case form.
func (c Core) ProjectNameSlug() string {
	return naming.Slugify(c.ProjectName)
}

// PrefixNameSnake is the common "{project}-{env}" resource name prefix,
// snake project name: "my_app-dev".
func (c Core) PrefixNameSnake() string {
	return c.ProjectNameSnake() + "-" + c.EnvName
}

// PrefixNameSlug is the slug form of the resource name prefix: "my-app-dev".
func (c Core) PrefixNameSlug() string {
	return c.ProjectNameSlug() + "-" + c.EnvName
}

// ParameterName is the SSM Parameter Store name holding this environment's
// configuration.
func (c Core) ParameterName() string {
	return naming.NormalizeParameterName(c.PrefixNameSnake())
}

// S3DirEnvData is the environment's data directory.
func (c Core) S3DirEnvData() (s3uri.URI, error) {
	u, err := s3uri.Parse(c.S3URIData)
	if err != nil {
		return s3uri.URI{}, err
	}
	return u.ToDir(), nil
}

// S3DirEnvArtifacts is the environment's artifacts directory.
func (c Core) S3DirEnvArtifacts() (s3uri.URI, error) {
	u, err := s3uri.Parse(c.S3URIArtifacts)
	if err != nil {
		return s3uri.URI{}, err
	}
	return u.ToDir(), nil
}

// S3DirTmpArtifacts holds short-lived build artifacts under the artifacts dir.
func (c Core) S3DirTmpArtifacts() (s3uri.URI, error) {
	dir, err := c.S3DirEnvArtifacts()
	if err != nil {
		return s3uri.URI{}, err
	}
	return dir.Join("tmp/"), nil
}

// S3DirConfigArtifacts holds deployed config snapshots under the artifacts dir.
func (c Core) S3DirConfigArtifacts() (s3uri.URI, error) {
	dir, err := c.S3DirEnvArtifacts()
	if err != nil {
		return s3uri.URI{}, err
	}
	return dir.Join("config/"), nil
}

// EnvVars returns the environment variables describing this environment,
// typically injected into child processes or task definitions.
func (c Core) EnvVars() map[string]string {
	return map[string]string{
		EnvVarProjectName:   c.ProjectName,
		EnvVarEnvName:       c.EnvName,
		EnvVarParameterName: c.ParameterName(),
	}
}

// WorkloadAwsTags returns the tags for AWS resources belonging to this
// environment's workload.
func (c Core) WorkloadAwsTags() map[string]string {
	return map[string]string{
		TagKeyProjectName: c.ProjectName,
		TagKeyEnvName:     c.EnvName,
	}
}

// DevOpsAwsTags returns the tags for shared AWS resources (CI, artifact
// stores) that serve every environment of the project.
func (c Core) DevOpsAwsTags() map[string]string {
	return map[string]string{
		TagKeyProjectName: c.ProjectName,
		TagKeyEnvName:     string(EnvDevOps),
	}
}

// CloudFormationStackName is the stack name for this environment.
// CloudFormation forbids underscores, so the slug prefix is used.
func (c Core) CloudFormationStackName() string {
	return c.PrefixNameSlug()
}
