package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/williamokano/aws_config/pkg/config"
	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/logger"
	"github.com/williamokano/aws_config/pkg/storage"
	s3store "github.com/williamokano/aws_config/pkg/storage/s3"
	ssmstore "github.com/williamokano/aws_config/pkg/storage/ssm"
)

// NewRootCommand builds the aws_config command tree.
func NewRootCommand() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:           "aws_config",
		Short:         "Manage typed app configuration in SSM Parameter Store and S3",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel, logFormat)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "json", "Log format (json or console)")

	cmd.AddCommand(
		newValidateCommand(),
		newShowCommand(),
		newEnvCommand(),
		newDeployCommand(),
		newReadCommand(),
		newDeleteCommand(),
		newPruneCommand(),
		newLintChangelogCommand(),
	)
	return cmd
}

// configOptions locate and load the configuration documents.
type configOptions struct {
	configFile string
	secretFile string
	envNames   []string
}

func (o *configOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.configFile, "config", "c", "config.json", "Config document file")
	flags.StringVarP(&o.secretFile, "secret", "s", "", "Secret config document file")
	flags.StringSliceVar(&o.envNames, "envs", envNameStrings(envs.BuiltinNames()), "Declared environment names")
}

func (o *configOptions) load() (*config.Config, error) {
	declared, err := envs.ParseNames(o.envNames)
	if err != nil {
		return nil, err
	}
	return config.LoadFile(o.configFile, o.secretFile, declared, "")
}

func envNameStrings(n envs.Names) []string {
	out := make([]string, len(n))
	for i, name := range n {
		out[i] = string(name)
	}
	return out
}

// awsOptions build the AWS-backed stores.
type awsOptions struct {
	region    string
	endpoint  string
	pathStyle bool
	s3URI     string
}

func (o *awsOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.region, "region", "", "AWS region")
	flags.StringVar(&o.endpoint, "endpoint", "", "AWS endpoint override, e.g. a LocalStack URL")
	flags.BoolVar(&o.pathStyle, "path-style", false, "Use path-style S3 addressing")
	flags.StringVar(&o.s3URI, "s3uri", "", "S3 config directory for the deploy history, e.g. s3://bucket/config/")
}

func (o *awsOptions) ssmStore(ctx context.Context) (*ssmstore.Store, error) {
	return ssmstore.New(ctx, storage.Config{
		Name:    "ssm",
		Type:    "ssm",
		Enabled: true,
		Options: map[string]interface{}{
			"region":   o.region,
			"endpoint": o.endpoint,
		},
	})
}

// s3Store returns nil when no S3 config directory is set.
func (o *awsOptions) s3Store(ctx context.Context) (*s3store.Store, error) {
	if o.s3URI == "" {
		return nil, nil
	}
	return s3store.New(ctx, storage.Config{
		Name:    "s3",
		Type:    "s3",
		Enabled: true,
		Options: map[string]interface{}{
			"s3uri":            o.s3URI,
			"region":           o.region,
			"endpoint":         o.endpoint,
			"force_path_style": o.pathStyle,
		},
	})
}
