package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/config"
	"github.com/williamokano/aws_config/pkg/logger"
)

type deployOptions struct {
	configOptions
	awsOptions
	env           string
	all           bool
	tags          map[string]string
	maxConcurrent int
}

func newDeployCommand() *cobra.Command {
	opts := &deployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy configuration to SSM Parameter Store and the S3 history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.all == (opts.env != "") {
				return fmt.Errorf("exactly one of --env or --all is required")
			}
			return runDeploy(cmd, opts)
		},
	}
	opts.configOptions.addFlags(cmd.Flags())
	opts.awsOptions.addFlags(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVarP(&opts.env, "env", "e", "", "Environment to deploy, or \"all\" for the consolidated parameter")
	flags.BoolVar(&opts.all, "all", false, "Deploy every declared env plus the consolidated parameter")
	flags.StringToStringVar(&opts.tags, "tag", nil, "Extra resource tags as key=value")
	flags.IntVar(&opts.maxConcurrent, "max-concurrent", config.DefaultMaxConcurrentDeploys, "Parallel deploys with --all")
	return cmd
}

func runDeploy(cmd *cobra.Command, opts *deployOptions) error {
	ctx := cmd.Context()
	log := logger.Get()

	cfg, err := opts.load()
	if err != nil {
		return err
	}

	ssm, err := opts.ssmStore(ctx)
	if err != nil {
		return err
	}
	defer ssm.Close()

	s3, err := opts.s3Store(ctx)
	if err != nil {
		return err
	}
	if s3 != nil {
		defer s3.Close()
	}

	dep := config.Deployer{SSM: ssm, S3: s3}

	if opts.all {
		results, err := cfg.DeployAllEnvs(ctx, dep, opts.tags, opts.maxConcurrent, *log)
		for _, result := range results {
			if result.Err != nil {
				log.Error().Str("env", result.EnvName).Err(result.Err).Msg("deploy failed")
				continue
			}
			logDeployResult(log, result.EnvName, result.Result)
		}
		return err
	}

	res, err := cfg.DeployEnv(ctx, dep, opts.env, opts.tags)
	if err != nil {
		return err
	}
	logDeployResult(log, opts.env, res)
	return nil
}

func logDeployResult(log *zerolog.Logger, envName string, res *config.DeploymentResult) {
	if !res.SSMDeployed() {
		log.Info().Str("env", envName).Msg("configuration unchanged, nothing deployed")
		return
	}

	ev := log.Info().
		Str("env", envName).
		Str("parameter", res.Parameter.Name).
		Int64("version", res.Parameter.Version)
	if res.S3Deployed() {
		ev = ev.
			Str("s3_latest", res.S3Latest.String()).
			Str("s3_versioned", res.S3Versioned.String())
	}
	ev.Msg("configuration deployed")
}
