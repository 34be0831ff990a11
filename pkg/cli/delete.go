package cli

import (
	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/config"
	"github.com/williamokano/aws_config/pkg/logger"
)

type deleteOptions struct {
	configOptions
	awsOptions
	env       string
	includeS3 bool
}

func newDeleteCommand() *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a deployed parameter from SSM, and optionally its S3 history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, opts)
		},
	}
	opts.configOptions.addFlags(cmd.Flags())
	opts.awsOptions.addFlags(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVarP(&opts.env, "env", "e", "", "Environment to delete, or \"all\" for the consolidated parameter")
	flags.BoolVar(&opts.includeS3, "include-s3", false, "Also remove the S3 history (requires --s3uri)")
	cmd.MarkFlagRequired("env")
	return cmd
}

func runDelete(cmd *cobra.Command, opts *deleteOptions) error {
	ctx := cmd.Context()

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

	if err := cfg.DeleteEnv(ctx, config.Deployer{SSM: ssm, S3: s3}, opts.env, opts.includeS3); err != nil {
		return err
	}

	logger.Get().Info().
		Str("env", opts.env).
		Bool("include_s3", opts.includeS3).
		Msg("configuration deleted")
	return nil
}
