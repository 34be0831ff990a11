package cli

import (
	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/logger"
)

func newValidateCommand() *cobra.Command {
	opts := &configOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config documents against the schema and naming rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func runValidate(opts *configOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	logger.Get().Info().
		Str("project_name", cfg.ProjectName()).
		Strs("envs", cfg.EnvNames()).
		Msg("config documents are valid")
	return nil
}
