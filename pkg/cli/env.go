package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/config"
	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/logger"
)

type envOptions struct {
	configOptions
	env  string
	file string
}

func newEnvCommand() *cobra.Command {
	opts := &envOptions{}

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print or write the bootstrap variables of one env",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd, opts)
		},
	}
	opts.configOptions.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&opts.env, "env", "e", "", "Environment name")
	cmd.Flags().StringVar(&opts.file, "file", "", "Merge the variables into this dotenv file instead of printing")
	cmd.MarkFlagRequired("env")
	return cmd
}

func runEnv(cmd *cobra.Command, opts *envOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	core, err := config.GetEnv[envs.Core](cfg, opts.env)
	if err != nil {
		return err
	}
	vars := core.EnvVars()

	if opts.file != "" {
		if err := envs.WriteEnvFile(opts.file, vars); err != nil {
			return err
		}
		logger.Get().Info().
			Str("env", opts.env).
			Str("file", opts.file).
			Msg("env file written")
		return nil
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, vars[key])
	}
	return nil
}
