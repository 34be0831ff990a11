package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type showOptions struct {
	configOptions
	env string
}

func newShowCommand() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration of one env, secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts)
		},
	}
	opts.configOptions.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&opts.env, "env", "e", "", "Environment name")
	cmd.MarkFlagRequired("env")
	return cmd
}

func runShow(cmd *cobra.Command, opts *showOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	data, err := cfg.MaskedEnvData(opts.env)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render env %s: %w", opts.env, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
