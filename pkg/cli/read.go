package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/logger"
	"github.com/williamokano/aws_config/pkg/storage"

	// Import backends to register them
	_ "github.com/williamokano/aws_config/pkg/storage/backblaze"
	_ "github.com/williamokano/aws_config/pkg/storage/local"
	_ "github.com/williamokano/aws_config/pkg/storage/s3"
	_ "github.com/williamokano/aws_config/pkg/storage/ssh"
	_ "github.com/williamokano/aws_config/pkg/storage/ssm"
)

type readOptions struct {
	awsOptions
	storeType string
	version   string
	path      string
}

func newReadCommand() *cobra.Command {
	opts := &readOptions{}

	cmd := &cobra.Command{
		Use:   "read <parameter-name>",
		Short: "Read a deployed parameter from a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, opts, args[0])
		},
	}
	opts.awsOptions.addFlags(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVar(&opts.storeType, "store", "ssm", "Store to read from (ssm, s3 or local)")
	flags.StringVar(&opts.version, "version", storage.LatestVersionLabel, "Version label to read")
	flags.StringVar(&opts.path, "path", "", "Directory of the local store")
	return cmd
}

func runRead(cmd *cobra.Command, opts *readOptions, name string) error {
	ctx := cmd.Context()

	store, err := storage.NewFactory().Create(ctx, storage.Config{
		Name:    opts.storeType,
		Type:    opts.storeType,
		Enabled: true,
		Options: opts.storeOptions(),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	param, err := store.Read(ctx, name, opts.version)
	if err != nil {
		return err
	}

	logger.Get().Info().
		Str("store", store.Name()).
		Str("name", param.Name).
		Str("version", param.Version).
		Msg("parameter read")
	fmt.Fprintln(cmd.OutOrStdout(), string(param.Value))
	return nil
}

func (o *readOptions) storeOptions() map[string]interface{} {
	options := map[string]interface{}{
		"region":   o.region,
		"endpoint": o.endpoint,
	}
	switch o.storeType {
	case "s3":
		options["s3uri"] = o.s3URI
		options["force_path_style"] = o.pathStyle
	case "local":
		options["path"] = o.path
	}
	return options
}
