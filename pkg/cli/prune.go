package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/logger"
	"github.com/williamokano/aws_config/pkg/storage"
)

type pruneOptions struct {
	awsOptions
	storeType string
	keep      int
	path      string
}

func newPruneCommand() *cobra.Command {
	opts := &pruneOptions{}

	cmd := &cobra.Command{
		Use:   "prune <parameter-name>",
		Short: "Remove old history versions of a deployed parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.keep < 1 {
				return fmt.Errorf("--keep must be at least 1")
			}
			return runPrune(cmd, opts, args[0])
		},
	}
	opts.awsOptions.addFlags(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVar(&opts.storeType, "store", "s3", "Store to prune (s3 or local)")
	flags.IntVar(&opts.keep, "keep", 10, "History versions to keep")
	flags.StringVar(&opts.path, "path", "", "Directory of the local store")
	return cmd
}

func runPrune(cmd *cobra.Command, opts *pruneOptions, name string) error {
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

	pruner, ok := store.(storage.Pruner)
	if !ok {
		return fmt.Errorf("%s store keeps its own history and cannot be pruned", store.Type())
	}

	removed, err := pruner.Prune(ctx, name, opts.keep)
	if err != nil {
		return err
	}

	log := logger.Get()
	for _, location := range removed {
		log.Info().Str("location", location).Msg("history version removed")
	}
	log.Info().
		Str("store", store.Name()).
		Str("name", name).
		Int("kept", opts.keep).
		Int("removed", len(removed)).
		Msg("history pruned")
	return nil
}

func (o *pruneOptions) storeOptions() map[string]interface{} {
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
