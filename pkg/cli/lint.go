package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamokano/aws_config/pkg/changelog"
	"github.com/williamokano/aws_config/pkg/logger"
)

func newLintChangelogCommand() *cobra.Command {
	var apiPrefix string

	cmd := &cobra.Command{
		Use:   "lint-changelog [file]",
		Short: "Lint a release-history document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "release-history.rst"
			if len(args) == 1 {
				path = args[0]
			}
			return runLintChangelog(cmd, path, apiPrefix)
		},
	}
	cmd.Flags().StringVar(&apiPrefix, "api-prefix", changelog.DefaultAPIPrefix, "Required prefix of API references")
	return cmd
}

func runLintChangelog(cmd *cobra.Command, path, apiPrefix string) error {
	doc, problems, err := changelog.LintFile(path, changelog.Rules{APIPrefix: apiPrefix})
	if err != nil {
		return err
	}

	for _, p := range problems {
		fmt.Fprintln(cmd.OutOrStdout(), p.String())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s) in %s", len(problems), path)
	}

	logger.Get().Info().
		Str("file", path).
		Int("releases", len(doc.Releases)).
		Msg("changelog is clean")
	return nil
}
