package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dosanma1/docker-server/internal/tags"
)

func newTagsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print the tags a release would publish",
		Long: `Prints the tags generated for the version and release type, one per line,
without building anything.

Examples:
  docker-server tags --version=22.2.2.2 --release-type=latest
  docker-server tags --repo-root=../server`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadResolver(opts.configPath)
			if err != nil {
				return err
			}
			root, err := r.ResolveRepoRoot(opts.flags.RepoRoot)
			if err != nil {
				return err
			}
			v, err := r.ResolveVersion(opts.flags.Version, root)
			if err != nil {
				return err
			}
			rt, err := r.ResolveReleaseType(opts.flags.ReleaseType)
			if err != nil {
				return err
			}

			list, err := tags.Generate(v.String(), rt)
			if err != nil {
				return err
			}
			for _, t := range list {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
