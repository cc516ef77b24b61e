package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dosanma1/docker-server/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validates the --config file against the configuration JSON Schema.

Examples:
  docker-server validate --config=docker-server.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if path == "" {
				return errors.New("--config is required")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🔍 Validating %s...\n", path)

			violations, err := config.ValidateFile(path)
			if len(violations) > 0 {
				fmt.Fprintln(out, "\n❌ Validation failed with the following errors:")
				fmt.Fprintln(out)
				for i, v := range violations {
					fmt.Fprintf(out, "%d. %s\n", i+1, v.Description)
					fmt.Fprintf(out, "   Field: %s\n\n", v.Field)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "✅ %s is valid!\n", path)
			return nil
		},
	}
}
