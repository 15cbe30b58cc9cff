package cli

import (
	"fmt"

	"github.com/rustyeddy/smartfolio/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Write the default configuration with both seed accounts
  validate - Check that a configuration file loads

Examples:
  smartfolio config init -o smartfolio.yaml
  smartfolio config validate -f smartfolio.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Generate a default configuration file",
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  smartfolio --config %s show\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "smartfolio.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate a configuration file",
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Storage: %s %s\n", cfg.Storage.Driver, cfg.Storage.Path)
			fmt.Fprintf(out, "  Default account: %s\n", cfg.DefaultAccount)
			for _, acct := range cfg.Accounts {
				fmt.Fprintf(out, "  Account %s: %s (%d assets, %d orders)\n", acct.ID, acct.Name, len(acct.Assets), len(acct.Orders))
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
