package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/smartfolio/report"
	"github.com/rustyeddy/smartfolio/store"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "sync <symbol> <units>",
		Short:   "Force-set the units of a position to match the exchange",
		Example: "  smartfolio sync SUI 3012.1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("bad units %q: %w", args[1], err)
			}
			if !a.store.SyncAssetBalance(args[0], units) {
				return fmt.Errorf("sync rejected: %s is not held or units are invalid", strings.ToUpper(args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s set to %s units\n", strings.ToUpper(args[0]), report.Units(units))
			return nil
		},
	}
}

func newRecycleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recycle <symbol>",
		Short: "Move the unrealized gain of a position into the anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			before := a.store.View().Recycled
			if !a.store.RecyclePnL(args[0]) {
				return fmt.Errorf("nothing to recycle from %s", strings.ToUpper(args[0]))
			}
			v := a.store.View()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recycled %s into %s (total %s)\n",
				report.Money(v.Recycled-before), v.Anchor, report.Money(v.Recycled))
			return nil
		},
	}
}

func newAccountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, acct := range a.store.Accounts() {
				mark := " "
				if acct.Active {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %s\n", mark, acct.ID, acct.Name)
			}
			return nil
		},
	}
}

func newSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account>",
		Short: "Make another account the active book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := a.cfg.Account(args[0]); !ok {
				return fmt.Errorf("unknown account %q (have %s)", args[0], strings.Join(a.cfg.AccountIDs(), ", "))
			}
			if !a.store.SwitchAccount(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already active\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Switched to %s\n", args[0])
			return nil
		},
	}
}

func newTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target <value>",
		Short: "Set the goal value of the active book, 0 to clear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("bad value %q: %w", args[0], err)
			}
			if !a.store.SetTargetValue(v) {
				return fmt.Errorf("target must be a non-negative number")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Target %s\n", report.Money(v))
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [account]",
		Short: "Restore an account to its seed book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			if !a.store.ResetToDefaults(id) {
				return fmt.Errorf("unknown account %q", id)
			}
			if id == "" {
				id = a.store.ActiveAccount()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Reset %s\n", id)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of the active book",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.store.ExportSnapshot()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s to %s\n", a.store.ActiveAccount(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Backup file (stdout when empty)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the active book from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			if !a.store.ImportSnapshot(data) {
				return fmt.Errorf("invalid backup file %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s into %s\n", args[0], a.store.ActiveAccount())
			return nil
		},
	}
}

func newStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "List the persisted keys and their sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := a.kv.(store.Lister)
			if !ok {
				return fmt.Errorf("%T cannot list keys", a.kv)
			}
			prefix := a.cfg.Storage.Prefix
			if prefix == "" {
				prefix = store.DefaultPrefix
			}
			keys, err := l.Keys(cmd.Context(), prefix)
			if err != nil {
				return fmt.Errorf("list keys: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, "Nothing persisted")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, k := range keys {
				v, err := a.kv.Get(cmd.Context(), k)
				if err != nil {
					return fmt.Errorf("read %s: %w", k, err)
				}
				fmt.Fprintf(tw, "%s\t%d bytes\n", k, len(v))
			}
			return tw.Flush()
		},
	}
}
