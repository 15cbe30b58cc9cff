package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/report"
	"github.com/spf13/cobra"
)

func newJournalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Log trades and notes",
	}
	cmd.AddCommand(
		newJournalAddCmd(a),
		newJournalRemoveCmd(a),
		newJournalListCmd(a),
		newJournalExportCmd(a),
	)
	return cmd
}

func newJournalAddCmd(a *app) *cobra.Command {
	var (
		e            journal.Entry
		kind         string
		price, units float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		Long: `Add a journal entry. A buy or sell carrying both --price and --units
also trades the active book at the account fee.`,
		Example: `  smartfolio journal add --symbol LINK --type buy --price 7.9 --units 6
  smartfolio journal add --symbol SUI --notes "holding through the dip"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := journal.ParseKind(kind)
			if err != nil {
				return err
			}
			e.Type = k
			if cmd.Flags().Changed("price") {
				e.Price = &price
			}
			if cmd.Flags().Changed("units") {
				e.Units = &units
			}

			added, ok := a.store.AddJournalEntry(e)
			if !ok {
				return fmt.Errorf("journal entry %q already exists", e.ID)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Logged %s [%s]\n", added.Notes, added.ID)
			if _, traded := added.Trade(); traded {
				fmt.Fprintf(out, "  cash %s\n", report.Money(a.store.View().CashBalance))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&e.Symbol, "symbol", "", "asset symbol (required)")
	cmd.Flags().StringVar(&kind, "type", string(journal.KindNote), "buy, sell or note")
	cmd.Flags().Float64Var(&price, "price", 0, "trade price")
	cmd.Flags().Float64Var(&units, "units", 0, "trade units")
	cmd.Flags().StringVar(&e.Notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&e.ID, "id", "", "entry id (generated when empty)")
	cmd.MarkFlagRequired("symbol")
	return cmd
}

func newJournalRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a journal entry; its trade is not reversed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.RemoveJournalEntry(args[0]) {
				return fmt.Errorf("journal entry %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", args[0])
			return nil
		},
	}
}

func newJournalListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List journal entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.store.View().Journal
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No journal entries.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tTYPE\tSYMBOL\tUNITS\tPRICE\tNOTES")
			for _, e := range entries {
				var u, p string
				if e.Units != nil {
					u = report.Units(*e.Units)
				}
				if e.Price != nil {
					p = report.Price(*e.Price)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Timestamp, e.Type, e.Symbol, u, p, e.Notes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n entries")
	return cmd
}

func newJournalExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the journal as CSV or Org",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.store.View().Journal
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "csv":
				return journal.WriteCSV(out, entries)
			case "org":
				_, err := io.WriteString(out, journal.FormatEntriesOrg(entries))
				return err
			}
			return fmt.Errorf("unknown --format %q (csv or org)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or org")
	return cmd
}
