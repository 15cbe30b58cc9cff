package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/rustyeddy/smartfolio/report"
	"github.com/spf13/cobra"
)

func newOrderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "order",
		Aliases: []string{"orders"},
		Short:   "Stage, fill and kill pending orders",
	}
	cmd.AddCommand(
		newOrderAddCmd(a),
		newOrderFillCmd(a),
		newOrderKillCmd(a),
		newOrderListCmd(a),
	)
	return cmd
}

func newOrderAddCmd(a *app) *cobra.Command {
	var (
		o    orders.Order
		side string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Stage a limit order",
		Example: `  smartfolio order add --type sell --symbol SUI --units 500 --price 1.02 --note "ladder 1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ledger.ParseSide(side)
			if err != nil {
				return err
			}
			o.Type = s

			added, ok := a.store.AddOrder(o)
			if !ok {
				return fmt.Errorf("order rejected: units and price must be positive and the id unused")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Staged %s %s %s @ %s [%s]\n",
				added.Type, report.Units(added.Units), added.Symbol, report.Price(added.Price), added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "type", "", "buy or sell (required)")
	cmd.Flags().StringVar(&o.Symbol, "symbol", "", "asset symbol (required)")
	cmd.Flags().Float64Var(&o.Units, "units", 0, "units to trade")
	cmd.Flags().Float64Var(&o.Price, "price", 0, "limit price")
	cmd.Flags().StringVar(&o.ID, "id", "", "order id (generated when empty)")
	cmd.Flags().StringVar(&o.Date, "date", "", "order date YYYY-MM-DD (today when empty)")
	cmd.Flags().StringVar(&o.Note, "note", "", "free-form note")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("symbol")
	return cmd
}

func newOrderFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <id>",
		Short: "Fill a pending order at its limit price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.FillOrder(args[0]) {
				return fmt.Errorf("order %q not found", args[0])
			}
			v := a.store.View()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Filled %s; cash %s\n", args[0], report.Money(v.CashBalance))
			return nil
		},
	}
}

func newOrderKillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "kill <id>",
		Aliases: []string{"cancel"},
		Short:   "Drop a pending order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.KillOrder(args[0]) {
				return fmt.Errorf("order %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Killed %s\n", args[0])
			return nil
		},
	}
}

func newOrderListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending := a.store.View().Orders
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, pending)
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending orders.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tSYMBOL\tUNITS\tPRICE\tNOTIONAL\tNOTE")
			for _, o := range pending {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.Date, o.Type, o.Symbol, report.Units(o.Units), report.Price(o.Price), report.Money(o.Notional()), o.Note)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print orders as JSON")
	return cmd
}
