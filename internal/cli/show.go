package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/rustyeddy/smartfolio/report"
	"github.com/rustyeddy/smartfolio/risk"
	"github.com/spf13/cobra"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active book",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.store.View()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, v)
			}

			fmt.Fprintf(out, "%s [%s]\n", v.AccountName, v.AccountID)
			fmt.Fprintf(out, "Total %s  Cash %s\n\n", report.Money(v.TotalValue), report.Money(v.CashBalance))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tUNITS\tPRICE\tVALUE\tGAIN/LOSS\tALLOC\tTARGET")
			for _, p := range v.Assets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					p.Symbol,
					report.Units(p.Units),
					report.Price(p.CurrentPrice),
					report.Money(p.CurrentValue),
					report.SignedMoney(p.GainLoss),
					report.Percent(p.Allocation),
					report.Percent(p.TargetAllocation),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Grade the active book against its strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := a.store.Health()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, h)
			}

			fmt.Fprintf(out, "Score %s  Effective positions %.1f  Fee drag %s\n\n",
				report.Percent(h.Score), h.EffectivePositions, report.Money(h.FeeDrag))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, g := range h.Gauges {
				fmt.Fprintf(tw, "%s\t%s\ttarget %s\t%s\n", g.Label, report.Percent(g.Current), report.Percent(g.Target), g.Health)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if h.Healthy() {
				fmt.Fprintln(out, "✓ No alerts")
			}
			for _, v := range h.Violations {
				fmt.Fprintf(out, "! %s: %s\n", v.Code, v.Msg)
			}
			for _, s := range h.Suggestions {
				fmt.Fprintf(out, "> %s %s %s (fee %s)\n", s.Action, s.Symbol, report.Money(abs(s.NeededChange)), report.Money(s.Fee))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func newStressCmd(a *app) *cobra.Command {
	var (
		symbol string
		pct    float64
	)

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Revalue the active book after a price shock",
		Example: `  smartfolio stress --symbol SUI --pct -30
  smartfolio stress --pct -50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pct <= -100 {
				return fmt.Errorf("--pct must be above -100")
			}
			v := a.store.View()
			results, total := risk.Stress(v.Assets, strings.ToUpper(symbol), pct)

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tVALUE\tSTRESSED\tDELTA\tALLOC")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Symbol, report.Money(r.Value), report.Money(r.StressedValue), report.SignedMoney(r.Delta), report.Percent(r.StressedAlloc))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal %s -> %s (%s)\n", report.Money(v.TotalValue), report.Money(total), report.SignedMoney(total-v.TotalValue))

			for _, d := range risk.Drawdowns(v.Assets) {
				fmt.Fprintf(out, "%s %s from cost %s\n", d.Symbol, report.SignedPercent(d.DrawdownPct), report.Price(d.CostBasis))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", risk.AllSymbols, "Symbol to shock, or ALL")
	cmd.Flags().Float64Var(&pct, "pct", -30, "Price move in percent")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		raw     bool
		style   string
		width   int
		journal int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown report of the active book",
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := report.Markdown(a.store.View(), a.store.Health(), report.Options{JournalLimit: journal})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				_, err := io.WriteString(out, md)
				return err
			}

			styleOpt := glamour.WithStandardStyle(style)
			if style == "auto" {
				styleOpt = glamour.WithAutoStyle()
			}
			r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
			if err != nil {
				return fmt.Errorf("report renderer: %w", err)
			}
			rendered, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			_, err = io.WriteString(out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto|dark|light|notty")
	cmd.Flags().IntVar(&width, "width", 100, "Word wrap width")
	cmd.Flags().IntVar(&journal, "journal", report.DefaultJournalLimit, "Journal entries to list, -1 for all")
	return cmd
}
