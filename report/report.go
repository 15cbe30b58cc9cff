// Package report renders the active book and its health as markdown.
package report

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/market"
	"github.com/rustyeddy/smartfolio/portfolio"
	"github.com/rustyeddy/smartfolio/risk"
)

//go:embed templates/*.md
var templates embed.FS

// DefaultJournalLimit is how many journal entries a report lists.
const DefaultJournalLimit = 10

// TrendPeriod is the EMA period the trends table compares prices to.
const TrendPeriod = 5

type Options struct {
	JournalLimit int // 0 means DefaultJournalLimit, negative means all
}

// data is what the templates see.
type data struct {
	Title          string
	View           portfolio.View
	Health         risk.Report
	GainLoss       float64
	TargetProgress float64
	Trends         []market.Trend
	Journal        []journal.Entry
	JournalHidden  int
}

var funcs = template.FuncMap{
	"money":       Money,
	"signedMoney": SignedMoney,
	"pct":         Percent,
	"signedPct":   SignedPercent,
	"units":       Units,
	"price":       Price,
	"cell":        cell,
	"upper":       func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	"optUnits": func(v *float64) string {
		if v == nil {
			return ""
		}
		return Units(*v)
	},
	"optPrice": func(v *float64) string {
		if v == nil {
			return ""
		}
		return Price(*v)
	},
}

var tmpl = template.Must(template.New("report").Funcs(funcs).ParseFS(templates, "templates/*.md"))

// Markdown renders v and its health report h.
func Markdown(v portfolio.View, h risk.Report, opts Options) (string, error) {
	d := data{
		Title:   v.AccountName,
		View:    v,
		Health:  h,
		Trends:  market.Summarize(v.Trends, TrendPeriod),
		Journal: v.Journal,
	}
	if d.Title == "" {
		d.Title = v.AccountID
	}
	for _, p := range v.Assets {
		if !p.IsCash() {
			d.GainLoss += p.GainLoss
		}
	}
	if v.Target > 0 {
		d.TargetProgress = v.TotalValue / v.Target * 100
	}

	limit := opts.JournalLimit
	if limit == 0 {
		limit = DefaultJournalLimit
	}
	if limit > 0 && len(d.Journal) > limit {
		d.JournalHidden = len(d.Journal) - limit
		d.Journal = d.Journal[:limit]
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "report.md", d); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}
