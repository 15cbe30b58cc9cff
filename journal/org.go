package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatEntryOrg renders an entry as an Org-mode heading with the
// structured fields in a PROPERTIES drawer and the free-text notes as body.
func FormatEntryOrg(e Entry) string {
	heading := fmt.Sprintf("** %s %s (%s)", strings.ToUpper(string(e.Type)), e.Symbol, shortID(e.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", e.ID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", e.Symbol))
	b.WriteString(fmt.Sprintf(":TYPE: %s\n", e.Type))
	if ts := e.Time(); !ts.IsZero() {
		b.WriteString(fmt.Sprintf(":TIME: %s\n", ts.UTC().Format(time.RFC3339)))
	}
	if e.Price != nil {
		b.WriteString(fmt.Sprintf(":PRICE: %.5f\n", *e.Price))
	}
	if e.Units != nil {
		b.WriteString(fmt.Sprintf(":UNITS: %.4f\n", *e.Units))
	}
	if _, ok := e.Trade(); ok {
		b.WriteString(":TRADE: t\n")
	}
	b.WriteString(":END:\n")
	if e.Notes != "" {
		b.WriteString("\n")
		b.WriteString(e.Notes)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEntriesOrg renders multiple entries separated by blank lines.
func FormatEntriesOrg(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
