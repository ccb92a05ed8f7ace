package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rshade/ecoshopper/internal/ecoscore"
)

// Output formats accepted by --output.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// maxNameLen truncates product names in tables.
const maxNameLen = 40

func validateOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON, outputNDJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or ndjson)", format)
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeNDJSON writes one compact JSON object per line.
func writeNDJSON[T any](w io.Writer, items ...T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// renderResult prints a score breakdown shared by score and view.
func renderResult(w io.Writer, r ecoscore.Result) {
	fmt.Fprintln(w, r.Explanation)
	fmt.Fprintf(w, "  Level:          %s\n", r.Level)
	fmt.Fprintf(w, "  Recyclability:  %d%%\n", r.RecyclabilityRating)
	fmt.Fprintf(w, "  Carbon:         %s CO2\n", ecoscore.FormatKg(r.CarbonFootprint))
	if eq := ecoscore.Equivalency(r.CarbonFootprint); !eq.IsEmpty {
		fmt.Fprintf(w, "                  %s\n", eq.DisplayText)
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(w, "  Keywords:       %s\n", strings.Join(r.Keywords, ", "))
	}
	fmt.Fprintf(w, "  Insight:        %s\n", ecoscore.Insight(r))
}

// renderDangers prints the low-score warning block.
func renderDangers(w io.Writer, reasons []string) {
	fmt.Fprintln(w, "⚠️  ECO WARNING: this product scored poorly")
	for _, reason := range reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
}
