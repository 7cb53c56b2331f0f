package analyzer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// WriteResults renders results in the requested format
func WriteResults(w io.Writer, format string, results []FileResult) error {
	switch format {
	case FormatText, "":
		return WriteText(w, results)
	case FormatJSON:
		return WriteJSON(w, results)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteText prints diagnostics grouped by file followed by a summary
func WriteText(w io.Writer, results []FileResult) error {
	summary := Summarize(results)

	for _, result := range results {
		if len(result.Diagnostics) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s\n", result.FilePath)
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %d:%d  error  %s  %s\n", d.Line, d.Column, d.Message, d.Rule)
		}
		fmt.Fprintln(w)
	}

	if summary.Diagnostics == 0 {
		fmt.Fprintf(w, "No extraneous dependencies found in %d files\n", summary.Files)
	} else {
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 60))
		fmt.Fprintf(w, "%d problems in %d files\n", summary.Diagnostics, summary.Files)
	}

	if summary.Skipped > 0 {
		fmt.Fprintf(w, "  - Skipped (no declared dependencies): %d\n", summary.Skipped)
	}
	if summary.Failed > 0 {
		fmt.Fprintf(w, "  - Failed to parse: %d\n", summary.Failed)
	}

	return nil
}

type jsonReport struct {
	Results []FileResult `json:"results"`
	Summary Summary      `json:"summary"`
}

// WriteJSON writes results and summary as one JSON document
func WriteJSON(w io.Writer, results []FileResult) error {
	if results == nil {
		results = []FileResult{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Results: results, Summary: Summarize(results)})
}
