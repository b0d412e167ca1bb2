// Package output renders the final report and drives the fetch progress bar.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"gosponsor/internal/sponsor"
)

// RenderJSON writes the records as an indented JSON array. An empty result
// set renders as [] rather than null.
func RenderJSON(w io.Writer, records []sponsor.Record) error {
	if records == nil {
		records = []sponsor.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// RenderTable writes a human-oriented summary: one row per sponsorable
// dependency with its sponsor count (when listed) and first funding link.
func RenderTable(w io.Writer, records []sponsor.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No sponsorable dependencies found.")
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	bold := color.New(color.Bold)
	name := color.New(color.FgYellow)
	count := color.New(color.Faint)
	link := color.New(color.FgBlue, color.Underline)

	fmt.Fprintf(w, "\n  %s\n\n", header.Sprint("Sponsorable Dependencies"))
	fmt.Fprintf(w, "  Found %s projects you can support:\n\n", bold.Sprint(len(records)))

	nameWidth := 10
	for _, r := range records {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
	}
	const countWidth = 10

	// Colored cells carry ANSI escapes, so pad on the visible width rather
	// than the printf width verb.
	cell := func(c *color.Color, s string, width int) string {
		padding := width - len(s)
		if padding < 0 {
			padding = 0
		}
		return c.Sprint(s) + strings.Repeat(" ", padding)
	}

	fmt.Fprintf(w, "  %s  %s  %s\n",
		cell(bold, "Package", nameWidth),
		cell(bold, "Sponsors", countWidth),
		bold.Sprint("Link"))
	fmt.Fprintf(w, "  %s  %s  %s\n",
		strings.Repeat("─", nameWidth),
		strings.Repeat("─", countWidth),
		strings.Repeat("─", 40))

	for _, r := range records {
		countStr := "-"
		if r.SponsorCount != nil {
			countStr = strconv.Itoa(*r.SponsorCount)
		}
		first := "-"
		if len(r.SponsorLinks) > 0 {
			first = r.SponsorLinks[0]
		}
		fmt.Fprintf(w, "  %s  %s  %s\n",
			cell(name, r.Name, nameWidth),
			cell(count, countStr, countWidth),
			link.Sprint(first))
	}
	fmt.Fprintln(w)
}
