// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

// Package export renders ranked leads as CSV, JSON, YAML, or a terminal
// table for hand-off to the sales team.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/axiombio/lead-engine/pkg/types"
)

// csvHeader is the column order of the exported lead sheet.
var csvHeader = []string{
	"rank", "name", "role", "institution", "location",
	"score", "email", "recent_paper", "source_ids",
}

// FormatCSV writes leads as a CSV sheet to w.
func FormatCSV(leads []types.ScoredLead, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, lead := range leads {
		row := []string{
			strconv.Itoa(lead.Rank),
			lead.Name,
			string(lead.Role),
			lead.Affiliation,
			lead.Location,
			strconv.Itoa(lead.Score),
			lead.Email,
			strconv.FormatBool(lead.HasRecentPaper),
			strings.Join(lead.SourceIDs, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatJSON writes leads as indented JSON to w.
func FormatJSON(leads []types.ScoredLead, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(leads)
}

// FormatYAML writes leads as a YAML list to w.
func FormatYAML(leads []types.ScoredLead, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(leads)
}

// FormatTable writes leads as a human-readable table to w.
func FormatTable(leads []types.ScoredLead, w io.Writer) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "No leads found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-24s  %-12s  %-36s  %-5s  %s\n",
		"Rank", "Name", "Role", "Institution", "Score", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, lead := range leads {
		fmt.Fprintf(w, "%-4d  %-24s  %-12s  %-36s  %-5d  %s\n",
			lead.Rank,
			truncate(lead.Name, 24),
			string(lead.Role),
			truncate(lead.Affiliation, 36),
			lead.Score,
			lead.Email)
	}

	fmt.Fprintf(w, "\n%d leads\n", len(leads))
}

// WriteFile exports leads to path, choosing the format from the file
// extension. Supported extensions are .csv, .json, .yaml, and .yml.
func WriteFile(path string, leads []types.ScoredLead) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = FormatCSV(leads, f)
	case ".json":
		err = FormatJSON(leads, f)
	case ".yaml", ".yml":
		err = FormatYAML(leads, f)
	default:
		err = fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// truncate shortens s to max runes so multibyte names never split mid-rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
