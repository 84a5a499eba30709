// Package display renders resolution results for the operator or for
// scripting consumers.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"rds-snapshot-copy/internal/execution"
)

// Format selects the output rendering
type Format string

const (
	// FormatTable renders a colorized two-column table
	FormatTable Format = "table"
	// FormatJSON renders machine-readable JSON
	FormatJSON Format = "json"
	// FormatCompact renders a single space-separated line for scripting
	FormatCompact Format = "compact"
)

// ParseFormat validates a format flag value
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatTable, FormatJSON, FormatCompact:
		return Format(value), nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be table, json or compact", value)
	}
}

// Service writes formatted output
type Service struct {
	writer    io.Writer
	format    Format
	useColors bool
}

// NewService creates a display service writing to stdout
func NewService(format Format, noColor bool) *Service {
	return NewServiceWithWriter(os.Stdout, format, noColor || !stdoutSupportsColor())
}

// NewServiceWithWriter creates a display service over an explicit writer.
// Used by tests.
func NewServiceWithWriter(w io.Writer, format Format, noColor bool) *Service {
	return &Service{writer: w, format: format, useColors: !noColor}
}

// stdoutSupportsColor checks terminal and environment color capability
func stdoutSupportsColor() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// RenderResolved writes the resolved parameter tuple
func (s *Service) RenderResolved(params *execution.ResolvedParameters) error {
	switch s.format {
	case FormatJSON:
		return s.renderJSON(map[string]interface{}{
			"resource_id":             params.ResourceID,
			"kms_key_id":              params.KeyID,
			"reuse_existing_snapshot": params.ReuseExistingSnapshot,
			"snapshot":                params.SnapshotDescriptor,
		})
	case FormatCompact:
		_, err := fmt.Fprintf(s.writer, "%s %s %t %s\n",
			params.ResourceID, params.KeyID, params.ReuseExistingSnapshot, params.SnapshotDescriptor)
		return err
	default:
		rows := [][2]string{
			{"Resource", params.ResourceID},
			{"KMS key", params.KeyID},
			{"Reuse existing snapshot", fmt.Sprintf("%t", params.ReuseExistingSnapshot)},
			{"Snapshot", params.SnapshotDescriptor},
		}
		return s.renderTable("Resolved parameters", rows)
	}
}

// RenderAttributes writes a snapshot's attribute map
func (s *Service) RenderAttributes(snapshotID string, attributes map[string][]string) error {
	if s.format == FormatJSON {
		return s.renderJSON(map[string]interface{}{
			"snapshot_id": snapshotID,
			"attributes":  attributes,
		})
	}

	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][2]string, 0, len(names))
	for _, name := range names {
		value := strings.Join(attributes[name], ", ")
		if value == "" {
			value = "(none)"
		}
		rows = append(rows, [2]string{name, value})
	}

	return s.renderTable(fmt.Sprintf("Attributes of snapshot %s", snapshotID), rows)
}

// RenderSharing reports which of the requested accounts may already restore
// the snapshot
func (s *Service) RenderSharing(snapshotID string, authorized, requested []string) error {
	authorizedSet := make(map[string]bool, len(authorized))
	for _, account := range authorized {
		authorizedSet[account] = true
	}

	if s.format == FormatJSON {
		shared := make([]string, 0, len(requested))
		missing := make([]string, 0, len(requested))
		for _, account := range requested {
			if authorizedSet[account] {
				shared = append(shared, account)
			} else {
				missing = append(missing, account)
			}
		}
		return s.renderJSON(map[string]interface{}{
			"snapshot_id":        snapshotID,
			"already_authorized": shared,
			"not_authorized":     missing,
		})
	}

	rows := make([][2]string, 0, len(requested))
	for _, account := range requested {
		status := "not authorized"
		if authorizedSet[account] {
			status = "already authorized"
		}
		rows = append(rows, [2]string{account, status})
	}

	return s.renderTable(fmt.Sprintf("Restore access on snapshot %s", snapshotID), rows)
}

func (s *Service) renderJSON(value interface{}) error {
	enc := json.NewEncoder(s.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func (s *Service) renderTable(title string, rows [][2]string) error {
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}

	if _, err := fmt.Fprintln(s.writer, s.colorize(title, color.Bold)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.writer, strings.Repeat("-", len(title))); err != nil {
		return err
	}
	for _, row := range rows {
		label := fmt.Sprintf("%-*s", width, row[0])
		if _, err := fmt.Fprintf(s.writer, "%s  %s\n", s.colorize(label, color.FgCyan), row[1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) colorize(text string, attr color.Attribute) string {
	if !s.useColors {
		return text
	}
	return color.New(attr).Sprint(text)
}
