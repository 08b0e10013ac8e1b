package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Creastina/bambushain/internal/model"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// groveRow is the printed form of a grove
type groveRow struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	CreatedOn string   `json:"created_on" yaml:"created_on"`
	Mods      []string `json:"mods" yaml:"mods"`
}

func toRows(groves []model.GroveWithMods) []groveRow {
	rows := make([]groveRow, 0, len(groves))
	for _, g := range groves {
		mods := make([]string, 0, len(g.Mods))
		for _, m := range g.Mods {
			mods = append(mods, fmt.Sprintf("%s <%s>", m.DisplayName, m.Email))
		}
		rows = append(rows, groveRow{
			ID:        g.ID,
			Name:      g.Name,
			Enabled:   g.IsEnabled,
			CreatedOn: g.CreatedOn.Format(time.DateOnly),
			Mods:      mods,
		})
	}
	return rows
}

func validFormat(format string) bool {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

func writeGroves(w io.Writer, format string, groves []model.GroveWithMods) error {
	rows := toRows(groves)

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()

	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tENABLED\tCREATED\tMODS")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", r.ID, r.Name, r.Enabled, r.CreatedOn, strings.Join(r.Mods, ", "))
		}
		return tw.Flush()
	}
}
