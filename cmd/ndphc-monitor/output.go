package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/policy"
	"ndphc-monitor/internal/reconcile"
)

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// gridRows is the part of a morning or hourly form the grid printer reads.
type gridRows interface {
	Turbines() []model.Turbine
	Row(turbineID int) []float64
	TurbineTotal(turbineID int) float64
	GrandTotal() float64
}

// printGrid writes one line per hour and one column per turbine. Locked
// cells are suffixed with "*".
func printGrid(w io.Writer, g gridRows, states map[int][]reconcile.CellState) error {
	turbines := g.Turbines()
	tw := newTable(w)

	header := []string{"HOUR"}
	for _, t := range turbines {
		header = append(header, t.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	rows := make(map[int][]float64, len(turbines))
	for _, t := range turbines {
		rows[t.ID] = g.Row(t.ID)
	}

	for hour := 1; hour <= model.Hours; hour++ {
		line := []string{strconv.Itoa(hour)}
		for _, t := range turbines {
			cell := formatValue(rows[t.ID][hour-1])
			if s := states[t.ID]; len(s) >= hour && s[hour-1] == reconcile.Locked {
				cell += "*"
			}
			line = append(line, cell)
		}
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}

	footer := []string{"TOTAL"}
	for _, t := range turbines {
		footer = append(footer, formatValue(g.TurbineTotal(t.ID)))
	}
	fmt.Fprintln(tw, strings.Join(footer, "\t"))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nGrand total: %s MWh\n", formatValue(g.GrandTotal()))
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDeadline(rec policy.Deadlined) string {
	d := rec.Deadline()
	if d == nil {
		return "none"
	}
	return d.Local().Format("2006-01-02 15:04")
}
