package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joshp123/gobotvac/botvac"
)

func printJSON(value any) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fatal("format json", err)
	}
	fmt.Println(string(data))
}

func printTable(rows [][]string) {
	renderTable(os.Stdout, rows)
}

func renderTable(w io.Writer, rows [][]string) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// stateRows flattens a state report into label/value pairs for the
// table renderer.
func stateRows(state *botvac.RobotState) [][]string {
	rows := [][]string{
		{"state", state.StateName()},
		{"charge", fmt.Sprintf("%d%%", state.Details.Charge)},
		{"docked", fmt.Sprintf("%t", state.Details.IsDocked)},
		{"charging", fmt.Sprintf("%t", state.Details.IsCharging)},
		{"schedule", fmt.Sprintf("%t", state.Details.IsScheduleEnabled)},
		{"model", state.Meta.ModelName},
		{"firmware", state.Meta.Firmware},
	}
	if state.Alert != nil {
		rows = append(rows, []string{"alert", *state.Alert})
	}
	if state.Error != nil {
		rows = append(rows, []string{"error", *state.Error})
	}
	return rows
}
