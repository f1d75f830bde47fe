package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/joshp123/gobotvac/botvac"
)

func TestRenderTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, [][]string{
		{"NAME", "SERIAL"},
		{"Kitchen", "OPS01234-0123456789AB"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	serialCol := strings.Index(lines[0], "SERIAL")
	if serialCol < 0 || strings.Index(lines[1], "OPS01234") != serialCol {
		t.Fatalf("columns not aligned:\n%s", buf.String())
	}
}

func TestStateRows(t *testing.T) {
	alert := "dustbin_full"
	state := &botvac.RobotState{
		State: json.RawMessage(`3`),
		Alert: &alert,
	}
	state.Details.Charge = 87
	state.Details.IsDocked = true
	state.Meta.ModelName = "BotVacD7Connected"

	rows := stateRows(state)
	got := map[string]string{}
	for _, row := range rows {
		got[row[0]] = row[1]
	}
	if got["state"] != "paused" || got["charge"] != "87%" || got["docked"] != "true" {
		t.Fatalf("unexpected rows: %v", got)
	}
	if got["alert"] != "dustbin_full" {
		t.Fatalf("alert row missing: %v", got)
	}
	if _, ok := got["error"]; ok {
		t.Fatalf("error row present without an error: %v", got)
	}
}
