package main

import (
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"version":  false,
		"validate": false,
		"inspect":  false,
		"send":     false,
		"archive":  false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestArchiveSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range archiveCmd.Commands() {
		names[cmd.Name()] = true
	}
	if !names["query"] || !names["prune"] {
		t.Errorf("archive subcommands = %v, want query and prune", names)
	}
}

func TestInspectRejectsMalformedHeader(t *testing.T) {
	if err := inspectHeader(inspectCmd, []string{"not-a-header"}); err == nil {
		t.Error("expected error for malformed traceparent")
	}
}

func TestInspectAcceptsValidHeader(t *testing.T) {
	header := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	if err := inspectHeader(inspectCmd, []string{header}); err != nil {
		t.Errorf("inspectHeader(%q) error: %v", header, err)
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q", versionCmd.Use)
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}
