package main

import (
	"testing"

	"github.com/echozyr2001/BrewDeck/internal/cli"
)

func TestRootCommandWiring(t *testing.T) {
	app := &cli.App{Version: version}
	root := cli.NewRootCmd(app, nil)

	if root.Use != "brewdeck" {
		t.Errorf("expected root Use to be brewdeck, got %q", root.Use)
	}

	for _, name := range []string{"list", "search", "info", "install", "uninstall", "upgrade", "doctor", "prefetch", "browse"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestVersionSet(t *testing.T) {
	if version == "" {
		t.Error("expected version to be non-empty")
	}
}
