package main

import (
	"testing"

	"github.com/urfave/cli/v2"
)

func TestNewApp_Defaults(t *testing.T) {
	app := newApp()
	if app.Name != "ethpoc" {
		t.Errorf("Name = %q, want ethpoc", app.Name)
	}
	var datadir, metricsAddr *cli.StringFlag
	for _, f := range app.Flags {
		switch v := f.(type) {
		case *cli.StringFlag:
			if v.Name == "datadir" {
				datadir = v
			}
			if v.Name == "metrics-addr" {
				metricsAddr = v
			}
		}
	}
	if datadir == nil || datadir.Value != "./data" {
		t.Errorf("datadir default = %+v, want ./data", datadir)
	}
	if metricsAddr == nil || metricsAddr.Value != "127.0.0.1:6060" {
		t.Errorf("metrics-addr default = %+v, want 127.0.0.1:6060", metricsAddr)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug": "DEBUG",
		"warn":  "WARN",
		"error": "ERROR",
		"info":  "INFO",
		"":      "INFO",
		"huh":   "INFO",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestRun_VersionExitsZero(t *testing.T) {
	if code := run([]string{"ethpoc", "--version"}); code != 0 {
		t.Errorf("run(--version) = %d, want 0", code)
	}
}

func TestRun_UnknownFlagExitsNonZero(t *testing.T) {
	if code := run([]string{"ethpoc", "--not-a-real-flag"}); code == 0 {
		t.Error("run with unknown flag should not exit 0")
	}
}
