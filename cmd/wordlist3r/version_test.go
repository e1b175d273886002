package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildInfoFallbacks(t *testing.T) {
	t.Parallel()

	if v := getVersion(); v == "" {
		t.Error("getVersion() returned empty string")
	}
	if c := getCommit(); c == "" || len(c) > 7 {
		t.Errorf("getCommit() = %q, want short hash or unknown", c)
	}
	if d := getDate(); d == "" {
		t.Error("getDate() returned empty string")
	}
	if s := buildSetting("no.such.setting"); s != "unknown" {
		t.Errorf("buildSetting() = %q, want unknown", s)
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	t.Run("outputs version info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"wordlist3r version", "commit:", "built:", "go:"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got %q", want, output)
			}
		}
	})

	t.Run("short flag prints only the version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--short"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != getVersion() {
			t.Errorf("expected %q, got %q", getVersion(), got)
		}
	})
}
