package cli

import (
	"strings"
	"testing"
)

func TestVersionLine(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "1.2.0"
	Commit = ""
	if line := versionLine(); !strings.HasPrefix(line, "vinyl 1.2.0 ") || strings.Contains(line, "(") {
		t.Errorf("versionLine() = %q, want no commit parenthetical", line)
	}

	Commit = "3f9c2a1b04d7e8f6a1b2"
	line := versionLine()
	if !strings.Contains(line, "(3f9c2a1b04d7)") {
		t.Errorf("versionLine() = %q, want 12-char commit", line)
	}
}

func TestVersionInfoOmitsEmptyFields(t *testing.T) {
	origCommit, origDate := Commit, BuildDate
	defer func() { Commit, BuildDate = origCommit, origDate }()

	Commit, BuildDate = "", ""
	info := versionInfo()
	if _, ok := info["commit"]; ok {
		t.Error("commit should be omitted when unset")
	}
	if _, ok := info["build_date"]; ok {
		t.Error("build_date should be omitted when unset")
	}

	Commit, BuildDate = "abc123", "2026-08-29"
	info = versionInfo()
	if info["commit"] != "abc123" || info["build_date"] != "2026-08-29" {
		t.Errorf("versionInfo() = %v, want commit and build_date set", info)
	}
}
