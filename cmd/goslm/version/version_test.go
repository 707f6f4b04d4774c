package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "v1.2.3", "abc1234", "2026-10-01T12:00:00Z"

	want := "goslm version v1.2.3 (commit: abc1234, built: 2026-10-01T12:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if got := FullInfo(); !strings.HasPrefix(got, strings.TrimSuffix(want, ")")) || !strings.Contains(got, "go: go") {
		t.Errorf("FullInfo() = %q", got)
	}
}
