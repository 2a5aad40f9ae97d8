package buildinfo

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func stamp(t *testing.T, version, date, commit string) {
	t.Helper()
	v, d, c := buildVersion, buildDate, buildCommit
	buildVersion, buildDate, buildCommit = version, date, commit
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = v, d, c })
}

func TestPrintBuildData_Stamped(t *testing.T) {
	stamp(t, "v1.2.0", "2026-10-01", "abc123")

	var buf bytes.Buffer
	PrintBuildData(&buf)
	require.Equal(t, "Build version: v1.2.0\nBuild date: 2026-10-01\nBuild commit: abc123\n", buf.String())
}

func TestPrintBuildData_NotStamped(t *testing.T) {
	stamp(t, "", "", "")
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	t.Cleanup(func() { readBuildInfo = orig })

	var buf bytes.Buffer
	PrintBuildData(&buf)
	require.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
}

func TestVersion_FromModuleInfo(t *testing.T) {
	stamp(t, "", "", "")
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}}, true
	}
	require.Equal(t, "v0.3.1", Version())

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}
	require.Equal(t, "N/A", Version())
}
