package cmd

import (
	runtimedebug "runtime/debug"
	"testing"
)

func TestResolveVersion(t *testing.T) {
	built := func(v string) func() (*runtimedebug.BuildInfo, bool) {
		return func() (*runtimedebug.BuildInfo, bool) {
			return &runtimedebug.BuildInfo{Main: runtimedebug.Module{Path: "github.com/mabhi256/cgdiag", Version: v}}, true
		}
	}
	missing := func() (*runtimedebug.BuildInfo, bool) { return nil, false }

	tests := []struct {
		name      string
		stamped   string
		buildInfo func() (*runtimedebug.BuildInfo, bool)
		want      string
	}{
		{"stamped wins", "v1.2.3", built("v0.9.0"), "v1.2.3"},
		{"go install version", "", built("v0.9.0"), "v0.9.0"},
		{"local build", "", built("(devel)"), "dev"},
		{"no build info", "", missing, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveVersion(tt.stamped, tt.buildInfo); got != tt.want {
				t.Errorf("resolveVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
