package version

import (
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionIsSemver(t *testing.T) {
	assert.Regexp(t, semverRegex, Version)
}

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, "v"+Version, info.Short())
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2026-10-19", GoVersion: "go1.24.0", Platform: "linux/amd64"}

	lines := strings.Split(strings.TrimSuffix(info.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"tiny v1.2.3",
		"  Git Commit: abc123",
		"  Build Date: 2026-10-19",
		"  Go Version: go1.24.0",
		"  OS/Arch:    linux/amd64",
	}, lines)
}
