// Package buildinfo provides the ambient build-metadata helpers the CLI
// stamps onto every emitted artifact: a per-build id, human-readable size
// and duration formatting, and TTY-aware color gating.
package buildinfo

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/mod/semver"
)

// Version is the compiler's own release version, printed by the `version`
// subcommand and compared against by CompareVersion.
const Version = "v0.1.0"

// NewBuildID mints a fresh v4 build identifier, stamped into the
// `# build <uuid> size <n>` directive when the CLI is given --build-id.
func NewBuildID() string {
	return uuid.New().String()
}

// Directive renders the leading comment line that --build-id prepends to
// the output: build id, output size, and wall-clock compile duration.
func Directive(buildID string, size int, elapsed time.Duration) string {
	return fmt.Sprintf("# build %s size %s in %s", buildID, humanize.Bytes(uint64(size)), humanize.RelTime(time.Now().Add(-elapsed), time.Now(), "", ""))
}

// FormatSize renders a byte count the way build summaries print it.
func FormatSize(n int) string {
	return humanize.Bytes(uint64(n))
}

// FormatDuration renders an elapsed compile time the way build summaries
// print it.
func FormatDuration(d time.Duration) string {
	return humanize.RelTime(time.Now().Add(-d), time.Now(), "", "")
}

// ColorEnabled reports whether the given file descriptor is a terminal the
// CLI should decorate with ANSI color — gated the same way so piped/redirected
// output (CI logs, `| tee build.log`) never gets escape codes.
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// CompareVersion compares a requested minimum compiler version against
// Version using semantic-version ordering; returns <0, 0, >0 as per
// semver.Compare. want is normalized with a leading "v" if missing.
func CompareVersion(want string) int {
	if len(want) == 0 || want[0] != 'v' {
		want = "v" + want
	}
	return semver.Compare(Version, want)
}
