package commands

import (
	"fmt"

	"sysyc/internal/buildinfo"
)

// Version prints the compiler's own release version.
func Version() {
	fmt.Println(buildinfo.Version)
}
