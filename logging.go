package tsresolve

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var warnColor = color.New(color.FgYellow)

// logWarning prints a non-fatal diagnostic to stderr.
func logWarning(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, "warning: %s\n", fmt.Sprintf(format, args...))
}
