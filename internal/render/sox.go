package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"sweepcheck/internal/catalog"
)

// DefaultSoxBin is the binary looked up on PATH when no explicit path
// is configured.
const DefaultSoxBin = "sox"

// SoxEngine implements Engine by shelling out to SoX. Effect arguments
// are rendered by the catalog's builder registry.
type SoxEngine struct {
	Bin string
}

// NewSoxEngine returns an engine invoking bin, or "sox" from PATH when
// bin is empty.
func NewSoxEngine(bin string) *SoxEngine {
	if bin == "" {
		bin = DefaultSoxBin
	}
	return &SoxEngine{Bin: bin}
}

// Apply runs `sox <in> <out> <effect args...>`. SoX writes diagnostics
// to stderr; on failure the captured stderr tail is folded into the
// returned error so the per-file report says why the engine refused the
// parameter combination.
func (e *SoxEngine) Apply(transform string, a catalog.Assignment, inPath, outPath string) error {
	effectArgs, err := catalog.BuildArgs(transform, a)
	if err != nil {
		return err
	}

	args := append([]string{inPath, outPath}, effectArgs...)
	cmd := exec.Command(e.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sox %s: %w: %s", transform, err, lastLine(stderr.String()))
	}
	return nil
}

// lastLine extracts the final non-empty stderr line, which is where SoX
// puts its actual failure reason.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
