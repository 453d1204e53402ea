package shell

import (
	"strconv"
	"strings"
)

// pidMarker is the expansion variable replaced by the shell's own pid.
const pidMarker = "$$"

// expandPID replaces each non-overlapping occurrence of the $$ marker
// in line with pid in decimal, scanning left to right. Scanning resumes
// after a consumed marker, so inserted digits are never re-scanned and
// a replacement cannot fabricate a new marker. A line without markers
// is returned unchanged.
func expandPID(line string, pid int) string {
	if !strings.Contains(line, pidMarker) {
		return line
	}
	pidStr := strconv.Itoa(pid)
	var b strings.Builder
	b.Grow(len(line) + strings.Count(line, pidMarker)*len(pidStr))
	for i := 0; i < len(line); {
		if strings.HasPrefix(line[i:], pidMarker) {
			b.WriteString(pidStr)
			i += len(pidMarker)
			continue
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}
