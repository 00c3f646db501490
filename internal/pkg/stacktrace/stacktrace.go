package stacktrace

import "strings"

// InternalPaths extracts the file:line frames under internal/ from a raw
// debug.Stack dump, trimming module path noise so panic logs stay short.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")

	paths := make([]string, 0, len(lines))
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "/internal/") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		frame := line[:end]
		if cut := strings.Index(frame, "/internal/"); cut != -1 {
			paths = append(paths, frame[cut+1:])
		}
	}

	return paths
}
