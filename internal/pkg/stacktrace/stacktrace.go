package stacktrace

import "strings"

// InternalPaths returns the "internal/...file.go:line" locations found in a
// raw debug.Stack() dump, innermost first.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "/internal/") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		loc, _, _ := strings.Cut(line, " ")
		if i := strings.Index(loc, "/internal/"); i != -1 {
			paths = append(paths, loc[i+1:])
		}
	}

	return paths
}
