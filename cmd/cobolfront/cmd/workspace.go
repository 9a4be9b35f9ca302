package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/maruel/natural"
)

// resolveWorkspaceFiles expands each of patterns (e.g. "*.cob",
// "copybooks/*.cob") via filesystem glob, drops the entry point itself if a
// pattern happens to match it (the entry point is always tokenized first,
// never as an "additional" workspace file), and naturally sorts the result
// so FILE10.cob sorts after FILE2.cob rather than before it, the order the
// batch compilation's concatenated token stream is built in (§6 "Workspace
// enumeration").
func resolveWorkspaceFiles(entryPoint string, patterns []string) ([]string, error) {
	seen := map[string]bool{entryPoint: true}
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("workspace: expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	natural.Sort(files)
	return files, nil
}
