package retriever

import (
	"fmt"
	"strings"

	"codeberg.org/lumina/server/internal/storage"
)

// formats each result as "Source (<filename>): <content>", separated by a
// blank line, in distance order
func buildContext(results []storage.SearchResult) string {
	var b strings.Builder

	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}

		fmt.Fprintf(&b, "Source (%s): %s", r.Filename, r.Content)
	}

	return b.String()
}

// filenames of results without repeats, in first-seen order
func uniqueSources(results []storage.SearchResult) []string {
	seen := make(map[string]bool, len(results))
	sources := make([]string, 0, len(results))

	for _, r := range results {
		if seen[r.Filename] {
			continue
		}

		seen[r.Filename] = true
		sources = append(sources, r.Filename)
	}

	return sources
}
