package pagemark

import (
	"regexp"
	"strings"
)

// Normalization regexes. Blank-line insertion is "ensure" semantics
// (insert only when missing) so that NormalizeMarkdown is idempotent.
var (
	excessNewlines = regexp.MustCompile(`\n\s*\n\s*\n+`)
	listItemLine   = regexp.MustCompile(`^[ \t]*[-*+] `)
	headingLine    = regexp.MustCompile(`^#{1,6} `)
	fenceLine      = regexp.MustCompile("^[ \t]*```")
)

// NormalizeMarkdown post-processes raw Markdown for consistent
// whitespace and structure. Rules, in order: collapse runs of three or
// more newlines to two; ensure a blank line precedes list items,
// headings, and fenced-code-block openings; strip trailing whitespace
// from every line; end the document with exactly one trailing newline.
//
// The collapse step must run first: it would otherwise erase the blank
// lines the later steps insert.
func NormalizeMarkdown(markdown string) string {
	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")

	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")

		if !inFence && needsBlankBefore(trimmed) {
			if n := len(out); n > 0 && strings.TrimSpace(out[n-1]) != "" {
				out = append(out, "")
			}
		}
		if fenceLine.MatchString(trimmed) {
			inFence = !inFence
		}
		out = append(out, trimmed)
	}

	result := strings.TrimRight(strings.Join(out, "\n"), "\n")
	return result + "\n"
}

func needsBlankBefore(line string) bool {
	return listItemLine.MatchString(line) ||
		headingLine.MatchString(line) ||
		fenceLine.MatchString(line)
}
