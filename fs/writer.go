// Package fs stores converted pages as Markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pagemark/pagemark"
)

// URLToPath converts a page URL to a relative file path mirroring the
// URL structure.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p := u.Path

	// Root or bare domain becomes index.md.
	if p == "" || p == "/" {
		return "index.md", nil
	}

	trailingSlash := strings.HasSuffix(p, "/")

	// Rooting the path before cleaning discards dot segments, so a URL
	// like /../../evil cannot map outside the output directory.
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "index.md", nil
	}

	// A trailing slash becomes index.md in that directory.
	if trailingSlash {
		return p + "/index.md", nil
	}

	return p + ".md", nil
}

// FormatPage renders a converted page with YAML frontmatter.
func FormatPage(page *pagemark.ConvertedPage) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nconverted: ")
	b.WriteString(page.ConvertedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Markdown)
	return b.String()
}

// Ensure Writer implements pagemark.PageWriter at compile time.
var _ pagemark.PageWriter = (*Writer)(nil)

// Writer writes converted pages as Markdown files under a base
// directory, one file per page, mirroring the URL path.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WritePage writes a page to disk as a Markdown file.
func (w *Writer) WritePage(ctx context.Context, page *pagemark.ConvertedPage) error {
	if err := page.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.SourceURL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatPage(page)), 0644)
}
