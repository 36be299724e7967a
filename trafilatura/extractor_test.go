package trafilatura_test

import (
	"testing"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content and drops boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
<nav><a href="/">Home</a><a href="/news">News</a></nav>
<article>
<h1>Breaking News</h1>
<p>This is the important article body that should survive extraction.
It has enough prose for the extractor to treat it as real content.</p>
</article>
<footer>Copyright 2026</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "important article body")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026")
	})

	t.Run("empty input is a format error", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()

		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, pagemark.EINVALID, pagemark.ErrorCode(err))
	})
}
