package main

import (
	"fmt"
	"os"

	"github.com/pagemark/pagemark"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	if _, err := deps.Validator.Validate(deps.Ctx, c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	page, err := deps.Renderer.Render(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}
	if page.HTML == "" {
		err := pagemark.Errorf(pagemark.ENOTFOUND, "no content rendered for %s", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	base := page.FinalURL
	if base == "" {
		base = c.URL
	}
	result, err := deps.Converter.Convert(page.HTML, base)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(result.Markdown), 0644); err != nil {
			return err
		}
	} else {
		fmt.Fprint(deps.Stdout, result.Markdown)
	}

	if c.Stats {
		s := result.Stats
		fmt.Fprintf(deps.Stderr, "html: %d bytes, markdown: %d bytes (ratio %.2f)\n",
			s.HTMLLength, s.MarkdownLength, s.CompressionRatio)
		fmt.Fprintf(deps.Stderr, "headings: %d, paragraphs: %d, links: %d, images: %d, lists: %d, tables: %d\n",
			s.HeadingCount, s.ParagraphCount, s.LinkCount, s.ImageCount, s.ListCount, s.TableCount)
	}

	return nil
}
