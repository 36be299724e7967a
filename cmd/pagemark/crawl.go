package main

import (
	"fmt"
	"regexp"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/crawl"
	"github.com/pagemark/pagemark/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	filter, err := compileFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	deps.Crawler.Writer = fs.NewWriter(c.OutputDir)

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", event.Total)
		case crawl.ProgressDenied:
			fmt.Fprintf(deps.Stderr, "  denied %s: %s\n", event.URL, pagemark.ErrorMessage(event.Error))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  failed %s: %s\n", event.URL, pagemark.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Crawler.CrawlSite(deps.Ctx, c.URL, filter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Converted %d pages (%d bytes) to %s\n", result.Converted, result.Bytes, c.OutputDir)
	if result.Denied > 0 {
		fmt.Fprintf(deps.Stdout, "Denied %d pages\n", result.Denied)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "Failed %d pages\n", result.Failed)
	}

	return nil
}

// compileFilter builds a URLFilter from include and exclude patterns.
func compileFilter(include, exclude []string) (*pagemark.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	filter := &pagemark.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
