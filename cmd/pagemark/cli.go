package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/crawl"
)

// Dependencies holds the services and configuration each command runs
// against.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config Config

	Validator pagemark.URLValidator
	Renderer  pagemark.Renderer
	Converter *pagemark.DocumentConverter
	Cache     pagemark.ConversionCache
	Sitemaps  pagemark.SitemapService
	Crawler   *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"C" help:"Path to YAML config file" type:"path"`

	Serve   ServeCmd   `cmd:"" help:"Run the conversion HTTP service"`
	Convert ConvertCmd `cmd:"" help:"Convert a single URL to Markdown"`
	Crawl   CrawlCmd   `cmd:"" help:"Convert a whole site to Markdown files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"HTTP bind address (overrides config)"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	URL       string `arg:"" help:"URL to convert"`
	Output    string `short:"o" help:"Write Markdown to a file instead of stdout" type:"path"`
	Extractor string `short:"e" default:"heuristic" enum:"heuristic,trafilatura,readability" help:"Content extractor to use"`
	Stats     bool   `help:"Print conversion stats to stderr"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string   `arg:"" help:"Site URL to crawl"`
	OutputDir   string   `short:"o" default:"." help:"Directory for Markdown files" type:"path"`
	Filter      []string `short:"F" name:"filter" help:"Include URLs matching regex (repeatable)"`
	Exclude     []string `short:"X" name:"exclude" help:"Exclude URLs matching regex (repeatable)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent page limit"`
	RPS         float64  `default:"1.0" help:"Max requests per second per domain"`
}
