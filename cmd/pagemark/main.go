package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/crawl"
	"github.com/pagemark/pagemark/goquery"
	"github.com/pagemark/pagemark/htmltomarkdown"
	pagehttp "github.com/pagemark/pagemark/http"
	"github.com/pagemark/pagemark/readability"
	"github.com/pagemark/pagemark/rod"
	pageslog "github.com/pagemark/pagemark/slog"
	"github.com/pagemark/pagemark/sqlite"
	"github.com/pagemark/pagemark/trafilatura"
)

func main() {
	m := NewMain()

	if err := m.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath overrides the --config flag when set before Run.
	ConfigPath string

	// SQLite database backing the conversion cache, if enabled.
	DB *sqlite.DB

	renderer pagemark.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.renderer != nil {
		if err := m.renderer.Close(); err != nil {
			return err
		}
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagemark"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagemark --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configPath := m.ConfigPath
	if configPath == "" {
		configPath = cli.Config
	}
	if configPath == "" {
		configPath = os.Getenv("PAGEMARK_CONFIG")
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	deps.Config = cfg

	// Safety validator with threat intel when an endpoint is configured.
	var analyzer pagemark.ThreatAnalyzer
	if cfg.Threat.Endpoint != "" {
		analyzer = pageslog.NewLoggingAnalyzer(pagehttp.NewThreatClient(cfg.Threat.Endpoint, nil), logger)
	}
	rules := append([]string{}, pagemark.DefaultBlockedDomains...)
	rules = append(rules, cfg.BlockedDomains...)
	deps.Validator = pageslog.NewLoggingValidator(
		pagemark.NewSafetyValidator(pagemark.NewBlocklist(rules), analyzer), logger)

	// Conversion pipeline. The extractor is swapped per the convert
	// command's --extractor flag; heuristic is the default.
	deps.Converter = &pagemark.DocumentConverter{
		Extractor: goquery.NewExtractor(),
		Rewriter:  goquery.NewRewriter(),
		Converter: htmltomarkdown.NewConverter(),
		Stats:     goquery.NewStatsCollector(),
	}
	if cmd == "convert" {
		switch cli.Convert.Extractor {
		case "trafilatura":
			deps.Converter.Extractor = trafilatura.NewExtractor()
		case "readability":
			deps.Converter.Extractor = readability.NewExtractor()
		}
	}

	deps.Sitemaps = pagehttp.NewSitemapService(nil)

	// Renderer: headless browser by default, plain HTTP when configured.
	if cmd == "serve" || cmd == "convert" || cmd == "crawl" {
		if cfg.Render.Static {
			m.renderer = pagehttp.NewRenderer(pagehttp.WithRenderTimeout(cfg.Render.Timeout))
		} else {
			r, err := rod.NewRenderer(rod.WithTimeout(cfg.Render.Timeout))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or set render.static in the config")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			m.renderer = r
		}
		deps.Renderer = pageslog.NewLoggingRenderer(m.renderer, logger)
	}
	defer m.Close()

	// Conversion cache, when configured.
	if cfg.Cache.Path != "" {
		m.DB = sqlite.NewDB(cfg.Cache.Path)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open cache at %q: %w", cfg.Cache.Path, err)
		}
		deps.Cache = sqlite.NewCacheService(m.DB)
	}

	if cmd == "crawl" {
		deps.Crawler = &crawl.Crawler{
			Sitemaps:    deps.Sitemaps,
			Validator:   deps.Validator,
			Renderer:    deps.Renderer,
			Converter:   deps.Converter,
			Limiter:     crawl.NewDomainLimiter(cli.Crawl.RPS),
			Concurrency: cli.Crawl.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}
