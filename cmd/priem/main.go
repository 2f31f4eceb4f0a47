package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/chunk"
	"github.com/stankin-rag/priem/crawl"
	"github.com/stankin-rag/priem/extract"
	"github.com/stankin-rag/priem/gemini"
	"github.com/stankin-rag/priem/goquery"
	"github.com/stankin-rag/priem/htmltomarkdown"
	priemhttp "github.com/stankin-rag/priem/http"
	"github.com/stankin-rag/priem/index"
	"github.com/stankin-rag/priem/jsonschema"
	"github.com/stankin-rag/priem/readability"
	"github.com/stankin-rag/priem/rod"
	priemslog "github.com/stankin-rag/priem/slog"
	"github.com/stankin-rag/priem/sqlite"
	"github.com/stankin-rag/priem/trafilatura"
	"github.com/stankin-rag/priem/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Closed by Close along with the database.
	Fetcher priem.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		_ = m.Fetcher.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	parser, err := kong.New(cli,
		kong.Name("priem"),
		kong.Description("Extract and search university admission data"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'priem --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := ""
	if node := kongCtx.Selected(); node != nil {
		cmd = node.Name
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.RetryDelays = crawl.DefaultRetryDelays()

	cfg, err := yaml.LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PRIEM_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()
	deps.Records = sqlite.NewRecordService(m.DB)
	deps.Chunks = sqlite.NewChunkService(m.DB)

	validator, err := jsonschema.NewValidator()
	if err != nil {
		return err
	}
	deps.Validator = validator

	converter := htmltomarkdown.NewConverter()

	if cmd == "programs" || cmd == "crawl" {
		var fetcher priem.Fetcher
		if cli.Browser {
			fetcher, err = rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		} else {
			fetcher = priemhttp.NewFetcher()
		}
		m.Fetcher = priemslog.NewLoggingFetcher(fetcher, logger)
		deps.Fetcher = m.Fetcher
	}

	if cmd == "programs" {
		normalizer := goquery.NewNormalizer(htmltomarkdown.NewConverter(htmltomarkdown.WithoutEscapes()), goquery.WithLogger(logger))
		deps.Pipeline = extract.NewPipeline(priemslog.NewLoggingNormalizer(normalizer, logger), cfg, logger)
	}

	if cmd == "crawl" {
		filter, err := compileFilter(cli.Crawl.Filter, cli.Crawl.Exclude)
		if err != nil {
			return err
		}
		deps.Crawler = &crawl.Crawler{
			Fetcher:     deps.Fetcher,
			Links:       goquery.ExtractLinks,
			Sitemaps:    priemslog.NewLoggingSitemapService(priemhttp.NewSitemapService(nil), logger),
			Extractor:   trafilatura.NewExtractor(trafilatura.WithFallback(readability.NewExtractor())),
			Converter:   converter,
			RateLimiter: crawl.NewDomainLimiter(cli.Crawl.Rate),
			Filter:      filter,
			MaxDepth:    cli.Crawl.Depth,
			MaxPages:    cli.Crawl.MaxPages,
			Concurrency: cli.Crawl.Concurrency,
			RetryDelays: deps.RetryDelays,
			Logger:      logger,
		}
	}

	needsIndex := cmd == "podcasts" || cmd == "index" || (cmd == "crawl" && !cli.Crawl.NoIndex)
	if needsIndex || cmd == "search" || cmd == "ask" {
		client, err := newGeminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		deps.Indexer = &index.Indexer{
			Chunks:   deps.Chunks,
			Embedder: priemslog.NewLoggingEmbedder(gemini.NewEmbedder(client, gemini.TaskDocument), logger),
			Chunker:  chunk.NewSplitter(logger),
			Logger:   logger,
		}
		deps.QueryEmbedder = priemslog.NewLoggingEmbedder(gemini.NewEmbedder(client, gemini.TaskQuery), logger)
		deps.Asker = gemini.NewAsker(client, deps.QueryEmbedder, deps.Chunks, priem.SearchOptions{MinScore: minAskScore})
	}

	return kongCtx.Run(deps)
}

// minAskScore drops chunks too dissimilar to help an answer.
const minAskScore = 0.3

func newGeminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// compileFilter builds a URL filter from include and exclude patterns.
// It returns nil when both are empty.
func compileFilter(include, exclude []string) (*priem.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	filter := &priem.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, priem.Errorf(priem.EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, priem.Errorf(priem.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}

func defaultDBPath() string {
	if path := os.Getenv("PRIEM_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "priem.db"
	}
	dir := filepath.Join(home, ".priem")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "priem.db")
}
