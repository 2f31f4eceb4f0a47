package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/crawl"
	"github.com/stankin-rag/priem/extract"
	"github.com/stankin-rag/priem/fs"
	"github.com/stankin-rag/priem/index"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Records priem.RecordService
	Chunks  priem.ChunkService

	Fetcher     priem.Fetcher
	RetryDelays []time.Duration
	Pipeline    *extract.Pipeline
	Crawler     *crawl.Crawler
	Indexer     *index.Indexer
	Validator   fs.Validator

	// QueryEmbedder embeds search queries. Documents are embedded by Indexer.
	QueryEmbedder priem.Embedder
	Asker         priem.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" help:"YAML file overriding extraction anchors and abbreviations"`
	Browser bool   `help:"Render pages in headless Chrome instead of plain HTTP"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Programs ProgramsCmd `cmd:"" help:"Extract study programs from admission pages"`
	Crawl    CrawlCmd    `cmd:"" help:"Crawl the site and index its pages"`
	Podcasts PodcastsCmd `cmd:"" help:"Index podcast transcripts"`
	Index    IndexCmd    `cmd:"" help:"Index extracted program records"`
	Search   SearchCmd   `cmd:"" help:"Show the indexed chunks nearest to a query"`
	Stats    StatsCmd    `cmd:"" help:"Count indexed chunks by source type"`
	Ask      AskCmd      `cmd:"" help:"Answer an applicant's question"`
}

// ProgramsCmd is the "programs" subcommand.
type ProgramsCmd struct {
	Sources []string `arg:"" help:"Page URLs or saved HTML files"`
	Out     string   `short:"o" default:"programs.json" help:"Records JSON output path"`
	XLSX    string   `name:"xlsx" help:"Also write a spreadsheet to this path"`
	Store   bool     `help:"Replace the pages' records in the database"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string   `arg:"" help:"Start URL"`
	Depth       int      `short:"d" default:"4" help:"Maximum link depth"`
	MaxPages    int      `default:"1000" help:"Maximum pages to fetch"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64  `default:"2" help:"Requests per second per host (0 disables)"`
	Filter      []string `short:"F" name:"filter" help:"Only follow URLs matching regex (repeatable)"`
	Exclude     []string `short:"x" help:"Never follow URLs matching regex (repeatable)"`
	Save        string   `type:"path" help:"Directory to keep the crawled pages as markdown"`
	NoIndex     bool     `help:"Crawl without indexing"`
}

// PodcastsCmd is the "podcasts" subcommand.
type PodcastsCmd struct {
	Dir string `arg:"" type:"path" help:"Directory of podcast JSON files"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Records string `arg:"" optional:"" type:"path" default:"programs.json" help:"Records JSON written by programs"`
	Pages   string `type:"path" help:"Also reindex pages saved by crawl --save"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string   `arg:"" help:"Search query"`
	Limit    int      `short:"n" default:"5" help:"Number of results"`
	Type     []string `short:"t" help:"Restrict to source types: table, web, podcast (repeatable)"`
	MinScore float32  `help:"Drop results below this similarity"`
	Full     bool     `help:"Print full chunk content"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question about admission"`
}
