package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/crawl"
	"github.com/stankin-rag/priem/excelize"
	"github.com/stankin-rag/priem/fs"
)

// Run executes the programs command.
func (c *ProgramsCmd) Run(deps *Dependencies) error {
	pages := make([]*priem.RawPage, 0, len(c.Sources))
	for _, src := range c.Sources {
		page, err := loadPage(deps, src)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", src, priem.ErrorMessage(err))
			return err
		}
		pages = append(pages, page)
	}

	records, err := deps.Pipeline.ParseAll(deps.Ctx, pages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}

	if err := fs.NewRecordFile(c.Out, deps.Validator).Save(records); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", c.Out, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Extracted %d programs from %d pages to %s\n", len(records), len(pages), c.Out)

	if c.XLSX != "" {
		if err := writeXLSX(c.XLSX, records); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", c.XLSX, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote spreadsheet %s\n", c.XLSX)
	}

	if c.Store {
		if err := storeRecords(deps, pages, records); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Stored %d programs\n", len(records))
	}
	return nil
}

// loadPage fetches src when it is a URL and reads it from disk otherwise.
func loadPage(deps *Dependencies, src string) (*priem.RawPage, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		html, err := crawl.FetchWithRetry(deps.Ctx, deps.Fetcher, src, deps.RetryDelays, deps.Logger)
		if err != nil {
			return nil, err
		}
		return &priem.RawPage{URL: src, HTML: html}, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	return &priem.RawPage{URL: src, HTML: string(data)}, nil
}

func writeXLSX(path string, records []*priem.AdmissionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := excelize.WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// storeRecords replaces every page's records in the database.
func storeRecords(deps *Dependencies, pages []*priem.RawPage, records []*priem.AdmissionRecord) error {
	for _, page := range pages {
		if err := deps.Records.DeleteRecordsBySource(deps.Ctx, page.URL); err != nil {
			return err
		}
	}
	return deps.Records.CreateRecords(deps.Ctx, records)
}
