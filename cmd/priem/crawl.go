package main

import (
	"fmt"
	"path/filepath"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	pages, result, err := deps.Crawler.Crawl(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", priem.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed, %d skipped)\n", len(pages), result.Failed, result.Skipped)

	if c.Save != "" {
		if err := savePages(c.Save, pages); err != nil {
			fmt.Fprintf(deps.Stderr, "error saving pages: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved pages to %s\n", c.Save)
	}

	if c.NoIndex {
		return nil
	}
	docs := make([]*priem.Document, len(pages))
	for i, p := range pages {
		docs[i] = priem.NewPageDocument(p)
	}
	return reindex(deps, priem.SourceWeb, docs)
}

// savePages replaces the snapshot in dir with pages.
func savePages(dir string, pages []*priem.Page) error {
	store := fs.NewPageStore(filepath.Dir(dir), filepath.Base(dir))
	for _, p := range pages {
		if err := store.Save(p); err != nil {
			_ = store.Abort()
			return err
		}
	}
	return store.Commit()
}
