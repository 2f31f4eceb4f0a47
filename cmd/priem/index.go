package main

import (
	"fmt"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/fs"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	records, err := fs.NewRecordFile(c.Records, deps.Validator).Load()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}
	docs := make([]*priem.Document, len(records))
	for i, r := range records {
		docs[i] = priem.NewRecordDocument(r)
	}
	if err := reindex(deps, priem.SourceTable, docs); err != nil {
		return err
	}

	if c.Pages == "" {
		return nil
	}
	pages, err := fs.LoadPages(c.Pages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}
	docs = make([]*priem.Document, len(pages))
	for i, p := range pages {
		docs[i] = priem.NewPageDocument(p)
	}
	return reindex(deps, priem.SourceWeb, docs)
}

// reindex replaces the indexed chunks of sourceType with docs and reports
// the outcome.
func reindex(deps *Dependencies, sourceType string, docs []*priem.Document) error {
	result, err := deps.Indexer.Reindex(deps.Ctx, sourceType, docs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error indexing: %s\n", priem.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Indexed %d %s documents as %d chunks (%d duplicates skipped)\n",
		result.Documents, sourceType, result.Chunks, result.Duplicates)
	return nil
}
