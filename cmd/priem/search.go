package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stankin-rag/priem"
)

// previewLength is the number of runes of chunk content shown without --full.
const previewLength = 300

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	for _, t := range c.Type {
		switch t {
		case priem.SourceTable, priem.SourceWeb, priem.SourcePodcast:
		default:
			err := priem.Errorf(priem.EINVALID, "unknown source type %q", t)
			fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
			return err
		}
	}

	vectors, err := deps.QueryEmbedder.Embed(deps.Ctx, []string{c.Query})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}
	if len(vectors) != 1 {
		return priem.Errorf(priem.EINTERNAL, "expected one query embedding, got %d", len(vectors))
	}

	results, err := deps.Chunks.Search(deps.Ctx, vectors[0], priem.SearchOptions{
		SourceTypes: c.Type,
		Limit:       c.Limit,
		MinScore:    c.MinScore,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results")
		return nil
	}

	for i, r := range results {
		source := r.Chunk.SourceURL
		if source == "" {
			source = r.Chunk.SourceType
		}
		fmt.Fprintf(deps.Stdout, "%d. [%.4f] %s (%s)\n", i+1, r.Score, source, r.Chunk.SourceType)
		content := r.Chunk.Content
		if !c.Full {
			content = preview(content, previewLength)
		}
		fmt.Fprintln(deps.Stdout, indent(content))
	}
	return nil
}

// preview truncates s to n runes.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

func indent(s string) string {
	return "   " + strings.ReplaceAll(s, "\n", "\n   ")
}
