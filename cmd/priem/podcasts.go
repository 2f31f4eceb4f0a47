package main

import (
	"fmt"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/fs"
)

// Run executes the podcasts command.
func (c *PodcastsCmd) Run(deps *Dependencies) error {
	podcasts, err := fs.LoadPodcasts(c.Dir, deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}

	var docs []*priem.Document
	for _, p := range podcasts {
		docs = append(docs, priem.NewPodcastDocuments(p)...)
	}
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no podcast segments found in %s\n", c.Dir)
		return priem.Errorf(priem.ENOTFOUND, "no podcast segments in %s", c.Dir)
	}
	fmt.Fprintf(deps.Stdout, "Read %d podcasts with %d segments\n", len(podcasts), len(docs))

	return reindex(deps, priem.SourcePodcast, docs)
}
