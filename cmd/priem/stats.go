package main

import (
	"fmt"
	"sort"

	"github.com/stankin-rag/priem"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	counts, err := deps.Chunks.CountChunks(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(deps.Stdout, "Index is empty")
		return nil
	}

	types := make([]string, 0, len(counts))
	total := 0
	for t, n := range counts {
		types = append(types, t)
		total += n
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(deps.Stdout, "%-8s %d\n", t, counts[t])
	}
	fmt.Fprintf(deps.Stdout, "%-8s %d\n", "total", total)
	return nil
}
