package main

import (
	"fmt"

	"github.com/stankin-rag/priem"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if priem.ErrorCode(err) == priem.ENOTFOUND {
		fmt.Fprintln(deps.Stderr, "error: nothing relevant is indexed. Run 'priem index', 'priem crawl' or 'priem podcasts' first.")
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", priem.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
