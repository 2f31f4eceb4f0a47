package priem

import "context"

// Asker answers natural language questions about admissions from the index.
type Asker interface {
	// Ask returns ENOTFOUND when nothing relevant is indexed.
	Ask(ctx context.Context, question string) (string, error)
}
