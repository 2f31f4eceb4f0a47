package mock

import (
	"context"

	"github.com/stankin-rag/priem"
)

var _ priem.Asker = (*Asker)(nil)

// Asker is a mock implementation of priem.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}
