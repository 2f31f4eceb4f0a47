package main_test

import (
	"context"
	"testing"

	"github.com/stankin-rag/priem"
	main "github.com/stankin-rag/priem/cmd/priem"
	"github.com/stankin-rag/priem/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("asks question and prints answer", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Asker = &mock.Asker{
			AskFn: func(_ context.Context, question string) (string, error) {
				if question == "Сколько бюджетных мест на 09.03.01?" {
					return "50 бюджетных мест.", nil
				}
				return "", nil
			},
		}

		cmd := &main.AskCmd{Question: "Сколько бюджетных мест на 09.03.01?"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "50 бюджетных мест.\n", stdout.String())
	})

	t.Run("suggests indexing when nothing is found", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Asker = &mock.Asker{
			AskFn: func(context.Context, string) (string, error) {
				return "", priem.Errorf(priem.ENOTFOUND, "no indexed content")
			},
		}

		err := (&main.AskCmd{Question: "Есть ли общежитие?"}).Run(deps)

		assert.Equal(t, priem.ENOTFOUND, priem.ErrorCode(err))
		assert.Contains(t, stderr.String(), "priem index")
	})
}
