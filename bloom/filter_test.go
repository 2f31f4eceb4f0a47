package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stankin-rag/priem/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Insert(t *testing.T) {
	t.Parallel()

	t.Run("reports first insertion only", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)

		assert.True(t, f.Insert("https://stankin.ru/priem"))
		assert.False(t, f.Insert("https://stankin.ru/priem"))
		assert.True(t, f.Contains("https://stankin.ru/priem"))
		assert.False(t, f.Contains("https://stankin.ru/news"))
	})

	t.Run("admits each URL once under concurrent inserts", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.001)
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			won int
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if f.Insert("https://stankin.ru/priem/bachelor") {
					mu.Lock()
					won++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, won)
	})
}

func TestFilter_Count(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.Count())

	for i := range 3 {
		f.Insert(fmt.Sprintf("https://stankin.ru/page/%d", i))
	}
	f.Insert("https://stankin.ru/page/0")

	count := f.Count()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 10000
	f := bloom.NewFilter(n, 0.01)
	for i := range n {
		f.Insert(fmt.Sprintf("https://stankin.ru/seen/%d", i))
	}

	hits := 0
	for i := range n {
		if f.Contains(fmt.Sprintf("https://stankin.ru/unseen/%d", i)) {
			hits++
		}
	}

	assert.Less(t, float64(hits)/n, 0.02)
}
