package common

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueHandlerBatches(t *testing.T) {
	var mu sync.Mutex
	batches := [][]int{}
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)

	q.Add(1, 2, 3, 4, 5)
	q.Stop()
	q.Stop()

	total := 0
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 2)
		total += len(b)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 0, q.Len())
}

func TestQueueHandlerProcessesWithoutStop(t *testing.T) {
	got := make(chan []string, 1)
	q := NewQueueHandler(func(items []string) {
		got <- items
	}, 10, time.Hour)
	defer q.Stop()

	q.Add("session")
	select {
	case items := <-got:
		assert.Equal(t, []string{"session"}, items)
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not process the item")
	}
}
