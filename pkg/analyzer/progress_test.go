package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressCall struct {
	done, total int
	path        string
	failed      bool
}

func TestTracker_Finish(t *testing.T) {
	var calls []progressCall
	tracker := NewTracker(func(done, total int, path string, err error) {
		calls = append(calls, progressCall{done, total, path, err != nil})
	})

	tracker.Add(3)
	tracker.Finish("A.java", nil)
	tracker.Finish("B.java", errors.New("unreadable"))
	tracker.Finish("C.java", nil)

	assert.Equal(t, 3, tracker.Total())
	assert.Equal(t, 3, tracker.Done())
	assert.Equal(t, []string{"B.java"}, tracker.Failed())
	require.Len(t, calls, 3)
	assert.Equal(t, progressCall{1, 3, "A.java", false}, calls[0])
	assert.Equal(t, progressCall{2, 3, "B.java", true}, calls[1])
	assert.Equal(t, progressCall{3, 3, "C.java", false}, calls[2])
}

func TestTracker_FailedIsCopy(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Finish("A.java", errors.New("boom"))

	failed := tracker.Failed()
	failed[0] = "changed"
	assert.Equal(t, []string{"A.java"}, tracker.Failed())
}

func TestTracker_ConcurrentFinish(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(100)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if i%10 == 0 {
				err = errors.New("bad")
			}
			tracker.Finish("A.java", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, tracker.Done())
	assert.Len(t, tracker.Failed(), 10)
}

func TestTrackerFromContext(t *testing.T) {
	assert.Nil(t, TrackerFromContext(context.Background()))

	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)
	assert.Same(t, tracker, TrackerFromContext(ctx))
}
