package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"webfigscan/internal/platform/logx"
	"webfigscan/internal/testutil"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	const size = 4
	pool := New(Config{Size: size, Logger: logx.Nop()})

	var running, maxSeen int32
	var mu sync.Mutex

	for i := 0; i < 100; i++ {
		err := pool.Go(context.Background(), func() {
			n := atomic.AddInt32(&running, 1)
			mu.Lock()
			if n > maxSeen {
				maxSeen = n
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
		testutil.AssertNoError(t, err, "Go should admit")
	}
	pool.Wait()

	stats := pool.Stats()
	testutil.AssertTrue(t, maxSeen <= size, "observed concurrency must not exceed size")
	testutil.AssertTrue(t, stats.Peak <= size, "recorded peak must not exceed size")
	testutil.AssertEqual(t, stats.Completed, int64(100), "all tasks should complete")
	testutil.AssertEqual(t, stats.InFlight, int64(0), "nothing should be in flight after Wait")
}

func TestPool_GoBlocksUntilSlotFrees(t *testing.T) {
	pool := New(Config{Size: 1, Logger: logx.Nop()})
	release := make(chan struct{})

	err := pool.Go(context.Background(), func() { <-release })
	testutil.AssertNoError(t, err, "first Go should admit")

	admitted := make(chan struct{})
	go func() {
		_ = pool.Go(context.Background(), func() {})
		close(admitted)
	}()

	select {
	case <-admitted:
		t.Fatal("second Go must block while the only slot is busy")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case <-admitted:
	case <-time.After(time.Second):
		t.Fatal("second Go should be admitted once the slot frees")
	}
	pool.Wait()
}

func TestPool_GoReturnsContextError(t *testing.T) {
	pool := New(Config{Size: 1, Logger: logx.Nop()})
	release := make(chan struct{})
	_ = pool.Go(context.Background(), func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ran := false
	err := pool.Go(ctx, func() { ran = true })
	testutil.AssertError(t, err, "Go should fail when ctx expires while waiting")

	close(release)
	pool.Wait()
	testutil.AssertFalse(t, ran, "rejected task must not run")
}

func TestNew_ClampsSize(t *testing.T) {
	pool := New(Config{Size: 0, Logger: logx.Nop()})
	testutil.AssertEqual(t, pool.Stats().Size, 1, "size should clamp to 1")
}
