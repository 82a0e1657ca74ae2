package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroup_Do(t *testing.T) {
	var g Group[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	results := make(chan string, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("player|fbref:a1b2c3d4", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "p-1", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			results <- val
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	for val := range results {
		if val != "p-1" {
			t.Fatalf("unexpected shared value: got=%s want=p-1", val)
		}
	}
}

func TestGroup_ErrorIsNotCached(t *testing.T) {
	var g Group[int]
	boom := errors.New("boom")

	if _, err, _ := g.Do("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("unexpected error: got=%v want=%v", err, boom)
	}
	val, err, shared := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || val != 7 || shared {
		t.Fatalf("unexpected second call: val=%d err=%v shared=%t", val, err, shared)
	}
}
