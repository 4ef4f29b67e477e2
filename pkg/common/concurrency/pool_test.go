package concurrency

import (
	"context"
	"errors"
	"testing"
)

func TestWorkerPool_Process_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool[int, int](WithWorkerCount(2))

	results, err := pool.Process(context.Background(), []int{1, 2, 3, 4, 5}, func(_ context.Context, in int) (int, error) {
		return in * in, nil
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []int{1, 4, 9, 16, 25}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %d, want %d", i, results[i], want[i])
		}
	}
}

func TestWorkerPool_Process_PropagatesError(t *testing.T) {
	pool := NewWorkerPool[int, int]()
	wantErr := errors.New("boom")

	_, err := pool.Process(context.Background(), []int{1, 2, 3}, func(_ context.Context, in int) (int, error) {
		if in == 2 {
			return 0, wantErr
		}
		return in, nil
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("Process() error = %v, want %v", err, wantErr)
	}
}

func TestWorkerPool_Process_EmptyInput(t *testing.T) {
	pool := NewWorkerPool[int, int]()
	results, err := pool.Process(context.Background(), nil, func(_ context.Context, in int) (int, error) {
		return in, nil
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %v", results)
	}
}

func TestWithWorkerCount_IgnoresNonPositive(t *testing.T) {
	pool := NewWorkerPool[int, int](WithWorkerCount(0))
	if pool.workers <= 0 {
		t.Errorf("workers = %d, want > 0 (default kept)", pool.workers)
	}
}
