// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// blockingWorker counts its runs and waits for cancellation.
type blockingWorker struct {
	runCount atomic.Int32
}

func (m *blockingWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	<-ctx.Done()
	return nil
}

func runAsync(ws *Workers, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()
	return done
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &blockingWorker{}, &blockingWorker{}, &blockingWorker{}
	ws := NewWorkers(logger.Nop(), w1, w2, w3)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ws, ctx)

	deadline := time.Now().Add(2 * time.Second)
	for w1.runCount.Load()+w2.runCount.Load()+w3.runCount.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("workers were not started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
	for i, w := range []*blockingWorker{w1, w2, w3} {
		if n := w.runCount.Load(); n != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, n)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers(logger.Nop())

	if err := ws.Run(context.Background()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestWorkers_Run_FailureCancelsOthers(t *testing.T) {
	errBoom := errors.New("boom")
	survivor := &blockingWorker{}

	ws := NewWorkers(logger.Nop(), survivor)
	ws.Add(WorkerFunc(func(context.Context) error { return errBoom }))

	select {
	case err := <-runAsync(ws, context.Background()):
		if !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("a failing worker did not stop the others")
	}
}

func TestWorkerFunc(t *testing.T) {
	called := false
	var w Worker = WorkerFunc(func(context.Context) error {
		called = true
		return nil
	})

	if err := w.Run(context.Background()); err != nil || !called {
		t.Errorf("expected the function to run cleanly, called=%v err=%v", called, err)
	}
}
