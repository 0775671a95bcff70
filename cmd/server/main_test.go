package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer blocks in Start until Shutdown is called, then takes drain
// to finish shutting down.
type fakeServer struct {
	stopped  chan struct{}
	drain    time.Duration
	startErr error
	drained  atomic.Bool
}

func newFakeServer(drain time.Duration) *fakeServer {
	return &fakeServer{stopped: make(chan struct{}), drain: drain}
}

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	close(f.stopped)
	select {
	case <-time.After(f.drain):
		f.drained.Store(true)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestServe_WaitsForShutdown(t *testing.T) {
	srv := newFakeServer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := serve(ctx, srv, time.Second); err != nil {
		t.Fatalf("serve() error = %v", err)
	}
	if !srv.drained.Load() {
		t.Error("serve returned before in-flight requests drained")
	}
}

func TestServe_ShutdownTimeout(t *testing.T) {
	srv := newFakeServer(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := serve(ctx, srv, 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("serve() error = %v, want deadline exceeded", err)
	}
}

func TestServe_StartError(t *testing.T) {
	srv := newFakeServer(0)
	srv.startErr = errors.New("address already in use")

	err := serve(context.Background(), srv, time.Second)
	if err == nil || err.Error() != "address already in use" {
		t.Errorf("serve() error = %v, want start error", err)
	}
}
