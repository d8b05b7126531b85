package lifecycle_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/remit/pkg/lifecycle"
)

func TestStartupReady(t *testing.T) {
	lc := lifecycle.New()
	var ran atomic.Int32

	for range 3 {
		lc.OnStartup(func() error {
			ran.Add(1)
			return nil
		})
	}

	if lc.Ready() {
		t.Fatal("ready before WaitForStartup")
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup: %v", err)
	}
	if ran.Load() != 3 {
		t.Errorf("ran = %d, want 3", ran.Load())
	}
	if !lc.Ready() {
		t.Error("not ready after startup")
	}
}

func TestStartupFailure(t *testing.T) {
	lc := lifecycle.New()
	boom := errors.New("ping failed")

	lc.OnStartup(func() error { return nil })
	lc.OnStartup(func() error { return boom })

	err := lc.WaitForStartup()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if lc.Ready() {
		t.Error("ready after failed startup")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()
	var closed atomic.Bool

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !closed.Load() {
		t.Error("shutdown hook did not run")
	}
	if lc.Context().Err() == nil {
		t.Error("context not cancelled")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()
	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() { <-release })

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
}
