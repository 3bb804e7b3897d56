package platform

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("studyclock-test-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestSecondAcquireFails(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port for %s unavailable: %v", name, err)
	}
	defer guard.Release()

	if _, err := AcquireSingleInstance(name); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second acquire error = %v, want ErrAlreadyRunning", err)
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := AcquireSingleInstance(name)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestSignalRunningShowsHolder(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port for %s unavailable: %v", name, err)
	}
	defer guard.Release()

	ctx, cancel := context.WithCancel(context.Background())
	shown := make(chan struct{}, 1)
	served := make(chan error, 1)
	go func() {
		served <- guard.Serve(ctx, func() { shown <- struct{}{} })
	}()

	if err := SignalRunning(name); err != nil {
		t.Fatalf("SignalRunning: %v", err)
	}
	select {
	case <-shown:
	case <-time.After(2 * time.Second):
		t.Fatal("show callback not invoked")
	}

	cancel()
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}

func TestSignalRunningWithoutWindow(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port for %s unavailable: %v", name, err)
	}
	defer guard.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go guard.Serve(ctx, nil)

	if err := SignalRunning(name); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("SignalRunning error = %v, want ErrNoWindow", err)
	}
}

func TestPortFromNameIsStable(t *testing.T) {
	if portFromName("StudyClock") != portFromName("StudyClock") {
		t.Fatal("port must be deterministic")
	}
	if port := portFromName("x"); port < 20000 || port > 39999 {
		t.Fatalf("port %d out of range", port)
	}
}
