package shutdown

import (
	"testing"
	"time"
)

func TestShutdownOnce(t *testing.T) {
	m := NewManager()
	select {
	case <-m.Wait():
		t.Fatal("new manager should not be shutting down")
	default:
	}
	if !m.Shutdown() {
		t.Fatal("first Shutdown should return true")
	}
	if m.Shutdown() {
		t.Fatal("second Shutdown should return false")
	}
	select {
	case <-m.Wait():
	default:
		t.Fatal("manager should report shutting down")
	}
}

func TestWaitUnblocks(t *testing.T) {
	m := NewManager()
	done := make(chan struct{})
	go func() {
		<-m.Wait()
		close(done)
	}()
	m.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Shutdown")
	}
}
