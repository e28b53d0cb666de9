package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestServeDrainsWhenListenFails(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	srv := &http.Server{Addr: taken.Addr().String(), ReadHeaderTimeout: time.Second}
	drained := false
	err = serve(context.Background(), srv, zap.NewNop().Sugar(), func() { drained = true })
	if err == nil {
		t.Fatal("expected the bind error")
	}
	if !drained {
		t.Error("worker pool was not stopped after the listener failed")
	}
}

func TestServeDrainsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second}

	done := make(chan error, 1)
	drained := make(chan struct{})
	go func() {
		done <- serve(ctx, srv, zap.NewNop().Sugar(), func() { close(drained) })
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve after cancel = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	select {
	case <-drained:
	default:
		t.Error("drain did not run")
	}
}
