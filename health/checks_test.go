package health

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestBinaryChecker(t *testing.T) {
	found := &BinaryChecker{name: "ffmpeg", bin: "ffmpeg", lookPath: func(string) (string, error) {
		return "/usr/bin/ffmpeg", nil
	}}
	r := found.Check(context.Background())
	if r.Status != StatusHealthy {
		t.Fatalf("Status = %v, want healthy", r.Status)
	}
	if r.Details["path"] != "/usr/bin/ffmpeg" {
		t.Errorf("Details[path] = %v", r.Details["path"])
	}

	missing := &BinaryChecker{name: "ffprobe", bin: "ffprobe", lookPath: func(string) (string, error) {
		return "", exec.ErrNotFound
	}}
	r = missing.Check(context.Background())
	if r.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", r.Status)
	}
	if !errors.Is(r.Error, exec.ErrNotFound) {
		t.Errorf("Error = %v", r.Error)
	}
}

func TestNewBinaryChecker_AbsentPath(t *testing.T) {
	c := NewBinaryChecker("ffmpeg", t.TempDir()+"/no-such-ffmpeg")
	if got := c.Check(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", got.Status)
	}
}

type probeFunc func(context.Context) error

func (f probeFunc) Check(ctx context.Context) error { return f(ctx) }

func TestStoreChecker(t *testing.T) {
	ok := NewStoreChecker("cache", probeFunc(func(context.Context) error { return nil }))
	if r := ok.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", r.Status)
	}

	boom := errors.New("access denied")
	bad := NewStoreChecker("cache", probeFunc(func(context.Context) error { return boom }))
	r := bad.Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", r.Status)
	}
	if !errors.Is(r.Error, boom) {
		t.Errorf("Error = %v", r.Error)
	}
	if bad.Name() != "cache" {
		t.Errorf("Name() = %q", bad.Name())
	}
}
