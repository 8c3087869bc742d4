package health

import (
	"context"
	"os/exec"
)

// BinaryChecker reports whether an external tool can be found. A missing
// encoder binary makes every build fail, so it is unhealthy.
type BinaryChecker struct {
	name     string
	bin      string
	lookPath func(string) (string, error)
}

// NewBinaryChecker checks that bin resolves through PATH, or exists when it
// is a path.
func NewBinaryChecker(name, bin string) *BinaryChecker {
	return &BinaryChecker{name: name, bin: bin, lookPath: exec.LookPath}
}

func (c *BinaryChecker) Name() string { return c.name }

func (c *BinaryChecker) Check(context.Context) Result {
	path, err := c.lookPath(c.bin)
	if err != nil {
		return Unhealthy(c.bin+" not found", err)
	}
	return Healthy(c.bin + " found").WithDetails(map[string]any{"path": path})
}

// Prober is implemented by cache stores that can verify their backend.
type Prober interface {
	Check(ctx context.Context) error
}

// StoreChecker reports whether a cache store is usable. Builds fall back
// to encoding when the store fails, so a failure is only degraded.
type StoreChecker struct {
	name  string
	store Prober
}

// NewStoreChecker wraps store.
func NewStoreChecker(name string, store Prober) *StoreChecker {
	return &StoreChecker{name: name, store: store}
}

func (c *StoreChecker) Name() string { return c.name }

func (c *StoreChecker) Check(ctx context.Context) Result {
	if err := c.store.Check(ctx); err != nil {
		return Degraded("cache unavailable, outputs will be re-encoded", err)
	}
	return Healthy("cache reachable")
}
