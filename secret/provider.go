package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resolves a reference as an environment variable name.
type EnvProvider struct{}

func (EnvProvider) Name() string { return "env" }

func (EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, ref)
	}
	return v, nil
}

// FileProvider resolves a reference as a file path and returns its
// contents without the trailing newline. Relative paths are joined to Dir.
type FileProvider struct {
	Dir string
}

func (FileProvider) Name() string { return "file" }

func (p FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	path := ref
	if !filepath.IsAbs(path) && p.Dir != "" {
		path = filepath.Join(p.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
