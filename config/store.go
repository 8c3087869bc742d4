package config

import (
	"context"

	"github.com/jonwraymond/webvideo/cache"
)

// OpenStore builds the configured cache store. The none backend returns a
// nil store, which disables caching.
func (c CacheConfig) OpenStore(ctx context.Context) (cache.Store, error) {
	switch c.Backend {
	case BackendDir:
		s, err := cache.NewDirStore(cache.DirConfig{Dir: c.Dir, Compress: c.Compress})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendS3:
		client, err := cache.NewS3Client(ctx, c.S3)
		if err != nil {
			return nil, err
		}
		s, err := cache.NewS3Store(client, c.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return cache.NewMemoryStore(), nil
	case BackendNone:
		return nil, nil
	}
	return nil, ErrInvalidBackend
}
