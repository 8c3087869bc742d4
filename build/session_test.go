package build

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/jonwraymond/webvideo/cache"
	"github.com/jonwraymond/webvideo/media"
	"github.com/jonwraymond/webvideo/transcode"
)

type sweepFailStore struct {
	*cache.MemoryStore
}

func (sweepFailStore) Sweep(context.Context, cache.KeySet) error {
	return errors.New("permission denied")
}

func TestSession_SweepsUnionOfAssets(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	stale := cache.ID{Key: keyOf("gone", transcode.Config{Container: media.WebM}), Ext: "webm"}
	_ = store.Put(ctx, stale, []byte("stale"))

	b := newBuilder(t, Config{Encoder: &fakeEncoder{}, Store: store})
	s := b.NewSession()
	if _, err := uuid.Parse(s.ID()); err != nil {
		t.Errorf("ID() = %q is not a UUID", s.ID())
	}

	var wg sync.WaitGroup
	results := make([]*Result, 3)
	for i, name := range []string{"a.mov", "b.mov", "c.mov"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Build(ctx, Asset{Path: name, Content: []byte(name)})
			if err != nil {
				t.Errorf("Build(%s) error = %v", name, err)
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	sum := s.Close(ctx)
	if !sum.Swept || sum.Failed || sum.Assets != 3 {
		t.Fatalf("Summary = %+v", sum)
	}
	if store.Len() != 6 {
		t.Errorf("store holds %d entries, want the 6 live ones", store.Len())
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, a := range res.Artifacts {
			if _, ok, _ := store.Get(ctx, cache.ID{Key: a.Key, Ext: a.Config.Container.Ext()}); !ok {
				t.Errorf("live entry %s was swept", a.Key)
			}
		}
	}
}

func TestSession_FailedBuildSkipsSweep(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	stale := cache.ID{Key: keyOf("gone", transcode.Config{}), Ext: "mp4"}
	_ = store.Put(ctx, stale, []byte("stale"))

	b := newBuilder(t, Config{Encoder: &fakeEncoder{}, Store: store})
	s := b.NewSession()
	if _, err := s.Build(ctx, Asset{Path: "ok.mov", Content: []byte("ok")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Build(ctx, Asset{Path: "bad.mov", Content: []byte("bad"), Query: "outputFiles=mp4/vp8"}); err == nil {
		t.Fatal("expected a configuration error")
	}

	sum := s.Close(ctx)
	if sum.Swept || !sum.Failed {
		t.Errorf("Summary = %+v, want failed and not swept", sum)
	}
	if _, ok, _ := store.Get(ctx, stale); !ok {
		t.Error("stale entry removed by a failed session")
	}
}

func TestSession_SweepFailureIsWarning(t *testing.T) {
	b := newBuilder(t, Config{Encoder: &fakeEncoder{}, Store: sweepFailStore{cache.NewMemoryStore()}})
	res, err := b.Build(context.Background(), Asset{Path: "a.mov", Content: []byte("x")})
	if err != nil {
		t.Fatalf("Build() error = %v, a sweep failure must not fail the build", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Warnings = %v, want the sweep failure", res.Warnings)
	}
}

func TestSession_BuildAfterClose(t *testing.T) {
	b := newBuilder(t, Config{Encoder: &fakeEncoder{}})
	s := b.NewSession()
	first := s.Close(context.Background())
	if _, err := s.Build(context.Background(), Asset{Path: "a.mov", Content: []byte("x")}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Build() error = %v, want ErrSessionClosed", err)
	}
	if second := s.Close(context.Background()); second.ID != first.ID || second.Swept != first.Swept {
		t.Errorf("second Close() = %+v, want %+v", second, first)
	}
}

func TestBuilder_EncoderConcurrencyBounded(t *testing.T) {
	b := newBuilder(t, Config{Encoder: &fakeEncoder{}, MaxConcurrentEncodes: 1})
	if _, err := b.Build(context.Background(), Asset{Path: "a.mov", Content: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	stats := b.EncoderStats()
	if stats.MaxConcurrent != 1 || stats.Peak != 1 || stats.Completed != 2 {
		t.Errorf("EncoderStats() = %+v", stats)
	}
}
