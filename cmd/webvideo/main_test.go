package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/webvideo/build"
	"github.com/jonwraymond/webvideo/config"
	"github.com/jonwraymond/webvideo/transcode"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		arg, path, query string
	}{
		{"clip.mov", "clip.mov", ""},
		{"clip.mov?mute", "clip.mov", "mute"},
		{"dir/clip.mov?outputFiles=webm/av1&size=50%", "dir/clip.mov", "outputFiles=webm/av1&size=50%"},
	}
	for _, tt := range tests {
		path, query := parseSource(tt.arg)
		if path != tt.path || query != tt.query {
			t.Errorf("parseSource(%q) = %q, %q", tt.arg, path, query)
		}
	}
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer
	if code := run(context.Background(), nil, &bytes.Buffer{}, &stderr); code != exitUsage {
		t.Errorf("run() = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr.String(), "usage: webvideo") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "webvideo.yaml", `
cache:
  backend: dir
  dir: `+filepath.Join(dir, "cache")+`
encoder:
  ffmpeg_path: `+filepath.Join(dir, "missing-ffmpeg")+`
  ffprobe_path: `+filepath.Join(dir, "missing-ffprobe")+`
observe:
  logging:
    enabled: false
`)

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"--check", "--config", cfgPath}, &stdout, &bytes.Buffer{})
	if code != exitFailure {
		t.Errorf("run() = %d, want %d", code, exitFailure)
	}
	out := stdout.String()
	for _, want := range []string{"ffmpeg   unhealthy", "ffprobe  unhealthy", "cache    healthy", "overall: unhealthy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "webvideo.yaml", "cache:\n  backend: none\nobserve:\n  logging:\n    enabled: false\n")

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"--dry-run", "-c", cfgPath, "clip.mov?outputFiles=webm/vp9&mute"}, &stdout, &bytes.Buffer{})
	if code != exitOK {
		t.Fatalf("run() = %d, output:\n%s", code, stdout.String())
	}
	out := stdout.String()
	if !strings.Contains(out, `clip.mov[0]: {"container":"webm","videoCodec":"vp9"`) {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "clip.mov[1]") {
		t.Errorf("override list not used: %q", out)
	}
}

func TestRun_DryRunInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "webvideo.yaml", "cache:\n  backend: none\nobserve:\n  logging:\n    enabled: false\n")

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"--dry-run", "-c", cfgPath, "clip.mov?outputFiles=webm/h.264"}, &stdout, &bytes.Buffer{})
	if code != exitFailure {
		t.Errorf("run() = %d, want %d", code, exitFailure)
	}
}

func newTestApp(t *testing.T, f flags) *app {
	t.Helper()
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "webvideo.yaml", `
cache:
  backend: memory
encoder:
  ffprobe_path: `+filepath.Join(dir, "missing-ffprobe")+`
observe:
  logging:
    enabled: false
`)
	cfg, err := config.NewLoader(nil).Load(context.Background(), cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	enc := build.EncoderFunc(func(_ context.Context, req transcode.Request) ([]byte, error) {
		return []byte("encoded " + req.Config.Container.String()), nil
	})
	a, err := newApp(context.Background(), cfg, f, enc)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.close)
	return a
}

func TestApp_BuildAllWritesOutputs(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro.mov", "source bytes")
	out := t.TempDir()
	a := newTestApp(t, flags{outDir: out})

	if err := a.buildAll(context.Background(), []string{src + "?esModule"}); err != nil {
		t.Fatalf("buildAll() error = %v", err)
	}

	for _, pattern := range []string{"intro-*.mp4", "intro-*.webm"} {
		matches, _ := filepath.Glob(filepath.Join(out, pattern))
		if len(matches) != 1 {
			t.Errorf("%s: found %v", pattern, matches)
		}
	}
	module, err := os.ReadFile(filepath.Join(out, "intro.sources.js"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(module), "export default { sources: [") {
		t.Errorf("module = %s", module)
	}
}

func TestApp_BuildAllSortBySize(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro.mov", "source bytes")
	out := t.TempDir()
	a := newTestApp(t, flags{outDir: out, sortBySize: true})

	if err := a.buildAll(context.Background(), []string{src + "?outputFiles=webm,mp4"}); err != nil {
		t.Fatalf("buildAll() error = %v", err)
	}
	module, err := os.ReadFile(filepath.Join(out, "intro.sources.js"))
	if err != nil {
		t.Fatal(err)
	}
	// webm is listed first, but "encoded mp4" is the smaller output.
	s := string(module)
	if !strings.HasPrefix(s, "module.exports = {") {
		t.Errorf("module = %s", s)
	}
	if strings.Index(s, "video/mp4") > strings.Index(s, "video/webm") {
		t.Errorf("sources not sorted by size: %s", s)
	}
}

func TestApp_BuildAllFailure(t *testing.T) {
	a := newTestApp(t, flags{outDir: t.TempDir()})
	if err := a.buildAll(context.Background(), []string{filepath.Join(t.TempDir(), "absent.mov")}); err == nil {
		t.Error("buildAll() of a missing source succeeded")
	}
}
