package build

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/jonwraymond/webvideo/cache"
	"github.com/jonwraymond/webvideo/options"
	"github.com/jonwraymond/webvideo/transcode"
)

// Artifact is one produced output.
type Artifact struct {
	Index int
	// Name is the rendered file name.
	Name string
	// Path is where the caller should write Data: OutputPath joined with Name.
	Path string
	// Src is the public URL of the file: PublicPath joined with Name.
	Src      string
	MIMEType string
	Data     []byte
	Key      cache.Key
	Outcome  cache.Outcome
	Config   transcode.Config
}

// Result is the outcome of building one asset.
type Result struct {
	Asset     string
	Options   options.Options
	Artifacts []Artifact
	// Warnings are degraded cache failures; they never fail a build.
	Warnings []error
}

// Keys returns the cache key of every artifact, in output order.
func (r *Result) Keys() []cache.Key {
	keys := make([]cache.Key, len(r.Artifacts))
	for i, a := range r.Artifacts {
		keys[i] = a.Key
	}
	return keys
}

// Manifest lists the artifacts in output order.
func (r *Result) Manifest() Manifest {
	return ManifestOf(r.Artifacts)
}

// SortedBySize returns a copy of the artifacts ordered from smallest to
// largest, ties keeping output order.
func (r *Result) SortedBySize() []Artifact {
	sorted := slices.Clone(r.Artifacts)
	slices.SortStableFunc(sorted, func(a, b Artifact) int {
		return len(a.Data) - len(b.Data)
	})
	return sorted
}

// Module renders the manifest in output order using the asset's esModule
// setting.
func (r *Result) Module() (string, error) {
	return r.Manifest().Module(r.Options.ESModule)
}

// Source is one manifest entry.
type Source struct {
	Src      string `json:"src"`
	MIMEType string `json:"type"`
}

// Manifest is the ordered list of sources for a video element.
type Manifest struct {
	Sources []Source `json:"sources"`
}

// ManifestOf builds a manifest from artifacts in the given order.
func ManifestOf(artifacts []Artifact) Manifest {
	m := Manifest{Sources: make([]Source, len(artifacts))}
	for i, a := range artifacts {
		m.Sources[i] = Source{Src: a.Src, MIMEType: a.MIMEType}
	}
	return m
}

// Module renders m as a JavaScript module: "export default { sources: [...] };"
// when esModule is set, "module.exports = { sources: [...] };" otherwise.
func (m Manifest) Module(esModule bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	sources := m.Sources
	if sources == nil {
		sources = []Source{}
	}
	if err := enc.Encode(sources); err != nil {
		return "", err
	}
	prefix := "module.exports = "
	if esModule {
		prefix = "export default "
	}
	return prefix + "{ sources: " + strings.TrimSuffix(buf.String(), "\n") + " };", nil
}
