// Package build turns source assets into encoded outputs and a manifest.
//
// For each asset the override string is parsed, merged over the static and
// default option layers, and resolved into one transcode.Config per output.
// Resolution fails before any encoder runs. Each output then gets a cache
// key derived from the source bytes and its canonical config, and runs as
// an independent task: a cache hit returns the stored bytes, a miss runs the
// Encoder through a shared concurrency limit and stores the result. Names
// are rendered from the file name template once the bytes exist.
//
// A Session groups assets that share one sweep: Close waits for every
// build and removes store entries no asset of the session referenced.
// Builder.Build is a session of one asset.
package build
