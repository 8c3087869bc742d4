// Package options parses and merges the option layers that drive a build.
//
// Three layers contribute, lowest first: the built-in Defaults, a static
// Layer from configuration, and a per-asset override Layer parsed from a
// URL-query-like string with ParseQuery. Merge collapses them into Options.
//
// Output specs use a compact grammar, one per comma-separated entry:
//
//	mp4                  container defaults for both codecs
//	mp4/aac              default video codec, explicit audio
//	webm/vp8@12/vorbis   explicit codecs, video quality 12
//	mp4/default@30/aac   default video codec at quality 30
//
// Quality levels are only range-checked once the codec is resolved; see the
// transcode package.
package options
