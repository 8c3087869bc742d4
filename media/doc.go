// Package media defines the closed set of output containers and codecs and the
// compatibility matrix between them.
//
// Containers, video codecs, and audio codecs are small integer enums backed by
// fixed-size tables indexed by the enum value, so every variant has exactly one
// table row. The zero values VideoDefault and AudioDefault mean "use the
// container's default"; Muted is a sentinel that marks an output without an
// audio track and is never part of the audio codec registry.
//
// Validate is the single authority on whether a container/codec triple can be
// encoded:
//
//	if err := media.Validate(media.WebM, media.VP9, media.Opus); err != nil {
//		// *media.IncompatibleCodecError
//	}
package media
