// Package transcode resolves merged options into validated per-output
// configurations.
//
// Resolve applies container defaults, checks every output against the media
// compatibility matrix, attaches quality levels (explicit, else the codec
// default), and applies muting. It runs to completion, or fails, before any
// encoder is started.
//
// Config.MarshalCanonical is the stable byte form used for cache key
// derivation; its key order is fixed and does not depend on how the Config
// was built.
package transcode
