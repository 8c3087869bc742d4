// Package cache stores encoded outputs under content-derived keys.
//
// A Key is the SHAKE256 digest (20 bytes, hex) of the source bytes followed
// by the output's canonical configuration, so equal keys always mean equal
// artifacts. Entries are addressed by ID, a key plus file extension.
//
// Three Store implementations are provided: MemoryStore, DirStore (one file
// per entry, optionally gzip-compressed, published by rename) and S3Store.
// Middleware puts a store in front of an encoder: hits skip encoding, store
// failures degrade to warnings, and Sweep prunes entries no longer referenced
// by a build.
package cache
