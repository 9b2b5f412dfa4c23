// Package tl owns the TL binary object codec.
//
// Ownership boundary:
// - primitive wire encodings (ints, doubles, padded byte strings, vectors, flags)
// - the boxed object contract and generic identifier dispatch
// - the constructor registry
// - the gzip_packed compression envelope and the engine's core constructors
//
// Decoding is synchronous and works over a complete in-memory buffer; a
// Registry is built once and shared read-only across goroutines.
package tl
