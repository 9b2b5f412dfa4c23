// Package protocol is the codec entry point used by transports and tools.
//
// Ownership boundary:
// - registry assembly (core constructors, service messages, schema files)
// - top-level decode and encode of boxed objects
// - the outgoing compression policy
// - codec observation hooks
//
// Wire primitives live in tl, framing in frame, and message bookkeeping in
// session.
package protocol
