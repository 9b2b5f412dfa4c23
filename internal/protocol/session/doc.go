// Package session holds the pure message bookkeeping between the codec and a
// transport.
//
// Ownership boundary:
// - msg_id generation and seqno assignment
// - container unpacking and routing of server messages
// - pending acknowledgement batching
// - the unencrypted message envelope
// - reconnect backoff after transport errors
//
// Nothing here performs I/O; a transport feeds decoded objects in and sends
// what comes out.
package session
