// Package mtproto holds the concrete MTProto service message types: pings,
// acknowledgements, rpc results and errors, bad-message notifications and the
// session bookkeeping messages, plus the layer wrapper and one flags-bearing
// API method. Each type is written the way the schema generator emits them.
package mtproto
