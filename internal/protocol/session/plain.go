package session

import (
	"github.com/danmuck/tlwire/internal/protocol/tl"
)

// PlainHeaderLen is auth_key_id, msg_id and message_data_length.
const PlainHeaderLen = 8 + 8 + 4

// PackPlain builds an unencrypted message, used before an auth key exists:
//
//	auth_key_id:long(0) message_id:long message_data_length:int message_data
func PackPlain(msgID int64, data []byte) ([]byte, error) {
	if len(data)%4 != 0 {
		return nil, tl.InvalidValue("plain message data of %d bytes is not aligned", len(data))
	}
	w := tl.NewWriter(PlainHeaderLen + len(data))
	w.PutInt64(0)
	w.PutInt64(msgID)
	w.PutInt32(int32(len(data)))
	w.PutRaw(data)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// UnpackPlain splits an unencrypted message into its msg_id and data. The
// returned data aliases buf.
func UnpackPlain(buf []byte) (int64, []byte, error) {
	r := tl.NewReader(buf, nil, tl.Limits{})
	authKeyID, err := r.ReadInt64()
	if err != nil {
		return 0, nil, err
	}
	if authKeyID != 0 {
		return 0, nil, tl.Malformed(0, "auth_key_id %#x on an unencrypted message", uint64(authKeyID))
	}
	msgID, err := r.ReadInt64()
	if err != nil {
		return 0, nil, err
	}
	n, err := r.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	if n < 0 || int(n) != r.Remaining() {
		return 0, nil, tl.Malformed(r.Offset()-4, "data length %d does not match the %d bytes that follow", n, r.Remaining())
	}
	return msgID, buf[r.Offset():], nil
}
