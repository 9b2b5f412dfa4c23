package session

import (
	"sync"

	"github.com/danmuck/tlwire/internal/protocol"
	"github.com/danmuck/tlwire/internal/protocol/mtproto"
	"github.com/danmuck/tlwire/internal/protocol/tl"
)

// ContentRelated reports whether body needs an acknowledgement and so takes
// an odd seqno. Pings without a disconnect delay, http_wait, acks and
// containers do not.
func ContentRelated(body tl.Object) bool {
	switch body.TypeID() {
	case mtproto.PingID, mtproto.HttpWaitID, mtproto.MsgsAckID, tl.MsgContainerID:
		return false
	}
	return true
}

// MessageFactory wraps outgoing bodies in messages for one session.
type MessageFactory struct {
	ids   *MsgIDs
	codec *protocol.Codec

	mu    sync.Mutex
	seqNo int32
}

// NewMessageFactory returns a factory drawing ids from ids. A nil codec
// sends every body uncompressed.
func NewMessageFactory(ids *MsgIDs, codec *protocol.Codec) *MessageFactory {
	return &MessageFactory{ids: ids, codec: codec}
}

func (f *MessageFactory) New(body tl.Object) (*tl.Message, error) {
	if body == nil {
		return nil, tl.InvalidValue("message without a body")
	}
	related := ContentRelated(body)
	if f.codec != nil {
		packed, err := f.codec.Compress(body)
		if err != nil {
			return nil, err
		}
		body = packed
	}
	seq := f.nextSeqNo(related)
	return tl.NewMessage(f.ids.Next(), seq, body)
}

// Container packs msgs into one msg_container message.
func (f *MessageFactory) Container(msgs ...*tl.Message) (*tl.Message, error) {
	if len(msgs) == 0 {
		return nil, tl.InvalidValue("empty container")
	}
	return f.New(&tl.MsgContainer{Messages: msgs})
}

func (f *MessageFactory) nextSeqNo(related bool) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.seqNo * 2
	if related {
		seq++
		f.seqNo++
	}
	return seq
}

// Reset starts a new seqno sequence, as after new_session_created.
func (f *MessageFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqNo = 0
}
