package session

import "github.com/danmuck/tlwire/internal/protocol/tl"

// Unpack flattens a decoded message into the messages it carries: the
// contents of a msg_container, or the message itself.
func Unpack(msg *tl.Message) ([]*tl.Message, error) {
	if msg == nil || msg.Body == nil {
		return nil, tl.InvalidValue("nothing to unpack")
	}
	c, ok := msg.Body.(*tl.MsgContainer)
	if !ok {
		return []*tl.Message{msg}, nil
	}
	for _, m := range c.Messages {
		if _, nested := m.Body.(*tl.MsgContainer); nested {
			return nil, tl.Malformed(-1, "container %d nests another container", msg.MsgID)
		}
	}
	return c.Messages, nil
}
