package session

import (
	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/rs/zerolog/log"
)

// Dispatcher turns each decoded server message into routes and records the
// acknowledgements it owes.
type Dispatcher struct {
	acks *PendingAcks
}

func NewDispatcher(acks *PendingAcks) *Dispatcher {
	return &Dispatcher{acks: acks}
}

func (d *Dispatcher) Acks() *PendingAcks { return d.acks }

// Dispatch unpacks msg and routes every message in it. Content-related
// messages already pending acknowledgement are duplicates and are dropped.
func (d *Dispatcher) Dispatch(msg *tl.Message) ([]Route, error) {
	msgs, err := Unpack(msg)
	if err != nil {
		return nil, err
	}
	routes := make([]Route, 0, len(msgs))
	for _, m := range msgs {
		if m.SeqNo%2 != 0 && !d.acks.Add(m.MsgID) {
			log.Debug().Int64("msg_id", m.MsgID).Msg("session.Dispatch duplicate")
			continue
		}
		r := RouteMessage(m)
		switch r.Kind {
		case RouteAck:
			d.acks.Add(r.MsgID)
			continue
		case RouteIgnore:
			log.Debug().Int64("msg_id", m.MsgID).Str("type", m.Body.TypeName()).Msg("session.Dispatch ignored")
			continue
		}
		routes = append(routes, r)
	}
	return routes, nil
}
