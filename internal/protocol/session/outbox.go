package session

import (
	"sort"
	"sync"

	"github.com/danmuck/tlwire/internal/protocol/mtproto"
)

// PendingAcks stores msg_ids awaiting msgs_ack.
type PendingAcks struct {
	mu        sync.Mutex
	threshold int
	ids       map[int64]struct{}
}

func NewPendingAcks(threshold int) *PendingAcks {
	if threshold <= 0 {
		threshold = 1
	}
	return &PendingAcks{
		threshold: threshold,
		ids:       make(map[int64]struct{}),
	}
}

// Add records id and reports whether it was new. A repeated id means the
// server resent a message already being acknowledged.
func (p *PendingAcks) Add(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.ids[id]; ok {
		return false
	}
	p.ids[id] = struct{}{}
	return true
}

func (p *PendingAcks) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

func (p *PendingAcks) Ready() bool {
	return p.Len() >= p.threshold
}

// Flush returns the pending ids as one msgs_ack once the threshold is
// reached and clears them. Requeue puts them back if sending fails.
func (p *PendingAcks) Flush() (*mtproto.MsgsAck, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) < p.threshold {
		return nil, false
	}
	out := make([]int64, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	p.ids = make(map[int64]struct{})
	return &mtproto.MsgsAck{MsgIDs: out}, true
}

func (p *PendingAcks) Requeue(ack *mtproto.MsgsAck) {
	if ack == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ack.MsgIDs {
		p.ids[id] = struct{}{}
	}
}
