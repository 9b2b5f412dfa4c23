package session

import (
	"sync"
	"time"
)

// MsgIDs issues client msg_ids: unix time in the high 32 bits, the fraction
// of the second below, divisible by 4 and strictly increasing.
type MsgIDs struct {
	mu     sync.Mutex
	now    func() time.Time
	offset time.Duration
	last   int64
}

func NewMsgIDs(now func() time.Time) *MsgIDs {
	if now == nil {
		now = time.Now
	}
	return &MsgIDs{now: now}
}

func (m *MsgIDs) Next() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := timeToMsgID(m.now().Add(m.offset))
	if id <= m.last {
		id = m.last + 4
	}
	m.last = id
	return id
}

// Sync corrects the clock offset from a server msg_id, as required after
// bad_msg_notification codes 16 and 17.
func (m *MsgIDs) Sync(serverMsgID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	server := MsgIDTime(serverMsgID)
	m.offset = server.Sub(m.now())
}

func (m *MsgIDs) Offset() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

func timeToMsgID(t time.Time) int64 {
	sec := t.Unix()
	frac := uint64(t.Nanosecond()) << 32 / uint64(time.Second)
	return (sec<<32 | int64(frac)) &^ 3
}

// MsgIDTime returns the wall time encoded in a msg_id.
func MsgIDTime(id int64) time.Time {
	sec := id >> 32
	nsec := (uint64(id) & 0xffffffff) * uint64(time.Second) >> 32
	return time.Unix(sec, int64(nsec))
}
