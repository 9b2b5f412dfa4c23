package mtproto

import "github.com/danmuck/tlwire/internal/protocol/tl"

const (
	PingID                uint32 = 0x7abe77ec
	PingDelayDisconnectID uint32 = 0xf3427b8c
	PongID                uint32 = 0x347773c5
	HttpWaitID            uint32 = 0x9299359f
	MsgsAckID             uint32 = 0x62d6b459
	RpcResultID           uint32 = 0xf35c6d01
	RpcErrorID            uint32 = 0x2144ca19
	BadMsgNotificationID  uint32 = 0xa7eff811
	BadServerSaltID       uint32 = 0xedab447b
	NewSessionCreatedID   uint32 = 0x9ec20908
	MsgDetailedInfoID     uint32 = 0x276d3ec6
	MsgNewDetailedInfoID  uint32 = 0x809db6df
	GetFutureSaltsID      uint32 = 0xb921bd04
)

// ping#7abe77ec ping_id:long = Pong;
type Ping struct {
	PingID int64
}

func (*Ping) TypeID() uint32   { return PingID }
func (*Ping) TypeName() string { return "ping" }

func (p *Ping) Fields() []tl.Field {
	return []tl.Field{{Name: "ping_id", Value: p.PingID}}
}

func (p *Ping) Encode(w *tl.Writer) error {
	w.PutID(PingID)
	w.PutInt64(p.PingID)
	return w.Err()
}

func readPing(r *tl.Reader) (tl.Object, error) {
	id, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	return &Ping{PingID: id}, nil
}

// ping_delay_disconnect#f3427b8c ping_id:long disconnect_delay:int = Pong;
type PingDelayDisconnect struct {
	PingID          int64
	DisconnectDelay int32
}

func (*PingDelayDisconnect) TypeID() uint32   { return PingDelayDisconnectID }
func (*PingDelayDisconnect) TypeName() string { return "ping_delay_disconnect" }

func (p *PingDelayDisconnect) Fields() []tl.Field {
	return []tl.Field{
		{Name: "ping_id", Value: p.PingID},
		{Name: "disconnect_delay", Value: p.DisconnectDelay},
	}
}

func (p *PingDelayDisconnect) Encode(w *tl.Writer) error {
	w.PutID(PingDelayDisconnectID)
	w.PutInt64(p.PingID)
	w.PutInt32(p.DisconnectDelay)
	return w.Err()
}

func readPingDelayDisconnect(r *tl.Reader) (tl.Object, error) {
	p := &PingDelayDisconnect{}
	var err error
	if p.PingID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if p.DisconnectDelay, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return p, nil
}

// pong#347773c5 msg_id:long ping_id:long = Pong;
type Pong struct {
	MsgID  int64
	PingID int64
}

func (*Pong) TypeID() uint32   { return PongID }
func (*Pong) TypeName() string { return "pong" }

func (p *Pong) Fields() []tl.Field {
	return []tl.Field{
		{Name: "msg_id", Value: p.MsgID},
		{Name: "ping_id", Value: p.PingID},
	}
}

func (p *Pong) Encode(w *tl.Writer) error {
	w.PutID(PongID)
	w.PutInt64(p.MsgID)
	w.PutInt64(p.PingID)
	return w.Err()
}

func readPong(r *tl.Reader) (tl.Object, error) {
	p := &Pong{}
	var err error
	if p.MsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if p.PingID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	return p, nil
}

// http_wait#9299359f max_delay:int wait_after:int max_wait:int = HttpWait;
type HttpWait struct {
	MaxDelay  int32
	WaitAfter int32
	MaxWait   int32
}

func (*HttpWait) TypeID() uint32   { return HttpWaitID }
func (*HttpWait) TypeName() string { return "http_wait" }

func (h *HttpWait) Fields() []tl.Field {
	return []tl.Field{
		{Name: "max_delay", Value: h.MaxDelay},
		{Name: "wait_after", Value: h.WaitAfter},
		{Name: "max_wait", Value: h.MaxWait},
	}
}

func (h *HttpWait) Encode(w *tl.Writer) error {
	w.PutID(HttpWaitID)
	w.PutInt32(h.MaxDelay)
	w.PutInt32(h.WaitAfter)
	w.PutInt32(h.MaxWait)
	return w.Err()
}

func readHttpWait(r *tl.Reader) (tl.Object, error) {
	h := &HttpWait{}
	var err error
	if h.MaxDelay, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.WaitAfter, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.MaxWait, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return h, nil
}

// msgs_ack#62d6b459 msg_ids:Vector<long> = MsgsAck;
type MsgsAck struct {
	MsgIDs []int64
}

func (*MsgsAck) TypeID() uint32   { return MsgsAckID }
func (*MsgsAck) TypeName() string { return "msgs_ack" }

func (m *MsgsAck) Fields() []tl.Field {
	return []tl.Field{{Name: "msg_ids", Value: m.MsgIDs}}
}

func (m *MsgsAck) Encode(w *tl.Writer) error {
	w.PutID(MsgsAckID)
	tl.PutVector(w, m.MsgIDs, (*tl.Writer).PutInt64)
	return w.Err()
}

func readMsgsAck(r *tl.Reader) (tl.Object, error) {
	ids, err := tl.ReadVector(r, (*tl.Reader).ReadInt64)
	if err != nil {
		return nil, err
	}
	return &MsgsAck{MsgIDs: ids}, nil
}

// rpc_result#f35c6d01 req_msg_id:long result:Object = RpcResult;
//
// Result is whatever the server answered with: the method's return type, an
// RpcError, or an untyped tl.Vector. A gzip_packed result arrives unwrapped.
type RpcResult struct {
	ReqMsgID int64
	Result   tl.Object
}

func (*RpcResult) TypeID() uint32   { return RpcResultID }
func (*RpcResult) TypeName() string { return "rpc_result" }

func (r *RpcResult) Fields() []tl.Field {
	return []tl.Field{
		{Name: "req_msg_id", Value: r.ReqMsgID},
		{Name: "result", Value: r.Result},
	}
}

func (r *RpcResult) Encode(w *tl.Writer) error {
	w.PutID(RpcResultID)
	w.PutInt64(r.ReqMsgID)
	w.PutObject(r.Result)
	return w.Err()
}

func readRpcResult(r *tl.Reader) (tl.Object, error) {
	res := &RpcResult{}
	var err error
	if res.ReqMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if res.Result, err = r.ReadObject(); err != nil {
		return nil, err
	}
	return res, nil
}

// rpc_error#2144ca19 error_code:int error_message:string = RpcError;
type RpcError struct {
	ErrorCode    int32
	ErrorMessage string
}

func (*RpcError) TypeID() uint32   { return RpcErrorID }
func (*RpcError) TypeName() string { return "rpc_error" }

func (e *RpcError) Fields() []tl.Field {
	return []tl.Field{
		{Name: "error_code", Value: e.ErrorCode},
		{Name: "error_message", Value: e.ErrorMessage},
	}
}

func (e *RpcError) Encode(w *tl.Writer) error {
	w.PutID(RpcErrorID)
	w.PutInt32(e.ErrorCode)
	w.PutString(e.ErrorMessage)
	return w.Err()
}

func readRpcError(r *tl.Reader) (tl.Object, error) {
	e := &RpcError{}
	var err error
	if e.ErrorCode, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if e.ErrorMessage, err = r.ReadString(); err != nil {
		return nil, err
	}
	return e, nil
}

// bad_msg_notification#a7eff811 bad_msg_id:long bad_msg_seqno:int error_code:int = BadMsgNotification;
type BadMsgNotification struct {
	BadMsgID    int64
	BadMsgSeqNo int32
	ErrorCode   int32
}

func (*BadMsgNotification) TypeID() uint32   { return BadMsgNotificationID }
func (*BadMsgNotification) TypeName() string { return "bad_msg_notification" }

func (b *BadMsgNotification) Fields() []tl.Field {
	return []tl.Field{
		{Name: "bad_msg_id", Value: b.BadMsgID},
		{Name: "bad_msg_seqno", Value: b.BadMsgSeqNo},
		{Name: "error_code", Value: b.ErrorCode},
	}
}

func (b *BadMsgNotification) Encode(w *tl.Writer) error {
	w.PutID(BadMsgNotificationID)
	w.PutInt64(b.BadMsgID)
	w.PutInt32(b.BadMsgSeqNo)
	w.PutInt32(b.ErrorCode)
	return w.Err()
}

func readBadMsgNotification(r *tl.Reader) (tl.Object, error) {
	b := &BadMsgNotification{}
	var err error
	if b.BadMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if b.BadMsgSeqNo, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if b.ErrorCode, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return b, nil
}

// bad_server_salt#edab447b bad_msg_id:long bad_msg_seqno:int error_code:int new_server_salt:long = BadMsgNotification;
type BadServerSalt struct {
	BadMsgID      int64
	BadMsgSeqNo   int32
	ErrorCode     int32
	NewServerSalt int64
}

func (*BadServerSalt) TypeID() uint32   { return BadServerSaltID }
func (*BadServerSalt) TypeName() string { return "bad_server_salt" }

func (b *BadServerSalt) Fields() []tl.Field {
	return []tl.Field{
		{Name: "bad_msg_id", Value: b.BadMsgID},
		{Name: "bad_msg_seqno", Value: b.BadMsgSeqNo},
		{Name: "error_code", Value: b.ErrorCode},
		{Name: "new_server_salt", Value: b.NewServerSalt},
	}
}

func (b *BadServerSalt) Encode(w *tl.Writer) error {
	w.PutID(BadServerSaltID)
	w.PutInt64(b.BadMsgID)
	w.PutInt32(b.BadMsgSeqNo)
	w.PutInt32(b.ErrorCode)
	w.PutInt64(b.NewServerSalt)
	return w.Err()
}

func readBadServerSalt(r *tl.Reader) (tl.Object, error) {
	b := &BadServerSalt{}
	var err error
	if b.BadMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if b.BadMsgSeqNo, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if b.ErrorCode, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if b.NewServerSalt, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	return b, nil
}

// new_session_created#9ec20908 first_msg_id:long unique_id:long server_salt:long = NewSession;
type NewSessionCreated struct {
	FirstMsgID int64
	UniqueID   int64
	ServerSalt int64
}

func (*NewSessionCreated) TypeID() uint32   { return NewSessionCreatedID }
func (*NewSessionCreated) TypeName() string { return "new_session_created" }

func (n *NewSessionCreated) Fields() []tl.Field {
	return []tl.Field{
		{Name: "first_msg_id", Value: n.FirstMsgID},
		{Name: "unique_id", Value: n.UniqueID},
		{Name: "server_salt", Value: n.ServerSalt},
	}
}

func (n *NewSessionCreated) Encode(w *tl.Writer) error {
	w.PutID(NewSessionCreatedID)
	w.PutInt64(n.FirstMsgID)
	w.PutInt64(n.UniqueID)
	w.PutInt64(n.ServerSalt)
	return w.Err()
}

func readNewSessionCreated(r *tl.Reader) (tl.Object, error) {
	n := &NewSessionCreated{}
	var err error
	if n.FirstMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if n.UniqueID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if n.ServerSalt, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	return n, nil
}

// msg_detailed_info#276d3ec6 msg_id:long answer_msg_id:long bytes:int status:int = MsgDetailedInfo;
type MsgDetailedInfo struct {
	MsgID       int64
	AnswerMsgID int64
	Bytes       int32
	Status      int32
}

func (*MsgDetailedInfo) TypeID() uint32   { return MsgDetailedInfoID }
func (*MsgDetailedInfo) TypeName() string { return "msg_detailed_info" }

func (m *MsgDetailedInfo) Fields() []tl.Field {
	return []tl.Field{
		{Name: "msg_id", Value: m.MsgID},
		{Name: "answer_msg_id", Value: m.AnswerMsgID},
		{Name: "bytes", Value: m.Bytes},
		{Name: "status", Value: m.Status},
	}
}

func (m *MsgDetailedInfo) Encode(w *tl.Writer) error {
	w.PutID(MsgDetailedInfoID)
	w.PutInt64(m.MsgID)
	w.PutInt64(m.AnswerMsgID)
	w.PutInt32(m.Bytes)
	w.PutInt32(m.Status)
	return w.Err()
}

func readMsgDetailedInfo(r *tl.Reader) (tl.Object, error) {
	m := &MsgDetailedInfo{}
	var err error
	if m.MsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if m.AnswerMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if m.Bytes, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if m.Status, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return m, nil
}

// msg_new_detailed_info#809db6df answer_msg_id:long bytes:int status:int = MsgDetailedInfo;
type MsgNewDetailedInfo struct {
	AnswerMsgID int64
	Bytes       int32
	Status      int32
}

func (*MsgNewDetailedInfo) TypeID() uint32   { return MsgNewDetailedInfoID }
func (*MsgNewDetailedInfo) TypeName() string { return "msg_new_detailed_info" }

func (m *MsgNewDetailedInfo) Fields() []tl.Field {
	return []tl.Field{
		{Name: "answer_msg_id", Value: m.AnswerMsgID},
		{Name: "bytes", Value: m.Bytes},
		{Name: "status", Value: m.Status},
	}
}

func (m *MsgNewDetailedInfo) Encode(w *tl.Writer) error {
	w.PutID(MsgNewDetailedInfoID)
	w.PutInt64(m.AnswerMsgID)
	w.PutInt32(m.Bytes)
	w.PutInt32(m.Status)
	return w.Err()
}

func readMsgNewDetailedInfo(r *tl.Reader) (tl.Object, error) {
	m := &MsgNewDetailedInfo{}
	var err error
	if m.AnswerMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if m.Bytes, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if m.Status, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return m, nil
}

// get_future_salts#b921bd04 num:int = FutureSalts;
type GetFutureSalts struct {
	Num int32
}

func (*GetFutureSalts) TypeID() uint32   { return GetFutureSaltsID }
func (*GetFutureSalts) TypeName() string { return "get_future_salts" }

func (g *GetFutureSalts) Fields() []tl.Field {
	return []tl.Field{{Name: "num", Value: g.Num}}
}

func (g *GetFutureSalts) Encode(w *tl.Writer) error {
	w.PutID(GetFutureSaltsID)
	w.PutInt32(g.Num)
	return w.Err()
}

func readGetFutureSalts(r *tl.Reader) (tl.Object, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	return &GetFutureSalts{Num: n}, nil
}
