package tl

// Constructors the engine itself understands.
const (
	MessageID      uint32 = 0x5bb8e511
	MsgContainerID uint32 = 0x73f1f8dc
	FutureSaltID   uint32 = 0x0949d9dc
	FutureSaltsID  uint32 = 0xae500895
)

// RegisterCore installs the engine's own constructors: booleans, untyped
// vectors, the compression envelope, messages, containers and future salts.
func RegisterCore(b *Builder) error {
	entries := []Entry{
		{ID: BoolTrueID, Name: "boolTrue", Factory: func(*Reader) (Object, error) { return Bool(true), nil }},
		{ID: BoolFalseID, Name: "boolFalse", Factory: func(*Reader) (Object, error) { return Bool(false), nil }},
		{ID: VectorID, Name: "vector", Factory: readVectorObject},
		{ID: GzipPackedID, Name: "gzip_packed", Factory: readGzipPacked},
		{ID: MessageID, Name: "message", Factory: func(r *Reader) (Object, error) { return ReadBareMessage(r) }},
		{ID: MsgContainerID, Name: "msg_container", Factory: readMsgContainer},
		{ID: FutureSaltID, Name: "future_salt", Factory: func(r *Reader) (Object, error) { return readBareFutureSalt(r) }},
		{ID: FutureSaltsID, Name: "future_salts", Factory: readFutureSalts},
	}
	for _, e := range entries {
		if err := b.Register(e.ID, e.Name, e.Factory); err != nil {
			return err
		}
	}
	return nil
}

// Bool is the boxed Bool when it appears where an Object is expected, for
// example as an rpc_result payload.
type Bool bool

func (b Bool) TypeID() uint32 {
	if b {
		return BoolTrueID
	}
	return BoolFalseID
}

func (b Bool) TypeName() string {
	if b {
		return "boolTrue"
	}
	return "boolFalse"
}

func (Bool) Fields() []Field { return nil }

func (b Bool) Encode(w *Writer) error {
	w.PutBool(bool(b))
	return w.Err()
}

// Vector is a boxed Vector read without a declared element type, as happens
// when an rpc_result answers with Vector<int> or Vector<SomeType>. Each
// element is a boxed Object when its leading identifier is registered and an
// int32 otherwise. Typed fields use ReadVector instead.
type Vector struct {
	Items []any
}

func (*Vector) TypeID() uint32   { return VectorID }
func (*Vector) TypeName() string { return "vector" }

func (v *Vector) Fields() []Field {
	return []Field{{Name: "items", Value: v.Items}}
}

func (v *Vector) Encode(w *Writer) error {
	w.PutID(VectorID)
	w.PutInt32(int32(len(v.Items)))
	for i, item := range v.Items {
		switch x := item.(type) {
		case Object:
			w.PutObject(x)
		case int32:
			w.PutInt32(x)
		case int64:
			w.PutInt64(x)
		default:
			return InvalidValue("vector item %d has unsupported type %T", i, item)
		}
	}
	return w.Err()
}

func readVectorObject(r *Reader) (Object, error) {
	items, err := ReadBareVector(r, readVectorItem)
	if err != nil {
		return nil, err
	}
	return &Vector{Items: items}, nil
}

func readVectorItem(r *Reader) (any, error) {
	start := r.Offset()
	obj, err := r.ReadObject()
	if err == nil {
		return obj, nil
	}
	// Only an unknown leading identifier means "not a boxed element"; an
	// unknown constructor deeper inside a registered one is a real failure.
	if KindOf(err) != KindUnknownConstructor || r.Offset() != start {
		return nil, err
	}
	v, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Message is one transport message:
//
//	message msg_id:long seqno:int bytes:int body:Object = Message;
//
// Bytes is the length of the serialized body as it was on the wire. It is
// derived data and is left out of Fields, so a body that was sent compressed
// still compares equal to the plain one.
type Message struct {
	MsgID int64
	SeqNo int32
	Bytes int32
	Body  Object
}

// NewMessage wraps body and records its encoded length.
func NewMessage(msgID int64, seqNo int32, body Object) (*Message, error) {
	n, err := Len(body)
	if err != nil {
		return nil, err
	}
	return &Message{MsgID: msgID, SeqNo: seqNo, Bytes: int32(n), Body: body}, nil
}

func (*Message) TypeID() uint32   { return MessageID }
func (*Message) TypeName() string { return "message" }

func (m *Message) Fields() []Field {
	return []Field{
		{Name: "msg_id", Value: m.MsgID},
		{Name: "seq_no", Value: m.SeqNo},
		{Name: "body", Value: m.Body},
	}
}

func (m *Message) Encode(w *Writer) error {
	w.PutID(MessageID)
	return m.EncodeBare(w)
}

// EncodeBare writes the message without its identifier, as containers and
// the encrypted envelope carry it. The length field always reflects the
// serialized body.
func (m *Message) EncodeBare(w *Writer) error {
	if isNil(m.Body) {
		return InvalidValue("message %d without a body", m.MsgID)
	}
	body, err := Encode(m.Body)
	if err != nil {
		return err
	}
	w.PutInt64(m.MsgID)
	w.PutInt32(m.SeqNo)
	w.PutInt32(int32(len(body)))
	w.PutRaw(body)
	return w.Err()
}

// ReadBareMessage reads a message without its identifier. The body is read
// inside a region bounded by the declared length and must fill it exactly.
func ReadBareMessage(r *Reader) (*Message, error) {
	m := &Message{}
	var err error
	if m.MsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if m.SeqNo, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	start := r.pos()
	if m.Bytes, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if m.Bytes < 0 {
		return nil, malformed(start, "negative message length %d", m.Bytes)
	}
	body, err := r.Sub(int(m.Bytes))
	if err != nil {
		return nil, err
	}
	if m.Body, err = body.ReadObject(); err != nil {
		return nil, err
	}
	if body.Remaining() != 0 {
		return nil, malformed(start, "message body is %d bytes shorter than its declared length %d", body.Remaining(), m.Bytes)
	}
	return m, nil
}

// MsgContainer carries several messages in one transport packet:
//
//	msg_container#73f1f8dc messages:vector<%Message> = MessageContainer;
type MsgContainer struct {
	Messages []*Message
}

func (*MsgContainer) TypeID() uint32   { return MsgContainerID }
func (*MsgContainer) TypeName() string { return "msg_container" }

func (c *MsgContainer) Fields() []Field {
	return []Field{{Name: "messages", Value: c.Messages}}
}

func (c *MsgContainer) Encode(w *Writer) error {
	w.PutID(MsgContainerID)
	w.PutInt32(int32(len(c.Messages)))
	for _, m := range c.Messages {
		if m == nil {
			return InvalidValue("nil message in container")
		}
		if err := m.EncodeBare(w); err != nil {
			return err
		}
	}
	return w.Err()
}

func readMsgContainer(r *Reader) (Object, error) {
	msgs, err := ReadBareVector(r, ReadBareMessage)
	if err != nil {
		return nil, err
	}
	return &MsgContainer{Messages: msgs}, nil
}

// FutureSalt is one server salt and its validity window:
//
//	future_salt#0949d9dc valid_since:int valid_until:int salt:long = FutureSalt;
type FutureSalt struct {
	ValidSince int32
	ValidUntil int32
	Salt       int64
}

func (*FutureSalt) TypeID() uint32   { return FutureSaltID }
func (*FutureSalt) TypeName() string { return "future_salt" }

func (s *FutureSalt) Fields() []Field {
	return []Field{
		{Name: "valid_since", Value: s.ValidSince},
		{Name: "valid_until", Value: s.ValidUntil},
		{Name: "salt", Value: s.Salt},
	}
}

func (s *FutureSalt) Encode(w *Writer) error {
	w.PutID(FutureSaltID)
	s.encodeBare(w)
	return w.Err()
}

func (s *FutureSalt) encodeBare(w *Writer) {
	w.PutInt32(s.ValidSince)
	w.PutInt32(s.ValidUntil)
	w.PutInt64(s.Salt)
}

func readBareFutureSalt(r *Reader) (*FutureSalt, error) {
	s := &FutureSalt{}
	var err error
	if s.ValidSince, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if s.ValidUntil, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if s.Salt, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	return s, nil
}

// FutureSalts answers get_future_salts:
//
//	future_salts#ae500895 req_msg_id:long now:int salts:vector<future_salt> = FutureSalts;
type FutureSalts struct {
	ReqMsgID int64
	Now      int32
	Salts    []*FutureSalt
}

func (*FutureSalts) TypeID() uint32   { return FutureSaltsID }
func (*FutureSalts) TypeName() string { return "future_salts" }

func (s *FutureSalts) Fields() []Field {
	return []Field{
		{Name: "req_msg_id", Value: s.ReqMsgID},
		{Name: "now", Value: s.Now},
		{Name: "salts", Value: s.Salts},
	}
}

func (s *FutureSalts) Encode(w *Writer) error {
	w.PutID(FutureSaltsID)
	w.PutInt64(s.ReqMsgID)
	w.PutInt32(s.Now)
	PutBareVector(w, s.Salts, func(w *Writer, salt *FutureSalt) { salt.encodeBare(w) })
	return w.Err()
}

func readFutureSalts(r *Reader) (Object, error) {
	s := &FutureSalts{}
	var err error
	if s.ReqMsgID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if s.Now, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if s.Salts, err = ReadBareVector(r, readBareFutureSalt); err != nil {
		return nil, err
	}
	return s, nil
}
