package tl

import "testing"

const (
	sampleID uint32 = 0x5a4d1e01
	noteID   uint32 = 0x0bad0a7e
)

// sample exercises every primitive plus flags-gated fields.
//
//	test.sample#5a4d1e01 flags:# id:long title:string payload:bytes ok:Bool
//	    scores:Vector<int> ratio:double limit:flags.0?int child:flags.1?Object = test.Sample;
type sample struct {
	ID      int64
	Title   string
	Payload []byte
	OK      bool
	Scores  []int32
	Ratio   float64
	Limit   *int32
	Child   Object
}

func (*sample) TypeID() uint32   { return sampleID }
func (*sample) TypeName() string { return "test.sample" }

func (s *sample) Fields() []Field {
	var limit any
	if s.Limit != nil {
		limit = *s.Limit
	}
	return []Field{
		{Name: "id", Value: s.ID},
		{Name: "title", Value: s.Title},
		{Name: "payload", Value: s.Payload},
		{Name: "ok", Value: s.OK},
		{Name: "scores", Value: s.Scores},
		{Name: "ratio", Value: s.Ratio},
		{Name: "limit", Value: limit},
		{Name: "child", Value: s.Child},
	}
}

func (s *sample) Encode(w *Writer) error {
	var flags Flags
	flags.SetIf(0, s.Limit != nil)
	flags.SetIf(1, s.Child != nil)
	w.PutID(sampleID)
	w.PutFlags(flags)
	w.PutInt64(s.ID)
	w.PutString(s.Title)
	w.PutBytes(s.Payload)
	w.PutBool(s.OK)
	PutVector(w, s.Scores, (*Writer).PutInt32)
	w.PutDouble(s.Ratio)
	if s.Limit != nil {
		w.PutInt32(*s.Limit)
	}
	if s.Child != nil {
		w.PutObject(s.Child)
	}
	return w.Err()
}

func readSample(r *Reader) (Object, error) {
	s := &sample{}
	flags, err := r.ReadFlags()
	if err != nil {
		return nil, err
	}
	if s.ID, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	if s.Title, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.Payload, err = r.ReadBytes(); err != nil {
		return nil, err
	}
	if s.OK, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if s.Scores, err = ReadVector(r, (*Reader).ReadInt32); err != nil {
		return nil, err
	}
	if s.Ratio, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if flags.Has(0) {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		s.Limit = &v
	}
	if flags.Has(1) {
		if s.Child, err = r.ReadObject(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// note is the smallest boxed value with a string field.
type note struct {
	Text string
}

func (*note) TypeID() uint32   { return noteID }
func (*note) TypeName() string { return "test.note" }

func (n *note) Fields() []Field {
	return []Field{{Name: "text", Value: n.Text}}
}

func (n *note) Encode(w *Writer) error {
	w.PutID(noteID)
	w.PutString(n.Text)
	return w.Err()
}

func readNote(r *Reader) (Object, error) {
	text, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return &note{Text: text}, nil
}

// view is a display-only object for Format and Dump tests.
type view struct {
	name   string
	fields []Field
}

func (v *view) TypeID() uint32         { return 0x7e57 }
func (v *view) TypeName() string       { return v.name }
func (v *view) Fields() []Field        { return v.fields }
func (v *view) Encode(w *Writer) error { return InvalidValue("view is not encodable") }

func testBuilder(t testing.TB) *Builder {
	t.Helper()
	b := NewBuilder()
	if err := RegisterCore(b); err != nil {
		t.Fatalf("register core: %v", err)
	}
	b.MustRegister(sampleID, "test.sample", readSample)
	b.MustRegister(noteID, "test.note", readNote)
	return b
}

func testRegistry(t testing.TB) *Registry {
	t.Helper()
	return testBuilder(t).Build()
}

func int32p(v int32) *int32 { return &v }

func fullSample() *sample {
	return &sample{
		ID:      -42,
		Title:   "hello",
		Payload: []byte{0xde, 0xad, 0xbe, 0xef, 0x01},
		OK:      true,
		Scores:  []int32{7, 9, -1},
		Ratio:   0.25,
		Limit:   int32p(100),
		Child:   &note{Text: "nested"},
	}
}

func mustEncode(t testing.TB, obj Object) []byte {
	t.Helper()
	b, err := Encode(obj)
	if err != nil {
		t.Fatalf("encode %s: %v", obj.TypeName(), err)
	}
	return b
}
