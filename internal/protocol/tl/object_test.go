package tl

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"testing/quick"

	"github.com/danmuck/tlwire/internal/testutil/testlog"
	"github.com/davecgh/go-spew/spew"
)

func TestDecodeRoundTrip(t *testing.T) {
	testlog.Start(t)

	reg := testRegistry(t)
	cases := []Object{
		&note{},
		&note{Text: "hello world"},
		&sample{},
		&sample{Limit: int32p(0)},
		&sample{Child: Bool(false)},
		fullSample(),
		&sample{Title: strings.Repeat("long", 100), Child: fullSample()},
	}
	for _, in := range cases {
		enc := mustEncode(t, in)
		out, n, err := Decode(reg, enc)
		if err != nil {
			t.Fatalf("decode %s: %v", Format(in), err)
		}
		if n != len(enc) {
			t.Fatalf("%s: consumed %d of %d bytes", in.TypeName(), n, len(enc))
		}
		if !Equal(in, out) {
			t.Fatalf("round-trip mismatch:\nin=%s\nout=%s", spew.Sdump(in), spew.Sdump(out))
		}
		if size, err := Len(in); err != nil || size != len(enc) {
			t.Fatalf("Len=%d err=%v, want %d", size, err, len(enc))
		}
	}
}

func TestDecodeRoundTripProperty(t *testing.T) {
	testlog.Start(t)

	reg := testRegistry(t)
	prop := func(id int64, title string, payload []byte, ok bool, scores []int32, ratio float64, limit int32, withLimit bool) bool {
		in := &sample{ID: id, Title: title, Payload: payload, OK: ok, Scores: scores, Ratio: ratio}
		if withLimit {
			in.Limit = &limit
		}
		enc, err := Encode(in)
		if err != nil {
			return false
		}
		out, n, err := Decode(reg, enc)
		return err == nil && n == len(enc) && Equal(in, out)
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Fatalf("round-trip property: %v", err)
	}
}

func TestDecodeReportsConsumedPrefix(t *testing.T) {
	testlog.Start(t)

	enc := mustEncode(t, &note{Text: "first"})
	trailing := append(append([]byte{}, enc...), mustEncode(t, &note{Text: "second"})...)
	obj, n, err := Decode(testRegistry(t), trailing)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(enc) || obj.(*note).Text != "first" {
		t.Fatalf("expected first note of %d bytes, got %s after %d bytes", len(enc), Format(obj), n)
	}
}

func TestDecodeTruncationIsMalformed(t *testing.T) {
	testlog.Start(t)

	reg := testRegistry(t)
	inputs := []Object{
		fullSample(),
		Wrap(fullSample()),
		&MsgContainer{Messages: []*Message{
			{MsgID: 8, SeqNo: 1, Body: &note{Text: "a"}},
			{MsgID: 12, SeqNo: 3, Body: fullSample()},
		}},
	}
	for _, in := range inputs {
		enc := mustEncode(t, in)
		for i := 0; i < len(enc); i++ {
			obj, n, err := Decode(reg, enc[:i])
			if !errors.Is(err, ErrMalformedData) {
				t.Fatalf("%s prefix %d/%d: expected ErrMalformedData, got %v", in.TypeName(), i, len(enc), err)
			}
			if obj != nil || n != 0 {
				t.Fatalf("%s prefix %d: partial result %v consumed=%d", in.TypeName(), i, obj, n)
			}
		}
	}
}

func TestDecodeUnknownConstructor(t *testing.T) {
	testlog.Start(t)

	buf := []byte{0x01, 0x02, 0x03, 0x04, 0xff, 0xff, 0xff, 0xff}
	r := NewReader(buf, testRegistry(t), Limits{})
	obj, err := r.ReadObject()
	if !errors.Is(err, ErrUnknownConstructor) {
		t.Fatalf("expected ErrUnknownConstructor, got %v", err)
	}
	if obj != nil {
		t.Fatalf("unexpected object %v", obj)
	}
	if r.Offset() != 0 {
		t.Fatalf("unknown id consumed %d bytes", r.Offset())
	}
	var te *Error
	if !errors.As(err, &te) || te.ID != 0x04030201 {
		t.Fatalf("expected id 0x04030201 in error, got %v", err)
	}
	if KindOf(err) != KindUnknownConstructor {
		t.Fatalf("unexpected kind %q", KindOf(err))
	}

	if _, _, err := Decode(nil, buf); !errors.Is(err, ErrUnknownConstructor) {
		t.Fatalf("nil registry: expected ErrUnknownConstructor, got %v", err)
	}
}

func TestDecodeNestedUnknownPropagates(t *testing.T) {
	testlog.Start(t)

	enc := mustEncode(t, &sample{Child: &note{Text: "x"}})
	b := NewBuilder()
	b.MustRegister(sampleID, "test.sample", readSample)
	_, _, err := Decode(b.Build(), enc)
	if !errors.Is(err, ErrUnknownConstructor) {
		t.Fatalf("expected ErrUnknownConstructor from nested field, got %v", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	testlog.Start(t)

	var obj Object = &note{Text: "leaf"}
	for i := 0; i < 10; i++ {
		obj = &sample{Child: obj}
	}
	enc := mustEncode(t, obj)
	reg := testRegistry(t)

	if _, _, err := DecodeWithLimits(reg, enc, Limits{MaxDepth: 11}); err != nil {
		t.Fatalf("depth 11 should decode: %v", err)
	}
	if _, _, err := DecodeWithLimits(reg, enc, Limits{MaxDepth: 10}); !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData past the depth limit, got %v", err)
	}
}

func TestReadObjectAsWrongType(t *testing.T) {
	testlog.Start(t)

	enc := mustEncode(t, &note{Text: "x"})
	_, err := ReadObjectAs[*sample](NewReader(enc, testRegistry(t), Limits{}))
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}

	got, err := ReadObjectAs[*note](NewReader(enc, testRegistry(t), Limits{}))
	if err != nil || got.Text != "x" {
		t.Fatalf("typed read: %v %v", got, err)
	}
}

func TestObjectVectorRoundTrip(t *testing.T) {
	testlog.Start(t)

	in := []*note{{Text: "a"}, {Text: "bb"}, {Text: "ccc"}}
	w := NewWriter(64)
	PutObjectVector(w, in)
	if err := w.Err(); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewReader(w.Bytes(), testRegistry(t), Limits{})
	out, err := ReadObjectVector[*note](r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d elements, got %d", len(in), len(out))
	}
	for i := range in {
		if !Equal(in[i], out[i]) {
			t.Fatalf("element %d mismatch: %s", i, Format(out[i]))
		}
	}
}

func TestEncodeNilBoxedField(t *testing.T) {
	testlog.Start(t)

	w := NewWriter(8)
	var n *note
	w.PutObject(n)
	if !errors.Is(w.Err(), ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", w.Err())
	}
	if _, err := Encode(&view{name: "v"}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected encode error to propagate, got %v", err)
	}
}

func TestEqual(t *testing.T) {
	testlog.Start(t)

	a := fullSample()
	b := fullSample()
	if !Equal(a, b) {
		t.Fatalf("identical samples differ")
	}
	b.Scores = append(b.Scores, 1)
	if Equal(a, b) {
		t.Fatalf("different vectors compared equal")
	}
	b = fullSample()
	b.Child = &note{Text: "other"}
	if Equal(a, b) {
		t.Fatalf("different children compared equal")
	}
	b = fullSample()
	b.Limit = nil
	if Equal(a, b) {
		t.Fatalf("absent optional compared equal to present one")
	}
	if Equal(&note{Text: "x"}, &view{name: "test.note", fields: []Field{{Name: "text", Value: "x"}}}) {
		t.Fatalf("different constructors compared equal")
	}
	if Equal(&note{}, nil) || !Equal(nil, nil) {
		t.Fatalf("nil handling broken")
	}
	if !Equal(&sample{Scores: nil}, &sample{Scores: []int32{}}) {
		t.Fatalf("nil and empty vectors should compare equal")
	}
}

func TestFormat(t *testing.T) {
	testlog.Start(t)

	v := &view{name: "user", fields: []Field{
		{Name: "id", Value: int64(7)},
		{Name: "phone_number", Value: "15551234"},
		{Name: "first_name", Value: "Ada"},
		{Name: "last_name", Value: nil},
		{Name: "date", Value: int32(0)},
		{Name: "photo", Value: []byte{0xca, 0xfe}},
		{Name: "tags", Value: []int32{1, 2}},
		{Name: "status", Value: Bool(true)},
		{Name: "inner", Value: &note{Text: "n"}},
	}}
	got := Format(v)
	want := `user(id=7, phone_number="********", first_name="Ada", date=1970-01-01T00:00:00Z, photo=0xcafe, tags=[1, 2], status=true, inner=test.note(text="n"))`
	if got != want {
		t.Fatalf("format mismatch:\ngot=%s\nwant=%s", got, want)
	}
}

func TestDump(t *testing.T) {
	testlog.Start(t)

	v := &view{name: "user", fields: []Field{
		{Name: "phone_number", Value: "123"},
		{Name: "edit_date", Value: int64(86400)},
		{Name: "about", Value: nil},
		{Name: "inner", Value: &note{Text: "n"}},
	}}
	out, err := Dump(v)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "{\n" +
		"    \"_\": \"user\",\n" +
		"    \"phone_number\": \"***\",\n" +
		"    \"edit_date\": \"1970-01-02T00:00:00Z\",\n" +
		"    \"inner\": {\n" +
		"        \"_\": \"test.note\",\n" +
		"        \"text\": \"n\"\n" +
		"    }\n" +
		"}"
	if string(out) != want {
		t.Fatalf("dump mismatch:\n%s", out)
	}
	if !json.Valid(out) {
		t.Fatalf("dump is not valid JSON")
	}
}

func TestDumpNonFiniteDouble(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		ratio float64
		want  string
	}{
		{ratio: math.NaN(), want: "NaN"},
		{ratio: math.Inf(1), want: "+Inf"},
		{ratio: math.Inf(-1), want: "-Inf"},
	}
	for _, tc := range cases {
		s := fullSample()
		s.Ratio = tc.ratio
		out, err := Dump(s)
		if err != nil {
			t.Fatalf("dump ratio=%s: %v", tc.want, err)
		}
		if !json.Valid(out) {
			t.Fatalf("dump is not valid JSON:\n%s", out)
		}
		if !strings.Contains(string(out), `"ratio": "`+tc.want+`"`) {
			t.Fatalf("dump ratio=%s mismatch:\n%s", tc.want, out)
		}
		if !strings.Contains(Format(s), "ratio="+tc.want) {
			t.Fatalf("format ratio=%s mismatch: %s", tc.want, Format(s))
		}
	}
}
