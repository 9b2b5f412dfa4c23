package tl

import (
	"bytes"
	"math"
	"reflect"
)

// Encoder is the capability every value written into a boxed field must
// have: it writes its own constructor identifier followed by its fields.
type Encoder interface {
	Encode(w *Writer) error
}

// Object is a boxed TL value.
type Object interface {
	Encoder
	// TypeID is the constructor identifier written before the fields.
	TypeID() uint32
	// TypeName is the TL combinator name, e.g. "msgs_ack" or "updates.getDifference".
	TypeName() string
	// Fields lists the schema fields in declaration order. Flags bitmasks are
	// omitted and absent optional fields carry a nil Value.
	Fields() []Field
}

// Field is one named value of an Object, used by Equal, Format and Dump.
type Field struct {
	Name  string
	Value any
}

// Factory reads the fields of one constructor. It runs after the dispatcher
// has consumed the identifier and returns either a complete value or an error.
type Factory func(r *Reader) (Object, error)

// Encode serializes obj as a boxed value.
func Encode(obj Encoder) ([]byte, error) {
	w := NewWriter(64)
	w.PutObject(obj)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Len returns the encoded length of obj.
func Len(obj Encoder) (int, error) {
	b, err := Encode(obj)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// Equal reports structural equality: the same constructor and field-wise
// equal values. A difference in field shape is never equal.
func Equal(a, b Object) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if a.TypeID() != b.TypeID() {
		return false
	}
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i].Name != fb[i].Name {
			return false
		}
		if !equalValue(fa[i].Value, fb[i].Value) {
			return false
		}
	}
	return true
}

func equalValue(x, y any) bool {
	if xb, ok := x.([]byte); ok {
		yb, ok := y.([]byte)
		return ok && bytes.Equal(xb, yb)
	}
	if xf, ok := x.(float64); ok {
		yf, ok := y.(float64)
		return ok && math.Float64bits(xf) == math.Float64bits(yf)
	}
	xv, yv := reflect.ValueOf(x), reflect.ValueOf(y)
	if xv.Kind() == reflect.Slice && yv.Kind() == reflect.Slice {
		if xv.Type() != yv.Type() || xv.Len() != yv.Len() {
			return false
		}
		for i := 0; i < xv.Len(); i++ {
			if !equalValue(xv.Index(i).Interface(), yv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	if isNil(x) || isNil(y) {
		return isNil(x) && isNil(y)
	}
	if xo, ok := x.(Object); ok {
		yo, ok := y.(Object)
		return ok && Equal(xo, yo)
	}
	return reflect.DeepEqual(x, y)
}
