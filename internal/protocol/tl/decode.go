package tl

import (
	"fmt"
	"reflect"
)

// ReadObject reads one boxed value: the identifier, then the fields of the
// constructor it names. An identifier missing from the registry fails with
// UnknownConstructor and leaves the cursor where the identifier started; the
// rest of the buffer cannot be interpreted safely after that.
func (r *Reader) ReadObject() (Object, error) {
	start := r.pos()
	if r.depth >= r.limits.MaxDepth {
		return nil, malformed(start, "objects nested deeper than %d", r.limits.MaxDepth)
	}
	id, err := r.ReadID()
	if err != nil {
		return nil, err
	}
	if r.reg == nil {
		r.off -= 4
		return nil, unknownConstructor(start, id)
	}
	entry, ok := r.reg.Resolve(id)
	if !ok {
		r.off -= 4
		return nil, unknownConstructor(start, id)
	}

	r.depth++
	obj, err := entry.Factory(r)
	r.depth--
	if err != nil {
		return nil, err
	}
	if isNil(obj) {
		return nil, &Error{Kind: KindMalformedData, Offset: start, ID: id, Message: fmt.Sprintf("%s produced no value", entry.Name)}
	}
	return obj, nil
}

// Nest runs read one nesting level deeper than r. Bare values that can contain
// themselves read through it so they count against MaxDepth like boxed ones.
func (r *Reader) Nest(read func(*Reader) error) error {
	if r.depth >= r.limits.MaxDepth {
		return malformed(r.pos(), "objects nested deeper than %d", r.limits.MaxDepth)
	}
	r.depth++
	defer func() { r.depth-- }()
	return read(r)
}

// ReadObjectAs reads a boxed value that must have Go type T.
func ReadObjectAs[T Object](r *Reader) (T, error) {
	var zero T
	start := r.pos()
	obj, err := r.ReadObject()
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		want := reflect.TypeOf((*T)(nil)).Elem()
		return zero, &Error{
			Kind:    KindMalformedData,
			Offset:  start,
			ID:      obj.TypeID(),
			Message: fmt.Sprintf("unexpected %s where %s is required", obj.TypeName(), want),
		}
	}
	return v, nil
}

// Decode reads one boxed value from the start of buf and reports how many
// bytes it occupied. On error no value is returned and nothing is consumed.
func Decode(reg *Registry, buf []byte) (Object, int, error) {
	return DecodeWithLimits(reg, buf, DefaultLimits())
}

func DecodeWithLimits(reg *Registry, buf []byte, limits Limits) (Object, int, error) {
	r := NewReader(buf, reg, limits)
	obj, err := r.ReadObject()
	if err != nil {
		return nil, 0, err
	}
	return obj, r.Offset(), nil
}
