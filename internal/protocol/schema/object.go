package schema

import (
	"fmt"
	"math"
	"reflect"

	"github.com/danmuck/tlwire/internal/protocol/tl"
)

// Object is a boxed value over one schema combinator. Values are held by
// parameter name in their canonical Go types:
//
//	int int32, long int64, double float64, int128 tl.Int128, int256 tl.Int256,
//	string string, bytes []byte, Bool bool, true bool,
//	Vector<T>/vector<T> []any, bare constructors *Object, boxed values tl.Object.
//
// `#` bitmasks are never stored; Encode derives them from which optional
// parameters are set.
type Object struct {
	schema *Schema
	c      *Combinator
	values map[string]any
}

// New returns an empty object for the named combinator.
func (s *Schema) New(name string) (*Object, error) {
	c, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("schema: unknown combinator %q", name)
	}
	return s.newObject(c), nil
}

func (s *Schema) newObject(c *Combinator) *Object {
	return &Object{schema: s, c: c, values: make(map[string]any, len(c.Params))}
}

func (o *Object) Combinator() *Combinator { return o.c }

func (o *Object) TypeID() uint32   { return o.c.ID }
func (o *Object) TypeName() string { return o.c.Name }

func (o *Object) param(name string) (Param, bool) {
	for _, p := range o.c.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Set assigns a parameter after converting v to its canonical type. A nil v,
// or false for a `true` parameter, clears it.
func (o *Object) Set(name string, v any) error {
	p, ok := o.param(name)
	if !ok {
		return tl.InvalidValue("%s has no parameter %s", o.c.Name, name)
	}
	if p.Type.Kind == TypeFlags {
		return tl.InvalidValue("%s.%s is derived from the optional parameters", o.c.Name, name)
	}
	if v == nil || (p.Type.Kind == TypeTrue && v == false) {
		delete(o.values, name)
		return nil
	}
	cv, err := o.schema.coerce(p.Type, v)
	if err != nil {
		return tl.InvalidValue("%s.%s: %v", o.c.Name, name, err)
	}
	o.values[name] = cv
	return nil
}

// MustSet is Set for literals in tests and tools.
func (o *Object) MustSet(name string, v any) *Object {
	if err := o.Set(name, v); err != nil {
		panic(err)
	}
	return o
}

func (o *Object) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o *Object) Fields() []tl.Field {
	out := make([]tl.Field, 0, len(o.c.Params))
	for _, p := range o.c.Params {
		if p.Type.Kind == TypeFlags {
			continue
		}
		out = append(out, tl.Field{Name: p.Name, Value: o.values[p.Name]})
	}
	return out
}

func (o *Object) flags() map[string]tl.Flags {
	flags := make(map[string]tl.Flags)
	for _, p := range o.c.Params {
		if !p.Optional() {
			continue
		}
		if _, set := o.values[p.Name]; set {
			f := flags[p.FlagField]
			f.Set(p.FlagBit)
			flags[p.FlagField] = f
		}
	}
	return flags
}

func (o *Object) Encode(w *tl.Writer) error {
	w.PutID(o.c.ID)
	return o.encodeBare(w)
}

func (o *Object) encodeBare(w *tl.Writer) error {
	flags := o.flags()
	for _, p := range o.c.Params {
		if p.Type.Kind == TypeFlags {
			w.PutFlags(flags[p.Name])
			continue
		}
		v, set := o.values[p.Name]
		if p.Type.Kind == TypeTrue {
			continue
		}
		if !set {
			if p.Optional() {
				continue
			}
			return tl.InvalidValue("%s: missing required parameter %s", o.c.Name, p.Name)
		}
		if err := o.schema.writeValue(w, p.Type, v); err != nil {
			return fmt.Errorf("%s.%s: %w", o.c.Name, p.Name, err)
		}
	}
	return w.Err()
}

// factory returns the registry factory for c.
func (s *Schema) factory(c *Combinator) tl.Factory {
	return func(r *tl.Reader) (tl.Object, error) {
		o, err := s.readBare(r, c)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
}

func (s *Schema) readBare(r *tl.Reader, c *Combinator) (*Object, error) {
	o := s.newObject(c)
	flags := make(map[string]tl.Flags)
	for _, p := range c.Params {
		if p.Type.Kind == TypeFlags {
			f, err := r.ReadFlags()
			if err != nil {
				return nil, err
			}
			flags[p.Name] = f
			continue
		}
		if p.Optional() && !flags[p.FlagField].Has(p.FlagBit) {
			continue
		}
		if p.Type.Kind == TypeTrue {
			o.values[p.Name] = true
			continue
		}
		v, err := s.readValue(r, p.Type)
		if err != nil {
			return nil, err
		}
		o.values[p.Name] = v
	}
	return o, nil
}

func value[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Schema) readValue(r *tl.Reader, t *Type) (any, error) {
	switch t.Kind {
	case TypeInt:
		return value(r.ReadInt32())
	case TypeLong:
		return value(r.ReadInt64())
	case TypeDouble:
		return value(r.ReadDouble())
	case TypeInt128:
		return value(r.ReadInt128())
	case TypeInt256:
		return value(r.ReadInt256())
	case TypeString:
		return value(r.ReadString())
	case TypeBytes:
		return value(r.ReadBytes())
	case TypeBool:
		return value(r.ReadBool())
	case TypeVector:
		return value(tl.ReadVector(r, func(r *tl.Reader) (any, error) { return s.readValue(r, t.Elem) }))
	case TypeBareVector:
		return value(tl.ReadBareVector(r, func(r *tl.Reader) (any, error) { return s.readValue(r, t.Elem) }))
	case TypeBare:
		if isMessage(t) {
			return value(tl.ReadBareMessage(r))
		}
		c, err := s.bareConstructor(t)
		if err != nil {
			return nil, tl.Malformed(r.Offset(), "%v", err)
		}
		var o *Object
		err = r.Nest(func(r *tl.Reader) error {
			var err error
			o, err = s.readBare(r, c)
			return err
		})
		if err != nil {
			return nil, err
		}
		return o, nil
	case TypeBoxed:
		return value(r.ReadObject())
	}
	return nil, tl.Malformed(r.Offset(), "cannot read parameter of type %s", t)
}

func (s *Schema) writeValue(w *tl.Writer, t *Type, v any) error {
	bad := func() error {
		return tl.InvalidValue("%T is not a valid %s", v, t)
	}
	switch t.Kind {
	case TypeInt:
		x, ok := v.(int32)
		if !ok {
			return bad()
		}
		w.PutInt32(x)
	case TypeLong:
		x, ok := v.(int64)
		if !ok {
			return bad()
		}
		w.PutInt64(x)
	case TypeDouble:
		x, ok := v.(float64)
		if !ok {
			return bad()
		}
		w.PutDouble(x)
	case TypeInt128:
		x, ok := v.(tl.Int128)
		if !ok {
			return bad()
		}
		w.PutInt128(x)
	case TypeInt256:
		x, ok := v.(tl.Int256)
		if !ok {
			return bad()
		}
		w.PutInt256(x)
	case TypeString:
		x, ok := v.(string)
		if !ok {
			return bad()
		}
		w.PutString(x)
	case TypeBytes:
		x, ok := v.([]byte)
		if !ok {
			return bad()
		}
		w.PutBytes(x)
	case TypeBool:
		x, ok := v.(bool)
		if !ok {
			return bad()
		}
		w.PutBool(x)
	case TypeVector, TypeBareVector:
		items, ok := v.([]any)
		if !ok {
			return bad()
		}
		if t.Kind == TypeVector {
			w.PutID(tl.VectorID)
		}
		w.PutInt32(int32(len(items)))
		for _, item := range items {
			if err := s.writeValue(w, t.Elem, item); err != nil {
				return err
			}
		}
	case TypeBare:
		if isMessage(t) {
			m, ok := v.(*tl.Message)
			if !ok || m == nil {
				return bad()
			}
			return m.EncodeBare(w)
		}
		o, ok := v.(*Object)
		if !ok || o == nil || !s.acceptsBare(t, o.c) {
			return bad()
		}
		return o.encodeBare(w)
	case TypeBoxed:
		x, ok := v.(tl.Object)
		if !ok {
			return bad()
		}
		w.PutObject(x)
	default:
		return bad()
	}
	return w.Err()
}

// coerce converts v to the canonical Go type for t.
func (s *Schema) coerce(t *Type, v any) (any, error) {
	switch t.Kind {
	case TypeInt:
		n, ok := toInt64(v)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%v (%T) is not an int", v, v)
		}
		return int32(n), nil
	case TypeLong:
		n, ok := toInt64(v)
		if !ok {
			return nil, fmt.Errorf("%v (%T) is not a long", v, v)
		}
		return n, nil
	case TypeDouble:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		}
	case TypeInt128:
		if x, ok := v.(tl.Int128); ok {
			return x, nil
		}
	case TypeInt256:
		if x, ok := v.(tl.Int256); ok {
			return x, nil
		}
	case TypeString:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		}
	case TypeBytes:
		switch x := v.(type) {
		case []byte:
			return append([]byte(nil), x...), nil
		case string:
			return []byte(x), nil
		}
	case TypeBool, TypeTrue:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	case TypeVector, TypeBareVector:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			break
		}
		items := make([]any, rv.Len())
		for i := range items {
			item, err := s.coerce(t.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			items[i] = item
		}
		return items, nil
	case TypeBare:
		if isMessage(t) {
			if m, ok := v.(*tl.Message); ok && m != nil {
				return m, nil
			}
			break
		}
		if o, ok := v.(*Object); ok && o != nil && s.acceptsBare(t, o.c) {
			return o, nil
		}
	case TypeBoxed:
		if x, ok := v.(tl.Object); ok && !isNilObject(x) {
			return x, nil
		}
	}
	return nil, fmt.Errorf("%T is not a valid %s", v, t)
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func isNilObject(x tl.Object) bool {
	rv := reflect.ValueOf(x)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// isMessage reports whether t is the transport message, which the engine
// reads and writes itself.
func isMessage(t *Type) bool {
	return t.Name == "message" || t.Name == "%Message"
}

// bareConstructor resolves a bare type to its constructor: a lowercase name
// directly, or %Type through the single constructor producing Type.
func (s *Schema) bareConstructor(t *Type) (*Combinator, error) {
	if len(t.Name) > 1 && t.Name[0] == '%' {
		cs := s.Constructors(t.Name[1:])
		if len(cs) != 1 {
			return nil, fmt.Errorf("bare %s needs exactly one constructor, found %d", t.Name, len(cs))
		}
		return cs[0], nil
	}
	c, ok := s.Lookup(t.Name)
	if !ok {
		return nil, fmt.Errorf("bare type %s is not declared", t.Name)
	}
	return c, nil
}

func (s *Schema) acceptsBare(t *Type, c *Combinator) bool {
	want, err := s.bareConstructor(t)
	return err == nil && want == c
}
