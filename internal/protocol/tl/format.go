package tl

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Format renders obj as name(field=value, ...) for logs and test failures.
// Absent fields are omitted, phone numbers are masked and fields whose name
// ends in "date" are shown as UTC timestamps.
func Format(obj Object) string {
	var sb strings.Builder
	formatObject(&sb, obj)
	return sb.String()
}

func formatObject(sb *strings.Builder, obj Object) {
	if isNil(obj) {
		sb.WriteString("nil")
		return
	}
	if b, ok := obj.(Bool); ok {
		sb.WriteString(strconv.FormatBool(bool(b)))
		return
	}
	sb.WriteString(obj.TypeName())
	sb.WriteByte('(')
	first := true
	for _, f := range obj.Fields() {
		if isNil(f.Value) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		formatValue(sb, f.Name, f.Value)
	}
	sb.WriteByte(')')
}

func formatValue(sb *strings.Builder, name string, v any) {
	switch x := v.(type) {
	case Object:
		formatObject(sb, x)
		return
	case []byte:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(x))
		return
	case string:
		if masked(name) {
			x = mask(x)
		}
		sb.WriteString(strconv.Quote(x))
		return
	}
	if ts, ok := timestamp(name, v); ok {
		sb.WriteString(ts)
		return
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatValue(sb, name, rv.Index(i).Interface())
		}
		sb.WriteByte(']')
		return
	}
	fmt.Fprint(sb, v)
}

// Dump renders obj as an indented JSON document. Each object is a JSON object
// whose first key "_" holds the type name, followed by its fields in schema
// order.
func Dump(obj Object) ([]byte, error) {
	var compact bytes.Buffer
	if err := dumpObject(&compact, obj); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func dumpObject(buf *bytes.Buffer, obj Object) error {
	if isNil(obj) {
		buf.WriteString("null")
		return nil
	}
	if b, ok := obj.(Bool); ok {
		buf.WriteString(strconv.FormatBool(bool(b)))
		return nil
	}
	buf.WriteString(`{"_":`)
	if err := dumpScalar(buf, obj.TypeName()); err != nil {
		return err
	}
	for _, f := range obj.Fields() {
		if isNil(f.Value) {
			continue
		}
		buf.WriteByte(',')
		if err := dumpScalar(buf, f.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := dumpValue(buf, f.Name, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func dumpValue(buf *bytes.Buffer, name string, v any) error {
	switch x := v.(type) {
	case Object:
		return dumpObject(buf, x)
	case []byte:
		return dumpScalar(buf, "0x"+hex.EncodeToString(x))
	case string:
		if masked(name) {
			x = mask(x)
		}
		return dumpScalar(buf, x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return dumpScalar(buf, strconv.FormatFloat(x, 'g', -1, 64))
		}
	}
	if ts, ok := timestamp(name, v); ok {
		return dumpScalar(buf, ts)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		buf.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := dumpValue(buf, name, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	return dumpScalar(buf, v)
}

func dumpScalar(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func masked(name string) bool {
	return name == "phone_number" || name == "phone"
}

func mask(s string) string {
	return strings.Repeat("*", len(s))
}

func timestamp(name string, v any) (string, bool) {
	if !strings.HasSuffix(name, "date") {
		return "", false
	}
	var sec int64
	switch x := v.(type) {
	case int32:
		sec = int64(x)
	case int64:
		sec = x
	default:
		return "", false
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339), true
}
