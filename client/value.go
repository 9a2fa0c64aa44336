package client

import (
	"encoding/json"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
	KindBytes
	KindFile
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindFile:
		return "file"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a single request parameter. The zero Value is an empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bin  []byte
	obj  map[string]Value
	arr  []Value
}

// String returns a textual parameter.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer parameter.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Float returns a floating point parameter. NaN and infinities have no
// wire form; [Client.Post] rejects them with [ErrNonFinite].
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a boolean parameter, sent on the wire as 1 or 0.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Bytes returns an in-memory binary parameter. It is sent as a file part
// and never signed.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bin: b} }

// File returns a binary parameter backed by the file at path. The file is
// opened when the request body is built.
func File(path string) Value { return Value{kind: KindFile, str: path} }

// Object returns a nested object parameter, sent as compact JSON.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, obj: fields} }

// Array returns a nested array parameter, sent as compact JSON.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	if v.kind == 0 {
		return KindString
	}
	return v.kind
}

// IsBinary reports whether v is excluded from signing and text serialization.
func (v Value) IsBinary() bool {
	return v.kind == KindBytes || v.kind == KindFile
}

// Payload returns the in-memory content of a Bytes value.
func (v Value) Payload() []byte { return v.bin }

// Path returns the path of a File value.
func (v Value) Path() string {
	if v.kind != KindFile {
		return ""
	}
	return v.str
}

// Text returns the textual wire form of v. Binary values have no textual
// form; for them Text returns the file base name or an empty string.
func (v Value) Text() string {
	switch v.Kind() {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'f', -1, 64)
	case KindBool:
		return strconv.FormatInt(v.num, 10)
	case KindFile:
		return filepath.Base(v.str)
	case KindBytes:
		return ""
	case KindObject, KindArray:
		var sb strings.Builder
		v.writeJSON(&sb)
		return sb.String()
	default:
		return ""
	}
}

// writeJSON emits v as compact JSON with object keys in ascending order.
func (v Value) writeJSON(sb *strings.Builder) {
	switch v.Kind() {
	case KindString:
		b, _ := json.Marshal(v.str)
		sb.Write(b)
	case KindInt, KindFloat, KindBool:
		sb.WriteString(v.Text())
	case KindFile, KindBytes:
		sb.WriteString("null")
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			b, _ := json.Marshal(k)
			sb.Write(b)
			sb.WriteByte(':')
			v.obj[k].writeJSON(sb)
		}
		sb.WriteByte('}')
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeJSON(sb)
		}
		sb.WriteByte(']')
	}
}

// finite reports whether v and every value nested in it has a JSON form.
func (v Value) finite() bool {
	switch v.Kind() {
	case KindFloat:
		return !math.IsNaN(v.flt) && !math.IsInf(v.flt, 0)
	case KindObject:
		for _, item := range v.obj {
			if !item.finite() {
				return false
			}
		}
	case KindArray:
		for _, item := range v.arr {
			if !item.finite() {
				return false
			}
		}
	}
	return true
}
