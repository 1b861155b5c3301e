package grpc

import (
	"bytes"
	"encoding"
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// maxPruneDepth bounds the walk over payloads that refer to themselves.
const maxPruneDepth = 64

var jsonNull = []byte("null")

type member struct {
	name  string
	value []byte
}

// serialize encodes payload as JSON with <, > and & left as they are. When
// encoding/json rejects the payload, the values JSON cannot hold are pruned
// instead: functions, channels and complex numbers are dropped from objects
// and become null in arrays, and NaN or infinite floats become null. A payload
// that is itself unrepresentable serializes to null.
func serialize(payload any) (string, string) {
	if b, err := encodeJSON(payload); err == nil {
		return string(b), encodingJSON
	}

	b, ok := prune(reflect.ValueOf(payload), 0)
	if !ok {
		return string(jsonNull), encodingPruned
	}

	return string(b), encodingPruned
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// prune encodes v, leaving out what JSON cannot represent. ok is false when v
// itself has no JSON form.
func prune(v reflect.Value, depth int) ([]byte, bool) {
	if !v.IsValid() {
		return jsonNull, true
	}

	if depth > maxPruneDepth {
		return nil, false
	}

	if v.CanInterface() {
		if b, err := encodeJSON(v.Interface()); err == nil {
			return b, true
		}
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return jsonNull, true
		}

		return prune(v.Elem(), depth+1)

	case reflect.Bool:
		return strconv.AppendBool(nil, v.Bool()), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(nil, v.Int(), 10), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(nil, v.Uint(), 10), true

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return jsonNull, true
		}

		b, err := encodeJSON(f)

		return b, err == nil

	case reflect.String:
		b, err := encodeJSON(v.String())

		return b, err == nil

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return jsonNull, true
		}

		return pruneArray(v, depth), true

	case reflect.Map:
		if v.IsNil() {
			return jsonNull, true
		}

		return writeObject(mapMembers(v, depth)), true

	case reflect.Struct:
		return writeObject(structMembers(v, depth)), true

	default:
		// func, chan, complex and unsafe pointers
		return nil, false
	}
}

func pruneArray(v reflect.Value, depth int) []byte {
	var buf bytes.Buffer

	buf.WriteByte('[')

	for i := range v.Len() {
		if i > 0 {
			buf.WriteByte(',')
		}

		b, ok := prune(v.Index(i), depth+1)
		if !ok {
			b = jsonNull
		}

		buf.Write(b)
	}

	buf.WriteByte(']')

	return buf.Bytes()
}

func mapMembers(v reflect.Value, depth int) []member {
	members := make([]member, 0, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		name, ok := mapKey(iter.Key())
		if !ok {
			continue
		}

		if b, ok := prune(iter.Value(), depth+1); ok {
			members = append(members, member{name: name, value: b})
		}
	}

	slices.SortFunc(members, func(a, b member) int {
		return strings.Compare(a.name, b.name)
	})

	return members
}

// mapKey names a map entry the way encoding/json does.
func mapKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.String {
		return k.String(), true
	}

	if k.Kind() == reflect.Pointer && k.IsNil() {
		return "", true
	}

	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			b, err := tm.MarshalText()

			return string(b), err == nil
		}
	}

	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), true
	default:
		return "", false
	}
}

// structMembers walks exported fields in declaration order, honoring json tag
// names, "-", omitempty and omitzero. Untagged embedded structs are flattened.
func structMembers(v reflect.Value, depth int) []member {
	var members []member

	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)

		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}

		fv := v.Field(i)

		if f.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}

				inner = inner.Elem()
			}

			if inner.Kind() == reflect.Struct {
				members = append(members, structMembers(inner, depth+1)...)

				continue
			}
		}

		if !f.IsExported() {
			continue
		}

		if name == "" {
			name = f.Name
		}

		if hasOption(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}

		if hasOption(opts, "omitzero") && fv.IsZero() {
			continue
		}

		if b, ok := prune(fv, depth+1); ok {
			members = append(members, member{name: name, value: b})
		}
	}

	return members
}

func hasOption(opts, want string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == want {
			return true
		}
	}

	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	default:
		return false
	}
}

func writeObject(members []member) []byte {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, _ := encodeJSON(m.name)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(m.value)
	}

	buf.WriteByte('}')

	return buf.Bytes()
}
