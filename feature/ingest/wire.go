package ingest

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

type field struct {
	typ protowire.Type
	val uint64
	raw []byte
}

// message is a decoded protobuf message keyed by field number. Scalars
// follow proto3 rules: the last occurrence wins and absent means zero.
type message map[protowire.Number][]field

func parseMessage(b []byte) (message, error) {
	m := make(message)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := field{typ: typ}
		switch typ {
		case protowire.VarintType:
			f.val, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.val = uint64(v)
		case protowire.Fixed64Type:
			f.val, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.raw, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		if typ == protowire.StartGroupType {
			continue
		}
		m[num] = append(m[num], f)
	}
	return m, nil
}

func (m message) has(num protowire.Number) bool {
	return len(m[num]) > 0
}

func (m message) last(num protowire.Number, typ protowire.Type) (field, bool) {
	fs := m[num]
	for i := len(fs) - 1; i >= 0; i-- {
		if fs[i].typ == typ {
			return fs[i], true
		}
	}
	return field{}, false
}

func (m message) varint(num protowire.Number) uint64 {
	f, _ := m.last(num, protowire.VarintType)
	return f.val
}

func (m message) i64(num protowire.Number) int64 {
	return int64(m.varint(num))
}

func (m message) i32(num protowire.Number) int32 {
	return int32(m.varint(num))
}

func (m message) str(num protowire.Number) string {
	f, _ := m.last(num, protowire.BytesType)
	return string(f.raw)
}

// sub returns the last embedded message of num.
func (m message) sub(num protowire.Number) (message, bool, error) {
	f, ok := m.last(num, protowire.BytesType)
	if !ok {
		return nil, false, nil
	}
	sub, err := parseMessage(f.raw)
	if err != nil {
		return nil, false, fmt.Errorf("field %d: %w", num, err)
	}
	return sub, true, nil
}

// subs returns every embedded message of a repeated or map field.
func (m message) subs(num protowire.Number) ([]message, error) {
	var out []message
	for _, f := range m[num] {
		if f.typ != protowire.BytesType {
			continue
		}
		sub, err := parseMessage(f.raw)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", num, err)
		}
		out = append(out, sub)
	}
	return out, nil
}

// varints returns a repeated scalar field, packed or not.
func (m message) varints(num protowire.Number) ([]uint64, error) {
	var out []uint64
	for _, f := range m[num] {
		switch f.typ {
		case protowire.VarintType:
			out = append(out, f.val)
		case protowire.BytesType:
			b := f.raw
			for len(b) > 0 {
				v, n := protowire.ConsumeVarint(b)
				if n < 0 {
					return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
				}
				out = append(out, v)
				b = b[n:]
			}
		}
	}
	return out, nil
}

func (m message) i64s(num protowire.Number) ([]int64, error) {
	vs, err := m.varints(num)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = int64(v)
	}
	return out, nil
}

func (m message) strs(num protowire.Number) []string {
	var out []string
	for _, f := range m[num] {
		if f.typ == protowire.BytesType {
			out = append(out, string(f.raw))
		}
	}
	return out
}

// timestamp reads the seconds of an embedded google.protobuf.Timestamp.
func (m message) timestamp(num protowire.Number) (int64, bool, error) {
	ts, ok, err := m.sub(num)
	if err != nil || !ok {
		return 0, false, err
	}
	return ts.i64(fTimestampSeconds), true, nil
}
