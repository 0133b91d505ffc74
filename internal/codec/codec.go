// Package codec implements the posting-list wire format: delta+varint for
// sorted non-negative integer doc ids, with a length-prefix-free JSON
// fallback for strings or mixed-type lists.
package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ftskit/ftsengine/internal/ftserrors"
)

// Encoding names the wire representation chosen by Encode.
type Encoding string

const (
	// DeltaVarint is used when every value is a non-negative integer.
	DeltaVarint Encoding = "delta-varint"
	// JSON is the fallback used for strings, objects, or mixed-type lists.
	JSON Encoding = "json"
)

// maxVarintBytes bounds a single varint to 5 bytes (35 bits of payload),
// matching the wire format's documented per-value limit.
const maxVarintBytes = 5

// Encode chooses delta-varint for a list of non-negative integers (sorting
// it first) and JSON otherwise. An empty list always encodes as zero bytes
// under delta-varint.
func Encode(values []any) ([]byte, Encoding, error) {
	if len(values) == 0 {
		return []byte{}, DeltaVarint, nil
	}

	ints, allInts := asNonNegativeInts(values)
	if allInts {
		sort.Slice(ints, func(i, j int) bool { return ints[i] < ints[j] })
		return encodeDeltaVarint(ints), DeltaVarint, nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, "", ftserrors.New(ftserrors.CodeInvalidJSON, "failed to encode posting list as json", err)
	}
	return data, JSON, nil
}

// EncodeInts is a typed convenience wrapper for the common case of encoding
// a list of doc ids known in advance to be non-negative integers.
func EncodeInts(ints []uint64) ([]byte, Encoding) {
	if len(ints) == 0 {
		return []byte{}, DeltaVarint
	}
	sorted := append([]uint64(nil), ints...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return encodeDeltaVarint(sorted), DeltaVarint
}

// Decode reverses Encode given the encoding it produced.
func Decode(data []byte, enc Encoding) ([]any, error) {
	switch enc {
	case DeltaVarint:
		ints, err := decodeDeltaVarint(data)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(ints))
		for i, v := range ints {
			out[i] = v
		}
		return out, nil
	case JSON:
		if len(data) == 0 {
			return []any{}, nil
		}
		var out []any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, ftserrors.New(ftserrors.CodeInvalidJSON, "posting payload is not a json array", err)
		}
		return out, nil
	default:
		return nil, ftserrors.New(ftserrors.CodeInvalidJSON, fmt.Sprintf("unknown posting encoding %q", enc), nil)
	}
}

// DecodeInts decodes a delta-varint payload directly to []uint64.
func DecodeInts(data []byte) ([]uint64, error) {
	return decodeDeltaVarint(data)
}

func asNonNegativeInts(values []any) ([]uint64, bool) {
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		n, ok := toNonNegativeInt(v)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func toNonNegativeInt(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case int:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case float64:
		if t < 0 || t != float64(int64(t)) {
			return 0, false
		}
		return uint64(t), true
	default:
		return 0, false
	}
}

func encodeDeltaVarint(sorted []uint64) []byte {
	buf := make([]byte, 0, len(sorted)*2)
	var prev uint64
	for _, v := range sorted {
		delta := v - prev
		buf = appendVarint(buf, delta)
		prev = v
	}
	return buf
}

func appendVarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			return buf
		}
	}
}

func decodeDeltaVarint(data []byte) ([]uint64, error) {
	if len(data) == 0 {
		return []uint64{}, nil
	}

	var out []uint64
	var current uint64
	i := 0
	for i < len(data) {
		var v uint64
		var shift uint
		n := 0
		for {
			if i >= len(data) {
				return nil, ftserrors.New(ftserrors.CodeTruncatedInput, "varint truncated before terminating byte", nil)
			}
			b := data[i]
			i++
			n++
			if n > maxVarintBytes {
				return nil, ftserrors.New(ftserrors.CodeVarintOverflow, "varint exceeds maximum of 5 bytes", nil)
			}
			v |= uint64(b&0x7f) << shift
			if b&0x80 == 0 {
				break
			}
			shift += 7
		}
		current += v
		out = append(out, current)
	}
	return out, nil
}
