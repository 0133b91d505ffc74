package codec

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeIntsRoundTrip(t *testing.T) {
	data, enc := EncodeInts([]uint64{3, 10, 11, 25, 26})
	if enc != DeltaVarint {
		t.Fatalf("expected delta-varint, got %s", enc)
	}
	got, err := DecodeInts(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []uint64{3, 10, 11, 25, 26}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEncodeDecodeIntsUnsorted(t *testing.T) {
	data, _ := EncodeInts([]uint64{26, 3, 25, 11, 10})
	got, err := DecodeInts(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []uint64{3, 10, 11, 25, 26}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEmptyRoundTrip(t *testing.T) {
	data, enc, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc != DeltaVarint || len(data) != 0 {
		t.Fatalf("expected empty delta-varint payload, got %d bytes / %s", len(data), enc)
	}
	got, err := Decode(data, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty decode, got %v", got)
	}
}

func TestStringListUsesJSON(t *testing.T) {
	values := []any{"doc-1", "doc-2"}
	data, enc, err := Encode(values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc != JSON {
		t.Fatalf("expected json encoding, got %s", enc)
	}
	got, err := Decode(data, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []any{"doc-1", "doc-2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMixedListUsesJSON(t *testing.T) {
	values := []any{"doc-1", 7.0, map[string]any{"a": "b"}}
	data, enc, err := Encode(values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc != JSON {
		t.Fatalf("expected json encoding for mixed list, got %s", enc)
	}
	got, err := Decode(data, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("got %v want %v", got, values)
	}
}

func TestDecodeNonArrayJSONIsError(t *testing.T) {
	_, err := Decode([]byte(`{"not":"an array"}`), JSON)
	if err == nil {
		t.Fatalf("expected error decoding non-array json")
	}
}

func TestVarintOverflowDetected(t *testing.T) {
	// Five continuation bytes before the terminator: a sixth byte, overflow.
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, err := DecodeInts(data)
	if err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestVarintTruncatedDetected(t *testing.T) {
	data := []byte{0x80, 0x80}
	_, err := DecodeInts(data)
	if err == nil {
		t.Fatalf("expected truncated input error")
	}
}

func TestScenarioD(t *testing.T) {
	data, enc := EncodeInts([]uint64{3, 10, 11, 25, 26})
	if enc != DeltaVarint {
		t.Fatalf("expected delta-varint")
	}
	ints, err := DecodeInts(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(ints, []uint64{3, 10, 11, 25, 26}) {
		t.Fatalf("got %v", ints)
	}

	data2, enc2, err := Encode([]any{"doc-1", "doc-2"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc2 != JSON {
		t.Fatalf("expected json")
	}
	values, err := Decode(data2, enc2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(values, []any{"doc-1", "doc-2"}) {
		t.Fatalf("got %v", values)
	}
}
