package docid

import "testing"

func TestCanonicalEquality(t *testing.T) {
	a := FromInt(42)
	b := FromString("42")
	if a.String() != b.String() {
		t.Fatalf("expected canonical strings to match, got %q vs %q", a.String(), b.String())
	}
	if !a.Equal(b) {
		t.Fatalf("expected a.Equal(b)")
	}
}

func TestLeadingZeroStaysString(t *testing.T) {
	id := FromString("007")
	if id.IsInt() {
		t.Fatalf("expected non-canonical integer string to remain a string id")
	}
	if id.String() != "007" {
		t.Fatalf("got %q", id.String())
	}
}

func TestNonNumericString(t *testing.T) {
	id := FromString("doc-1")
	if id.IsInt() {
		t.Fatalf("expected doc-1 to not be an int id")
	}
	if id.String() != "doc-1" {
		t.Fatalf("got %q", id.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, id := range []ID{FromInt(7), FromString("doc-1")} {
		data, err := id.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out ID
		if err := out.UnmarshalJSON(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !out.Equal(id) {
			t.Fatalf("round trip mismatch: %v vs %v", out, id)
		}
	}
}
