package vocabulary

import "testing"

func TestAddIsIdempotentForVersion(t *testing.T) {
	v := New()
	v.Add("run")
	first := v.Version()
	v.Add("run")
	if v.Version() != first {
		t.Fatalf("expected version unchanged on duplicate add")
	}
	v.Add("jump")
	if v.Version() == first {
		t.Fatalf("expected version to bump on new term")
	}
}

func TestHasAndLen(t *testing.T) {
	v := New()
	v.Add("run")
	v.Add("jump")
	if !v.Has("run") {
		t.Fatalf("expected run present")
	}
	if v.Has("swim") {
		t.Fatalf("expected swim absent")
	}
	if v.Len() != 2 {
		t.Fatalf("expected 2 terms, got %d", v.Len())
	}
}

func TestClearRemovesAllTerms(t *testing.T) {
	v := New()
	v.Add("run")
	v.Clear()
	if v.Len() != 0 {
		t.Fatalf("expected 0 terms after clear, got %d", v.Len())
	}
	if v.Has("run") {
		t.Fatalf("expected run gone after clear")
	}
}

func TestDirtyTracksUnpersistedChanges(t *testing.T) {
	v := New()
	if v.Dirty() {
		t.Fatalf("expected new vocabulary clean")
	}

	v.Add("run")
	if !v.Dirty() {
		t.Fatalf("expected dirty after add")
	}

	v.MarkPersisted()
	if v.Dirty() {
		t.Fatalf("expected clean after mark persisted")
	}

	v.Add("run")
	if v.Dirty() {
		t.Fatalf("expected duplicate add to leave vocabulary clean")
	}

	v.Clear()
	if !v.Dirty() {
		t.Fatalf("expected dirty after clear")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	v := New()
	v.Add("run")
	v.Add("jump")
	snap := v.Snapshot()

	restored := New()
	restored.Load(snap)
	if restored.Len() != 2 || !restored.Has("run") || !restored.Has("jump") {
		t.Fatalf("expected restored vocabulary to match, got %v", restored.Terms())
	}
}
