package middleware

import "testing"

func TestParseAllowedIDs(t *testing.T) {
	ids := ParseAllowedIDs("1, 2,3,\n4 junk")
	want := []int64{1, 2, 3, 4}
	if len(ids) != len(want) {
		t.Fatalf("len=%d", len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("idx %d: got %d want %d", i, ids[i], want[i])
		}
	}
	if got := ParseAllowedIDs(""); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestACL_IsAllowed(t *testing.T) {
	a := NewACL([]int64{10, 20, 30})
	if !a.IsAllowed(10) {
		t.Fatal("expected allowed")
	}
	if a.IsAllowed(11) {
		t.Fatal("expected denied")
	}
	// Empty allow-list means open access.
	open := NewACL(nil)
	if !open.IsAllowed(99) {
		t.Fatal("expected open access")
	}
}
