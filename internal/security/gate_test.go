package security

import "testing"

func TestAuthorize_Admin(t *testing.T) {
	g := NewGate([]string{"alice", "bob"}, nil)
	if !g.Authorize("alice") {
		t.Fatal("alice should be authorized")
	}
	if !g.Authorize("bob") {
		t.Fatal("bob should be authorized")
	}
}

func TestAuthorize_NonAdmin(t *testing.T) {
	g := NewGate([]string{"alice"}, nil)
	if g.Authorize("mallory") {
		t.Fatal("mallory should not be authorized")
	}
}

func TestAuthorize_IdentityEqualityOnly(t *testing.T) {
	g := NewGate([]string{"Alice"}, nil)

	// No case folding, no pattern matching.
	if g.Authorize("alice") {
		t.Fatal("membership must be exact identity equality")
	}
	if g.Authorize("Alice2") {
		t.Fatal("prefix must not match")
	}
	if !g.Authorize("Alice") {
		t.Fatal("exact identity should match")
	}
}

func TestAuthorize_EmptyList(t *testing.T) {
	g := NewGate(nil, nil)
	if g.Authorize("anyone") {
		t.Fatal("empty allow-list should authorize nobody")
	}
}

func TestNewAdminSet_SkipsEmptyEntries(t *testing.T) {
	set := NewAdminSet([]string{"alice", "", "bob"})
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
	if set.Contains("") {
		t.Fatal("empty identity must never be an admin")
	}
}
