package registry

import "testing"

func TestParse_KnownTypes(t *testing.T) {
	for _, raw := range []string{"finance", "sports", "rss", "fantasy"} {
		parsed, ok := Parse(raw)
		if !ok {
			t.Errorf("expected %q to parse", raw)
		}
		if string(parsed) != raw {
			t.Errorf("expected %q, got %q", raw, parsed)
		}
	}
}

func TestParse_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "minesweeper", "FINANCE", "finance "} {
		if _, ok := Parse(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestLookup_ManifestComplete(t *testing.T) {
	for _, typ := range []Type{Finance, Sports, RSS, Fantasy} {
		m, ok := Lookup(typ)
		if !ok {
			t.Fatalf("missing manifest for %q", typ)
		}
		if m.Label == "" || m.Icon == "" || m.Color == "" || m.Description == "" {
			t.Errorf("incomplete manifest for %q: %+v", typ, m)
		}
		if m.DefaultConfig == nil {
			t.Errorf("manifest for %q has no default config", typ)
		}
	}
}

func TestAll_RegistrationOrder(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("expected 4 manifests, got %d", len(all))
	}
	want := []Type{Finance, Sports, RSS, Fantasy}
	for i, m := range all {
		if m.Type != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], m.Type)
		}
	}
}

func TestTypes_Sorted(t *testing.T) {
	types := Types()
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Fatalf("types not sorted: %v", types)
		}
	}
}

func TestQuickStartSet_ExcludesFantasy(t *testing.T) {
	for _, typ := range QuickStartSet {
		if typ == Fantasy {
			t.Fatal("fantasy requires a linked Yahoo account and must not be in the starter set")
		}
		if _, ok := Lookup(typ); !ok {
			t.Fatalf("starter set references unregistered type %q", typ)
		}
	}
}

func TestRegister_RejectsUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown type")
		}
	}()
	Register(Manifest{Type: "minesweeper", Label: "Minesweeper"})
}

func TestRegister_RejectsDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate registration")
		}
	}()
	Register(Manifest{Type: Finance, Label: "Finance Again"})
}
