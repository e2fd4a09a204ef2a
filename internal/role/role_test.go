package role

import (
	"encoding/json"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	for _, r := range All() {
		got, err := Parse(r.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", r, err)
		}
		if got != r {
			t.Fatalf("Parse(%q) = %v", r, got)
		}
		if r.Title() == "" {
			t.Fatalf("%v has no title", r)
		}
	}
}

func TestParseNormalizes(t *testing.T) {
	if r, err := Parse("  Teacher "); err != nil || r != Teacher {
		t.Fatalf("Parse = %v, %v", r, err)
	}
	if _, err := Parse("admin"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestJSON(t *testing.T) {
	type profile struct {
		Role Role `json:"role"`
	}

	data, err := json.Marshal(profile{Role: Parent})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"role":"parent"}` {
		t.Fatalf("Marshal = %s", data)
	}

	var p profile
	if err := json.Unmarshal([]byte(`{"role":"student"}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Role != Student {
		t.Fatalf("Role = %v", p.Role)
	}
	if err := json.Unmarshal([]byte(`{"role":"principal"}`), &p); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := json.Marshal(profile{}); err == nil {
		t.Fatal("expected error marshaling zero role")
	}
}

func TestTitlePanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = Role(99).Title()
}
