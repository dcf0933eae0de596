package fusion

import "testing"

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in   string
		want BlendMode
		ok   bool
	}{
		{"multiply", Multiply, true},
		{"  Soft-Light ", SoftLight, true},
		{"LCh Color", LChColor, true},
		{"No Color or Blend Mode", AntiErase, true},
		{"10", Screen, true},
		{"13", BlendMode(13), false},
		{"-1", BlendMode(-1), false},
		{" -12 ", BlendMode(-12), false},
		{"1-3", -1, false},
		{"", -1, false},
		{"dissolve", -1, false},
	}
	for _, tc := range tests {
		got, ok := ParseBlendMode(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseBlendMode(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBlendModeNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range BlendModes() {
		if !m.Valid() {
			t.Fatalf("%d reported invalid", m)
		}
		if seen[m.String()] {
			t.Fatalf("duplicate name %q", m.String())
		}
		seen[m.String()] = true
		if back, ok := ParseBlendMode(m.Label()); !ok || back != m {
			t.Fatalf("label %q parsed as %v", m.Label(), back)
		}
	}
	if len(seen) != 13 {
		t.Fatalf("expected 13 modes, got %d", len(seen))
	}
	if s := BlendMode(42).String(); s != "BlendMode(42)" {
		t.Fatalf("unexpected name for invalid mode: %q", s)
	}
}

func TestRedirectTableRejectsDuplicates(t *testing.T) {
	_, err := NewRedirectTable(
		Binding{Param: ParamRed, Name: "red", Target: "mixer", Key: "rr-gain"},
		Binding{Param: ParamRed, Name: "red2", Target: "mixer", Key: "rr-gain"},
	)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	_, err = NewRedirectTable(Binding{Param: ParamRed, Name: "red"})
	if err == nil {
		t.Fatal("expected missing target error")
	}
	tbl, err := NewRedirectTable(
		Binding{Param: ParamGreen, Name: "green", Target: "mixer", Key: "gg-gain"},
		Binding{Param: ParamRed, Name: "red", Target: "mixer", Key: "rr-gain"},
	)
	if err != nil {
		t.Fatalf("NewRedirectTable: %v", err)
	}
	bs := tbl.Bindings()
	if len(bs) != 2 || bs[0].Param != ParamRed {
		t.Fatalf("bindings not ordered by id: %+v", bs)
	}
	if id, ok := tbl.Resolve("green"); !ok || id != ParamGreen {
		t.Fatalf("Resolve(green) = %v, %v", id, ok)
	}
}
