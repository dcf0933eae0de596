package magick

import (
	"testing"

	"github.com/Fepozopo/fusion/pkg/stdimg"
)

func TestOverridesKeepDeclarations(t *testing.T) {
	base := stdimg.Operators()
	over := Operators()
	if !Available() && len(over) != 0 {
		t.Fatalf("stub backend returned %d overrides", len(over))
	}
	for kind, spec := range over {
		want, err := base.Lookup(kind)
		if err != nil {
			t.Fatalf("override %s has no stdimg counterpart", kind)
		}
		if len(spec.Params) != len(want.Params) {
			t.Fatalf("%s: %d params, stdimg declares %d", kind, len(spec.Params), len(want.Params))
		}
	}
	merged := base.Override(over)
	if len(merged) != len(base) {
		t.Fatalf("override added kinds: %v", merged.Kinds())
	}
}
