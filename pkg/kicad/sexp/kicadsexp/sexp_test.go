package kicadsexp

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{"single list", "(kicad_pcb (version 20221018))", 1},
		{"multiple top level", "(a 1) (b 2)", 2},
		{"nested", "(a (b (c (d 1))))", 1},
		{"bare atom", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sexps, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) failed: %v", tt.input, err)
			}
			if len(sexps) != tt.wantCount {
				t.Errorf("got %d expressions, want %d", len(sexps), tt.wantCount)
			}
		})
	}
}

func TestParseDistinguishesAtoms(t *testing.T) {
	sexps, err := ParseString(`(layer "F.Cu" signal)`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	list, ok := sexps[0].(*List)
	if !ok {
		t.Fatal("expected a list")
	}

	if _, ok := list.Get(0).(Symbol); !ok {
		t.Errorf("head should be a Symbol, got %T", list.Get(0))
	}
	if _, ok := list.Get(1).(String); !ok {
		t.Errorf("quoted atom should be a String, got %T", list.Get(1))
	}
	if _, ok := list.Get(2).(Symbol); !ok {
		t.Errorf("bare atom should be a Symbol, got %T", list.Get(2))
	}

	// Stringification strips the quotes either way
	if list.Get(1).String() != "F.Cu" {
		t.Errorf("String() = %q, want F.Cu", list.Get(1).String())
	}
}

func TestParseStringEscapes(t *testing.T) {
	sexps, err := ParseString(`(title "a \"quoted\" name")`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	list := sexps[0].(*List)
	if got := list.Get(1).String(); got != `a "quoted" name` {
		t.Errorf("unescaped = %q", got)
	}
}

func TestListMutation(t *testing.T) {
	a := NewList(Symbol("at"), Symbol("1"), Symbol("2"))
	b := NewList(Symbol("at"), Symbol("3"), Symbol("4"))
	root := NewList(Symbol("footprint"), a)

	// Replace works by identity, not structure
	if !root.Replace(a, b) {
		t.Fatal("Replace by identity failed")
	}
	if root.Get(1) != Sexp(b) {
		t.Error("replacement not in place")
	}
	if root.Replace(a, b) {
		t.Error("Replace of an absent node must return false")
	}

	if !root.Remove(b) {
		t.Fatal("Remove by identity failed")
	}
	if root.Len() != 1 {
		t.Errorf("len = %d after removal, want 1", root.Len())
	}
	if root.Remove(b) {
		t.Error("Remove of an absent node must return false")
	}
}

func TestListIdentityNotStructure(t *testing.T) {
	// Two structurally equal nodes are distinct identities
	a := NewList(Symbol("net"), Symbol("1"))
	twin := NewList(Symbol("net"), Symbol("1"))
	root := NewList(Symbol("kicad_pcb"), a)

	if root.Remove(twin) {
		t.Error("structural twin must not match by identity")
	}
	if !root.Remove(a) {
		t.Error("original must still be removable")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	input := `(kicad_pcb (version 20221018) (layers (0 "F.Cu" signal)) (net 1 "GND"))`
	sexps, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, sexps[0]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reparsed, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if len(reparsed) != 1 {
		t.Fatalf("got %d expressions after round trip", len(reparsed))
	}
	if reparsed[0].String() != sexps[0].String() {
		t.Errorf("round trip changed structure:\n in: %s\nout: %s",
			sexps[0].String(), reparsed[0].String())
	}
}

func TestWriteQuotesStrings(t *testing.T) {
	node := NewList(Symbol("layer"), String("F.Cu"))

	var buf bytes.Buffer
	if err := Write(&buf, node); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"F.Cu"`) {
		t.Errorf("quoted atom lost its quotes: %s", buf.String())
	}
}

func TestWriteEscapesStrings(t *testing.T) {
	node := NewList(Symbol("title"), String(`with "quotes" and \slash`))

	var buf bytes.Buffer
	if err := Write(&buf, node); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reparsed, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reparse of escaped output failed: %v", err)
	}
	got := reparsed[0].(*List).Get(1).String()
	if got != `with "quotes" and \slash` {
		t.Errorf("escape round trip = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed list", "(kicad_pcb (version 1)"},
		{"stray close paren", ")"},
		{"unterminated string", `(title "oops)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseString(tt.input); err == nil {
				t.Errorf("ParseString(%q) expected error, got nil", tt.input)
			}
		})
	}
}
