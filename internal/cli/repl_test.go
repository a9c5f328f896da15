package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigmul/internal/mul"
	"github.com/agbru/bigmul/internal/orchestration"
)

func newTestREPL(t *testing.T, input string, cfg REPLConfig) (*REPL, *bytes.Buffer, *orchestration.ReferenceCache) {
	t.Helper()
	refs, err := orchestration.NewReferenceCache(4)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	r := NewREPL(orchestration.NewEngines(mul.Default()), refs, cfg)
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	return r, &out, refs
}

func TestREPLSession(t *testing.T) {
	withNoColor(t)
	r, out, refs := newTestREPL(t, "mul 40 30\nalgo toom33\nmul 30\nstatus\nexit\n", REPLConfig{Seed: 5})
	r.Start()

	s := out.String()
	for _, want := range []string{
		"bigmul interactive session",
		"Multiplying 40 x 30 limbs with auto",
		"✓ matches math/big",
		"Engine changed to: toom33",
		"Multiplying 30 x 30 limbs with toom33",
		"Engine:       toom33",
		"Seed:         5",
		"Goodbye!",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("session output lacks %q", want)
		}
	}
	if strings.Contains(s, "✗") {
		t.Errorf("a product did not match:\n%s", s)
	}
	if refs.Len() != 2 {
		t.Errorf("reference cache holds %d products, want 2", refs.Len())
	}
}

func TestREPLCompare(t *testing.T) {
	withNoColor(t)
	r, out, _ := newTestREPL(t, "cmp 60 40\n", REPLConfig{Seed: 1})
	r.Start()
	s := out.String()
	if !strings.Contains(s, "Comparison for 60 x 40 limbs") {
		t.Fatalf("missing comparison title:\n%s", s)
	}
	if !strings.Contains(s, "✅ Verified") || !strings.Contains(s, "⏭ Skipped") {
		t.Errorf("expected verified and skipped engines:\n%s", s)
	}
	if strings.Contains(s, "Mismatch") {
		t.Errorf("an engine disagreed with math/big:\n%s", s)
	}
}

func TestREPLCommandErrors(t *testing.T) {
	withNoColor(t)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown command", "frobnicate\n", "Unknown command: frobnicate"},
		{"mul without size", "mul\n", "Usage: mul <a> [b]"},
		{"mul bad size", "mul x\n", "invalid operand length: x"},
		{"unknown engine", "algo toom99\n", "Unknown engine: toom99"},
		{"out of domain", "algo toom63\nmul 10 10\n", "toom63 cannot multiply 10 x 10 limbs"},
		{"bad seed", "seed abc\n", "Invalid seed: abc"},
		{"compare without size", "compare\n", "Usage: compare <a> [b]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, _ := newTestREPL(t, tt.input, REPLConfig{})
			r.Start()
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output lacks %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestREPLToggles(t *testing.T) {
	withNoColor(t)
	r, out, _ := newTestREPL(t, "hex\nseed 9\n3 2\nlist\nhex", REPLConfig{})
	r.Start()
	s := out.String()
	for _, want := range []string{"Hexadecimal display: enabled", "Seed changed to: 9", "Product: 0x", "► auto", "Hexadecimal display: disabled"} {
		if !strings.Contains(s, want) {
			t.Errorf("output lacks %q:\n%s", want, s)
		}
	}
}

func TestParseSizes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args    []string
		an, bn  int
		wantErr bool
	}{
		{[]string{"10"}, 10, 10, false},
		{[]string{"10", "4"}, 10, 4, false},
		{[]string{"4", "10"}, 10, 4, false},
		{nil, 0, 0, true},
		{[]string{"0"}, 0, 0, true},
		{[]string{"1", "2", "3"}, 0, 0, true},
	}
	for _, tt := range tests {
		an, bn, err := parseSizes(tt.args)
		if (err != nil) != tt.wantErr || an != tt.an || bn != tt.bn {
			t.Errorf("parseSizes(%v) = %d, %d, %v", tt.args, an, bn, err)
		}
	}
}
