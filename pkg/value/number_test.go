package value

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3000", 3000, true},
		{"+7", 7, true},
		{"-0.25", -0.25, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"  42  ", 42, true},
		{"\u00a042\u3000", 42, true},
		{"\v8\ufeff", 8, true},
		{"\u00859", 0, false},
		{"", 0, true},
		{"   ", 0, true},
		{"0x1F", 31, true},
		{"0o17", 15, true},
		{"0b101", 5, true},
		{"-0x10", 0, false},
		{"0x", 0, false},
		{"1_000", 0, false},
		{"1e400", 0, false},
		{"Infinity", 0, false},
		{"NaN", 0, false},
		{"12px", 0, false},
		{"inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\v', '\f', '\u00a0', '\u1680', '\u2003', '\u2028', '\u2029', '\u202f', '\u3000', '\ufeff'} {
		if !IsSpace(r) {
			t.Errorf("IsSpace(%U) = false, want true", r)
		}
	}
	for _, r := range []rune{'a', '_', '\u0085', '\u200b'} {
		if IsSpace(r) {
			t.Errorf("IsSpace(%U) = true, want false", r)
		}
	}
}
