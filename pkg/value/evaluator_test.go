package value

import (
	"regexp"
	"testing"
)

var (
	uuidV4Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidV7Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

func TestEvaluate_Literals(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{name: "double quoted", raw: `"App"`, want: NewString("App")},
		{name: "single quoted", raw: `'App'`, want: NewString("App")},
		{name: "empty quotes", raw: `""`, want: NewString("")},
		{name: "embedded quotes kept", raw: `"say "hi""`, want: NewString(`say "hi"`)},
		{name: "quoted number stays string", raw: `"3000"`, want: NewString("3000")},
		{name: "mismatched quotes", raw: `"App'`, want: NewString(`"App'`)},
		{name: "lone quote", raw: `"`, want: NewString(`"`)},
		{name: "integer", raw: "3000", want: NewNumber(3000)},
		{name: "float", raw: "3.14", want: NewNumber(3.14)},
		{name: "negative exponent", raw: "-1.5e3", want: NewNumber(-1500)},
		{name: "hex", raw: "0x10", want: NewNumber(16)},
		{name: "empty string is zero", raw: "", want: NewNumber(0)},
		{name: "true", raw: "true", want: NewBool(true)},
		{name: "True", raw: "True", want: NewBool(true)},
		{name: "false", raw: "false", want: NewBool(false)},
		{name: "False", raw: "False", want: NewBool(false)},
		{name: "TRUE is passthrough", raw: "TRUE", want: NewString("TRUE")},
		{name: "unquoted", raw: "unquoted", want: NewString("unquoted")},
		{name: "unknown function", raw: `base64("x")`, want: NewString(`base64("x")`)},
		{name: "infinity is passthrough", raw: "Infinity", want: NewString("Infinity")},
	}

	e := NewEvaluator(WithEnvLookup(func(string) (string, bool) { return "", false }))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.raw)
			if !got.Equal(tt.want) {
				t.Errorf("Evaluate(%q) = %v (%s), want %v (%s)", tt.raw, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestEvaluate_Casing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "upper ascii", raw: `toUpperCase("hello")`, want: "HELLO"},
		{name: "lower ascii", raw: `toLowerCase("HELLO")`, want: "hello"},
		{name: "sharp s expands", raw: `toUpperCase("straße")`, want: "STRASSE"},
		{name: "ligature expands", raw: `toUpperCase("ﬁx")`, want: "FIX"},
		{name: "greek final sigma", raw: `toLowerCase("ΟΔΟΣ")`, want: "οδος"},
		{name: "greek medial sigma", raw: `toLowerCase("ΣΟΦΙΑ")`, want: "σοφια"},
		// The argument must be non-empty, otherwise the token is a plain string.
		{name: "empty argument", raw: `toUpperCase("")`, want: `toUpperCase("")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateValue(tt.raw); !got.Equal(NewString(tt.want)) {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Env(t *testing.T) {
	t.Setenv("RAZAN_TEST_HOST", "db.internal")

	if got := EvaluateValue(`env("RAZAN_TEST_HOST")`); !got.Equal(NewString("db.internal")) {
		t.Errorf("env lookup = %v, want db.internal", got)
	}

	if got := EvaluateValue(`env("RAZAN_TEST_SURELY_MISSING")`); !got.Equal(NewString("")) {
		t.Errorf("missing env = %q, want empty string", got)
	}
}

func TestEvaluate_EnvLookupOption(t *testing.T) {
	var asked string
	e := NewEvaluator(WithEnvLookup(func(key string) (string, bool) {
		asked = key
		return "42", true
	}))

	got := e.Evaluate(`env("A"B")`)
	if asked != `A"B` {
		t.Errorf("lookup key = %q, want greedy capture A\"B", asked)
	}
	// Function results are strings even when they look numeric.
	if !got.Equal(NewString("42")) {
		t.Errorf("Evaluate = %v (%s), want string 42", got, got.Kind())
	}
}

func TestEvaluate_UUIDs(t *testing.T) {
	a := EvaluateValue("randomUUID()")
	b := EvaluateValue("randomUUID()")

	s, ok := a.AsString()
	if !ok || !uuidV4Pattern.MatchString(s) {
		t.Fatalf("randomUUID() = %q, want UUID v4", s)
	}
	if a.Equal(b) {
		t.Error("randomUUID() returned the same value twice")
	}

	v7, ok := EvaluateValue("randomUUIDv7()").AsString()
	if !ok || !uuidV7Pattern.MatchString(v7) {
		t.Fatalf("randomUUIDv7() = %q, want UUID v7", v7)
	}
}

func TestEvaluate_UUIDGeneratorsOption(t *testing.T) {
	e := NewEvaluator(WithUUIDGenerators(func() string { return "v4" }, nil))

	if got := e.Evaluate("randomUUID()"); !got.Equal(NewString("v4")) {
		t.Errorf("randomUUID() = %v, want injected v4", got)
	}
	v7, _ := e.Evaluate("randomUUIDv7()").AsString()
	if !uuidV7Pattern.MatchString(v7) {
		t.Errorf("randomUUIDv7() = %q, want default generator", v7)
	}
}

func TestFunctionNames(t *testing.T) {
	want := []string{"randomUUID", "randomUUIDv7", "env", "toUpperCase", "toLowerCase"}
	got := FunctionNames()
	if len(got) != len(want) {
		t.Fatalf("FunctionNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FunctionNames()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
