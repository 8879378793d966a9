package value

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Evaluator converts raw value tokens into Values. The zero value is not
// usable; construct one with NewEvaluator.
type Evaluator struct {
	lookupEnv func(string) (string, bool)
	newUUID   func() string
	newUUIDv7 func() string
	functions []function
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithEnvLookup replaces the process environment as the source for
// env("KEY"). A custom lookup does not preload ./.env.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(e *Evaluator) {
		e.lookupEnv = fn
	}
}

// WithUUIDGenerators replaces the generators behind randomUUID() and
// randomUUIDv7(). A nil generator keeps the default.
func WithUUIDGenerators(v4, v7 func() string) Option {
	return func(e *Evaluator) {
		if v4 != nil {
			e.newUUID = v4
		}
		if v7 != nil {
			e.newUUIDv7 = v7
		}
	}
}

// function is a value-generating builtin. Either literal or pattern is set;
// pattern must capture exactly one argument.
type function struct {
	name    string
	literal string
	pattern *regexp.Regexp
	apply   func(e *Evaluator, arg string) string
}

// match reports whether raw invokes f and returns the captured argument.
func (f function) match(raw string) (string, bool) {
	if f.pattern == nil {
		return "", raw == f.literal
	}
	m := f.pattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// builtins are checked in order; the first match wins. Casers are stateful,
// so each call builds its own.
var builtins = []function{
	{
		name:    "randomUUID",
		literal: "randomUUID()",
		apply:   func(e *Evaluator, _ string) string { return e.newUUID() },
	},
	{
		name:    "randomUUIDv7",
		literal: "randomUUIDv7()",
		apply:   func(e *Evaluator, _ string) string { return e.newUUIDv7() },
	},
	{
		name:    "env",
		pattern: regexp.MustCompile(`^env\("(.+)"\)$`),
		apply: func(e *Evaluator, key string) string {
			v, _ := e.lookupEnv(key)
			return v
		},
	},
	{
		name:    "toUpperCase",
		pattern: regexp.MustCompile(`^toUpperCase\("(.+)"\)$`),
		apply:   func(_ *Evaluator, s string) string { return cases.Upper(language.Und).String(s) },
	},
	{
		name:    "toLowerCase",
		pattern: regexp.MustCompile(`^toLowerCase\("(.+)"\)$`),
		apply:   func(_ *Evaluator, s string) string { return cases.Lower(language.Und).String(s) },
	},
}

// NewEvaluator creates an Evaluator backed by the process environment, with
// ./.env preloaded on first lookup, and random UUID generators.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		lookupEnv: lookupEnv,
		newUUID:   uuid.NewString,
		newUUIDv7: newUUIDv7,
		functions: builtins,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate converts a trimmed raw token into a Value. It never fails:
// tokens that match nothing else are returned unchanged as strings.
func (e *Evaluator) Evaluate(raw string) Value {
	for _, fn := range e.functions {
		if arg, ok := fn.match(raw); ok {
			return NewString(fn.apply(e, arg))
		}
	}

	if inner, ok := unquote(raw); ok {
		return NewString(inner)
	}

	if n, ok := ParseNumber(raw); ok {
		return NewNumber(n)
	}

	switch raw {
	case "True", "true":
		return NewBool(true)
	case "False", "false":
		return NewBool(false)
	}

	return NewString(raw)
}

// FunctionNames returns the names of the builtin value functions in
// evaluation order.
func FunctionNames() []string {
	names := make([]string, len(builtins))
	for i, fn := range builtins {
		names[i] = fn.name
	}
	return names
}

var defaultEvaluator = NewEvaluator()

// EvaluateValue evaluates raw with the process environment.
func EvaluateValue(raw string) Value {
	return defaultEvaluator.Evaluate(raw)
}

// unquote strips one pair of matching single or double quotes. Embedded
// quotes are left as they are.
func unquote(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	first, last := raw[0], raw[len(raw)-1]
	if (first != '"' && first != '\'') || first != last {
		return "", false
	}
	inner := raw[1 : len(raw)-1]
	if strings.ContainsAny(inner, "\r\n") {
		return "", false
	}
	return inner, true
}

// newUUIDv7 returns a time-ordered UUID, falling back to v4 if the clock
// sequence cannot be read.
func newUUIDv7() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
