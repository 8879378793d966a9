// Package value evaluates the right-hand side of a razan assignment.
//
// A raw token is converted into a Value, a tagged union of string, number
// and boolean. Evaluation checks the following forms in order and the first
// match wins:
//
//	randomUUID()          fresh UUID v4
//	randomUUIDv7()        fresh time-ordered UUID v7
//	env("KEY")            process environment lookup, "" when unset
//	toUpperCase("text")   upper-cased text
//	toLowerCase("TEXT")   lower-cased text
//	"text" or 'text'      text with the quotes removed, no unescaping
//	3000, 3.14, 0x10      finite number
//	true, True            boolean (and false, False)
//
// Anything else is returned unchanged as a string. Evaluation never fails.
package value
