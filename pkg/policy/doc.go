// Package policy checks razan documents against Rego policies.
//
// Policies are Open Policy Agent modules that define a "deny" set. Each
// member is either a message string or an object:
//
//	package razan.policies.ports
//
//	import rego.v1
//
//	deny contains violation if {
//		some section, entries in input.document
//		is_object(entries)
//		entries.PORT > 65535
//		violation := {
//			"message": sprintf("%s.PORT out of range", [section]),
//			"path": sprintf("%s.PORT", [section]),
//			"severity": "error",
//		}
//	}
//
// input.document is the document's map view: top-level values plus one
// object per section. input.source and input.sections carry the file path
// and the section order.
//
// Violations of error or critical severity make Result.Allowed false.
// Warnings and info findings are reported but do not block. Two built-in
// policies are always loaded: empty-values and key-naming.
//
// Policies load from .rego files (named after the file, with an optional
// "# severity: LEVEL" header comment), JSON policy definitions and JSON
// bundles holding a "policies" array.
package policy
