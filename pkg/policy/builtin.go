package policy

import (
	"time"
)

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		emptyValuesPolicy(),
		keyNamingPolicy(),
	}
}

// emptyValuesPolicy flags empty strings, most often an env("KEY") whose
// variable is not set.
func emptyValuesPolicy() Policy {
	now := time.Now()
	return Policy{
		Name:        "empty-values",
		Description: "Flags keys whose value is an empty string, such as an unset environment variable",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"values", "environment"},
		CreatedAt:   now,
		UpdatedAt:   now,
		Rego: `package razan.policies.empty_values

import rego.v1

deny contains violation if {
	some key, val in input.document
	val == ""
	violation := {
		"message": sprintf("%s is empty", [key]),
		"path": key,
		"severity": "warning",
	}
}

deny contains violation if {
	some section, entries in input.document
	is_object(entries)
	some key, val in entries
	val == ""
	path := sprintf("%s.%s", [section, key])
	violation := {
		"message": sprintf("%s is empty", [path]),
		"path": path,
		"severity": "warning",
	}
}
`,
	}
}

// keyNamingPolicy expects keys in upper snake case. Section names are not
// checked.
func keyNamingPolicy() Policy {
	now := time.Now()
	return Policy{
		Name:        "key-naming",
		Description: "Expects keys to be upper snake case (APP_NAME, DB_PORT)",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"naming", "conventions"},
		CreatedAt:   now,
		UpdatedAt:   now,
		Rego: `package razan.policies.key_naming

import rego.v1

pattern := "^[A-Z][A-Z0-9_]*$"

deny contains violation if {
	some key, val in input.document
	not is_object(val)
	not regex.match(pattern, key)
	violation := {
		"message": sprintf("key '%s' should be upper snake case", [key]),
		"path": key,
		"severity": "warning",
	}
}

deny contains violation if {
	some section, entries in input.document
	is_object(entries)
	some key, _ in entries
	not regex.match(pattern, key)
	path := sprintf("%s.%s", [section, key])
	violation := {
		"message": sprintf("key '%s' should be upper snake case", [path]),
		"path": path,
		"severity": "warning",
	}
}
`,
	}
}
