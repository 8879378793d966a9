package policy

import (
	"time"
)

// Severity represents the severity level of a policy violation.
type Severity string

const (
	// SeverityInfo is for informational findings.
	SeverityInfo Severity = "info"

	// SeverityWarning is for findings that should be reviewed.
	SeverityWarning Severity = "warning"

	// SeverityError is for findings that make a document unacceptable.
	SeverityError Severity = "error"

	// SeverityCritical is for findings that must be fixed immediately.
	SeverityCritical Severity = "critical"
)

// Blocking reports whether a violation of this severity rejects the document.
func (s Severity) Blocking() bool {
	return s == SeverityError || s == SeverityCritical
}

// Policy is a Rego module with a deny rule set.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the Rego policy code.
	Rego string `json:"rego"`

	// Severity is used for violations that do not carry their own.
	Severity Severity `json:"severity"`

	// Enabled indicates if the policy is active.
	Enabled bool `json:"enabled"`

	// Tags are labels for organizing policies.
	Tags []string `json:"tags,omitempty"`

	// Metadata contains additional policy metadata, such as its source file.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// CreatedAt is when the policy was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the policy was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// Violation is a single finding produced by a deny rule.
type Violation struct {
	// Policy is the name of the policy that was violated.
	Policy string `json:"policy"`

	// Path is the offending key, "KEY" or "SECTION.KEY".
	Path string `json:"path,omitempty"`

	// Message is a human-readable violation message.
	Message string `json:"message"`

	// Severity is the violation severity level.
	Severity Severity `json:"severity"`

	// Details contains any other fields the rule returned.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Result is the outcome of evaluating all enabled policies on a document.
type Result struct {
	// Allowed is false when any violation has a blocking severity.
	Allowed bool `json:"allowed"`

	// Violations lists findings of error or critical severity.
	Violations []Violation `json:"violations,omitempty"`

	// Warnings lists findings of warning or info severity.
	Warnings []Violation `json:"warnings,omitempty"`

	// Errors lists policies that failed to evaluate.
	Errors []string `json:"errors,omitempty"`

	// EvaluatedAt is when the policies were evaluated.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// EvaluatedPolicies lists the names of policies that were evaluated.
	EvaluatedPolicies []string `json:"evaluated_policies"`

	// Duration is how long the evaluation took.
	Duration time.Duration `json:"duration"`
}

// All returns violations followed by warnings.
func (r *Result) All() []Violation {
	out := make([]Violation, 0, len(r.Violations)+len(r.Warnings))
	out = append(out, r.Violations...)
	return append(out, r.Warnings...)
}

// Input is the document as policies see it.
type Input struct {
	// Document is the map view of the configuration: top-level values and
	// one object per section.
	Document map[string]interface{} `json:"document"`

	// Source is the file the document was read from.
	Source string `json:"source"`

	// Sections lists section names in declaration order.
	Sections []string `json:"sections"`

	// Context provides additional evaluation context.
	Context *Context `json:"context"`
}

// Context provides information about the evaluation.
type Context struct {
	// Environment is the deployment environment, e.g. "production".
	Environment string `json:"environment,omitempty"`

	// Timestamp is when the evaluation is occurring.
	Timestamp time.Time `json:"timestamp"`

	// Operation is what triggered the evaluation, e.g. "validate" or "watch".
	Operation string `json:"operation,omitempty"`
}

// Bundle is a collection of related policies stored as one JSON file.
type Bundle struct {
	// Name is the unique name of the bundle.
	Name string `json:"name"`

	// Version is the bundle version.
	Version string `json:"version"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Policies are the policies in this bundle.
	Policies []Policy `json:"policies"`
}
