package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// SchemaRegistry manages CUE schemas that documents can be checked against.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	sr.registerBuiltInSchemas()

	return sr
}

// registerBuiltInSchemas registers all built-in schemas.
func (sr *SchemaRegistry) registerBuiltInSchemas() {
	if err := sr.RegisterSchema("document", builtinDocumentSchema); err != nil {
		panic(err)
	}
}

// RegisterSchema compiles a CUE schema and stores it under name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	return sr.register(name, schema, name)
}

// RegisterSchemaFile compiles the CUE file at path and stores it under name.
func (sr *SchemaRegistry) RegisterSchemaFile(name, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return sr.register(name, string(content), path)
}

func (sr *SchemaRegistry) register(name, schema, filename string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ListSchemas returns all registered schema names, sorted.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDocument unifies the document with the named schema and requires
// the result to be concrete. Failures are returned as ValidationErrors.
func (sr *SchemaRegistry) ValidateDocument(ctx context.Context, schemaName string, doc *Document) error {
	// cue.Context is not safe for concurrent use.
	sr.mu.Lock()
	defer sr.mu.Unlock()

	schema, ok := sr.schemas[schemaName]
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	// A #Document definition, when present, is the closed form to check against.
	if def := schema.LookupPath(cue.ParsePath("#Document")); def.Exists() {
		schema = def
	}

	dataVal := sr.ctx.Encode(cueData(doc))
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return convertCUEErrors(err, doc.Source)
	}

	return nil
}

// convertCUEErrors converts CUE errors to ValidationErrors.
func convertCUEErrors(err error, source string) ValidationErrors {
	var validationErrors ValidationErrors

	for _, e := range errors.Errors(err) {
		ve := ValidationError{
			File:     source,
			Path:     strings.Join(e.Path(), "."),
			Message:  errors.Details(e, nil),
			Severity: "error",
		}

		if pos := errors.Positions(e); len(pos) > 0 && pos[0].Filename() != "" {
			ve.File = pos[0].Filename()
			ve.Line = pos[0].Line()
			ve.Column = pos[0].Column()
		}

		validationErrors = append(validationErrors, ve)
	}

	return validationErrors
}

// cueData returns the document map view with integral numbers as int64 so
// they satisfy CUE int constraints.
func cueData(doc *Document) map[string]any {
	m := doc.ToMap()
	for k, v := range m {
		m[k] = cueScalar(v)
	}
	return m
}

func cueScalar(v any) any {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= 1<<53 {
			return int64(x)
		}
		return x
	case map[string]any:
		for k, inner := range x {
			x[k] = cueScalar(inner)
		}
		return x
	default:
		return v
	}
}

// Built-in schema definitions

const builtinDocumentSchema = `
// Any razan document: scalar top-level values and flat sections.
#Scalar: string | number | bool

#Document: {
	[string]: #Scalar | {[string]: #Scalar}
}
`

// ValidateStructure checks that doc only holds scalars and flat sections.
func (sr *SchemaRegistry) ValidateStructure(ctx context.Context, doc *Document) error {
	return sr.ValidateDocument(ctx, "document", doc)
}
