package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSchemaRegistry_RegisterAndGet(t *testing.T) {
	sr := NewSchemaRegistry()

	customSchema := `
#Document: {
	APP_NAME: string
	PORT:     int & >0 & <65536
	...
}
`

	if err := sr.RegisterSchema("app", customSchema); err != nil {
		t.Fatalf("failed to register schema: %v", err)
	}

	schema, ok := sr.GetSchema("app")
	if !ok {
		t.Fatal("expected to find app schema")
	}
	if schema.Err() != nil {
		t.Errorf("schema has errors: %v", schema.Err())
	}

	if got := strings.Join(sr.ListSchemas(), ","); got != "app,document" {
		t.Errorf("ListSchemas = %s, want app,document", got)
	}
}

func TestSchemaRegistry_RegisterInvalid(t *testing.T) {
	sr := NewSchemaRegistry()

	if err := sr.RegisterSchema("broken", "a: {"); err == nil {
		t.Fatal("expected compile error")
	}
	if _, ok := sr.GetSchema("broken"); ok {
		t.Error("broken schema should not be registered")
	}
}

func TestSchemaRegistry_ValidateDocument(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	schema := `
#Document: {
	APP_NAME: string
	PORT:     int & >0
	database?: {
		HOST: string
		...
	}
	...
}
`
	if err := sr.RegisterSchema("app", schema); err != nil {
		t.Fatalf("RegisterSchema: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantPath string
	}{
		{
			name:    "valid",
			input:   "APP_NAME is \"Razan\";\nPORT is 3000;\n[database]\nHOST is \"db\";\n",
			wantErr: false,
		},
		{
			name:     "wrong type",
			input:    "APP_NAME is \"Razan\";\nPORT is \"3000\";\n",
			wantErr:  true,
			wantPath: "PORT",
		},
		{
			name:     "out of range",
			input:    "APP_NAME is \"Razan\";\nPORT is 0;\n",
			wantErr:  true,
			wantPath: "PORT",
		},
		{
			name:    "missing required",
			input:   "PORT is 1;\n",
			wantErr: true,
		},
		{
			name:     "section field",
			input:    "APP_NAME is \"Razan\";\nPORT is 1;\n[database]\nHOST is 5;\n",
			wantErr:  true,
			wantPath: "database.HOST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ValidateDocument(ctx, "app", NewParser().ParseString(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr || tt.wantPath == "" {
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error type = %T, want ValidationErrors", err)
			}
			found := false
			for _, ve := range verrs {
				if strings.Contains(ve.Path, tt.wantPath) {
					found = true
				}
				if ve.Severity != "error" {
					t.Errorf("severity = %q, want error", ve.Severity)
				}
			}
			if !found {
				t.Errorf("no error for path %s in %v", tt.wantPath, verrs)
			}
		})
	}
}

func TestSchemaRegistry_UnknownSchema(t *testing.T) {
	err := NewSchemaRegistry().ValidateDocument(context.Background(), "nope", NewParser().ParseString(""))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSchemaRegistry_ValidateStructure(t *testing.T) {
	doc := NewParser().ParseString("A is 1;\nB is yes;\n[s]\nC is true;\n")
	if err := NewSchemaRegistry().ValidateStructure(context.Background(), doc); err != nil {
		t.Errorf("ValidateStructure: %v", err)
	}
}

func TestSchemaRegistry_RegisterSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.cue")
	if err := os.WriteFile(path, []byte("#Document: {NAME: =~\"^[a-z]+$\", ...}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sr := NewSchemaRegistry()
	if err := sr.RegisterSchemaFile("file", path); err != nil {
		t.Fatalf("RegisterSchemaFile: %v", err)
	}

	err := sr.ValidateDocument(context.Background(), "file", NewParser().ParseString(`NAME is "Razan";`))
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	if !strings.Contains(verrs.Error(), "NAME") {
		t.Errorf("error %q does not mention NAME", verrs.Error())
	}

	if err := sr.RegisterSchemaFile("missing", filepath.Join(t.TempDir(), "none.cue")); err == nil {
		t.Error("expected error for missing schema file")
	}
}

func TestValidationErrorString(t *testing.T) {
	ve := ValidationError{File: "app.cue", Line: 3, Column: 2, Path: "PORT", Message: "conflicting values"}
	if got := ve.Error(); got != "app.cue:3:2: PORT: conflicting values" {
		t.Errorf("Error() = %q", got)
	}
}
