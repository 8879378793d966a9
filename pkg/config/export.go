package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/token"
	"github.com/razanlang/razan/pkg/value"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCUE}

// Export encodes doc in the given format. Keys keep their file order:
// top-level keys first, then sections in declaration order.
func Export(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportJSON(doc)
	case FormatYAML:
		return ExportYAML(doc)
	case FormatCUE:
		return ExportCUE(doc)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// MarshalJSON encodes the document as an ordered JSON object.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONMember(&buf, e.key, e); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONMember(buf *bytes.Buffer, key string, e entry) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')

	if e.section == nil {
		v, err := json.Marshal(e.value)
		if err != nil {
			return err
		}
		buf.Write(v)
		return nil
	}

	buf.WriteByte('{')
	for i, key := range e.section.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONMember(buf, key, entry{value: e.section.values[key]}); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// ExportJSON exports the document as indented JSON.
func ExportJSON(doc *Document) ([]byte, error) {
	compact, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// ExportYAML exports the document as a YAML mapping.
func ExportYAML(doc *Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range doc.entries() {
		if e.section == nil {
			root.Content = append(root.Content, yamlString(e.key), yamlScalar(e.value))
			continue
		}
		inner := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range e.section.keys {
			inner.Content = append(inner.Content, yamlString(k), yamlScalar(e.section.values[k]))
		}
		root.Content = append(root.Content, yamlString(e.key), inner)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func yamlScalar(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()
		if n == float64(int64(n)) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(n), 10)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v.String()}
	case value.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.String()}
	default:
		return yamlString(v.String())
	}
}

// cueIdent matches labels that can be written unquoted in CUE.
var cueIdent = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

var cueKeywords = map[string]bool{
	"true": true, "false": true, "null": true, "if": true, "for": true,
	"in": true, "let": true, "import": true, "package": true, "func": true,
}

// ExportCUE exports the document as CUE source.
func ExportCUE(doc *Document) ([]byte, error) {
	file := &ast.File{}
	for _, e := range doc.entries() {
		if e.section == nil {
			file.Decls = append(file.Decls, cueField(e.key, cueExpr(e.value)))
			continue
		}
		st := &ast.StructLit{}
		for _, k := range e.section.keys {
			st.Elts = append(st.Elts, cueField(k, cueExpr(e.section.values[k])))
		}
		file.Decls = append(file.Decls, cueField(e.key, st))
	}

	out, err := format.Node(file)
	if err != nil {
		return nil, fmt.Errorf("failed to format CUE: %w", err)
	}
	return out, nil
}

func cueField(key string, v ast.Expr) *ast.Field {
	var label ast.Label
	if cueIdent.MatchString(key) && !cueKeywords[key] {
		label = ast.NewIdent(key)
	} else {
		label = ast.NewString(key)
	}
	return &ast.Field{Label: label, Value: v}
}

func cueExpr(v value.Value) ast.Expr {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()
		if n == float64(int64(n)) {
			return ast.NewLit(token.INT, strconv.FormatInt(int64(n), 10))
		}
		return ast.NewLit(token.FLOAT, strconv.FormatFloat(n, 'g', -1, 64))
	case value.KindBool:
		b, _ := v.AsBool()
		return ast.NewBool(b)
	default:
		return ast.NewString(v.String())
	}
}
